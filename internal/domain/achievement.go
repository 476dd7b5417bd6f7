package domain

import "time"

// StatField is a closed enumeration of the stats an achievement
// condition can reference.
type StatField string

const (
	StatCompletedTasks  StatField = "completedTasksCount"
	StatStreak          StatField = "streak"
	StatLogins          StatField = "loginsCount"
	StatEarlyTasks      StatField = "earlyTasksCount"
	StatLateTasks       StatField = "lateTasksCount"
	StatMissedDeadlines StatField = "missedDeadlinesCount"
	StatStreakBreaks    StatField = "streakBreaksCount"
	StatDarkModeEnabled StatField = "enabledDarkMode"
	StatProfileEdited   StatField = "editedProfile"
)

// UserStats holds the per-owner counters achievements are evaluated
// against. LastCompletedAt feeds the streak bookkeeping and is not a
// condition field.
type UserStats struct {
	LastCompletedAt      *time.Time `json:"lastCompletedAt,omitempty"`
	CompletedTasksCount  int64      `json:"completedTasksCount"`
	Streak               int64      `json:"streak"`
	LoginsCount          int64      `json:"loginsCount"`
	EarlyTasksCount      int64      `json:"earlyTasksCount"`
	LateTasksCount       int64      `json:"lateTasksCount"`
	MissedDeadlinesCount int64      `json:"missedDeadlinesCount"`
	StreakBreaksCount    int64      `json:"streakBreaksCount"`
	EnabledDarkMode      bool       `json:"enabledDarkMode"`
	EditedProfile        bool       `json:"editedProfile"`
}

// Value returns the numeric value of a stat field. Boolean stats map to
// 0/1 so a single comparison path serves every condition kind.
func (s *UserStats) Value(field StatField) (int64, error) {
	switch field {
	case StatCompletedTasks:
		return s.CompletedTasksCount, nil
	case StatStreak:
		return s.Streak, nil
	case StatLogins:
		return s.LoginsCount, nil
	case StatEarlyTasks:
		return s.EarlyTasksCount, nil
	case StatLateTasks:
		return s.LateTasksCount, nil
	case StatMissedDeadlines:
		return s.MissedDeadlinesCount, nil
	case StatStreakBreaks:
		return s.StreakBreaksCount, nil
	case StatDarkModeEnabled:
		return boolStat(s.EnabledDarkMode), nil
	case StatProfileEdited:
		return boolStat(s.EditedProfile), nil
	default:
		return 0, ErrUnknownStatField
	}
}

func boolStat(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ConditionKind discriminates achievement condition variants.
type ConditionKind string

const (
	ConditionEqual          ConditionKind = "equal"
	ConditionGreaterOrEqual ConditionKind = "greaterOrEqual"
)

// Condition is a tagged variant describing when an achievement is earned.
type Condition struct {
	Kind  ConditionKind `json:"kind" yaml:"kind"`
	Field StatField     `json:"field" yaml:"field"`
	Goal  int64         `json:"goal" yaml:"goal"`
}

// Matches evaluates the condition against the given stats.
func (c Condition) Matches(stats *UserStats) (bool, error) {
	value, err := stats.Value(c.Field)
	if err != nil {
		return false, err
	}
	switch c.Kind {
	case ConditionEqual:
		return value == c.Goal, nil
	case ConditionGreaterOrEqual:
		return value >= c.Goal, nil
	default:
		return false, ErrUnknownCondition
	}
}

// Achievement is one entry of the achievement catalog.
type Achievement struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Condition   Condition `json:"condition" yaml:"condition"`
	Hidden      bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// GrantedAchievement records that an owner earned an achievement.
type GrantedAchievement struct {
	GrantedAt time.Time `json:"grantedAt"`
	ID        string    `json:"id"`
}
