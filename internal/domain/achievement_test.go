package domain

import (
	"errors"
	"testing"
)

func TestCondition_Matches(t *testing.T) {
	stats := &UserStats{
		CompletedTasksCount: 10,
		Streak:              3,
		EnabledDarkMode:     true,
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"greaterOrEqual met", Condition{Kind: ConditionGreaterOrEqual, Field: StatCompletedTasks, Goal: 10}, true},
		{"greaterOrEqual exceeded", Condition{Kind: ConditionGreaterOrEqual, Field: StatCompletedTasks, Goal: 5}, true},
		{"greaterOrEqual unmet", Condition{Kind: ConditionGreaterOrEqual, Field: StatCompletedTasks, Goal: 11}, false},
		{"equal met", Condition{Kind: ConditionEqual, Field: StatStreak, Goal: 3}, true},
		{"equal unmet", Condition{Kind: ConditionEqual, Field: StatStreak, Goal: 4}, false},
		{"bool stat as one", Condition{Kind: ConditionEqual, Field: StatDarkModeEnabled, Goal: 1}, true},
		{"bool stat unmet", Condition{Kind: ConditionEqual, Field: StatProfileEdited, Goal: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cond.Matches(stats)
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCondition_Matches_Errors(t *testing.T) {
	stats := &UserStats{}

	_, err := Condition{Kind: ConditionEqual, Field: StatField("bogus"), Goal: 1}.Matches(stats)
	if !errors.Is(err, ErrUnknownStatField) {
		t.Errorf("unknown field: err = %v, want ErrUnknownStatField", err)
	}

	_, err = Condition{Kind: ConditionKind("bogus"), Field: StatStreak, Goal: 1}.Matches(stats)
	if !errors.Is(err, ErrUnknownCondition) {
		t.Errorf("unknown kind: err = %v, want ErrUnknownCondition", err)
	}
}

func TestUserStats_Value_CoversAllFields(t *testing.T) {
	fields := []StatField{
		StatCompletedTasks, StatStreak, StatLogins, StatEarlyTasks,
		StatLateTasks, StatMissedDeadlines, StatStreakBreaks,
		StatDarkModeEnabled, StatProfileEdited,
	}
	stats := &UserStats{}
	for _, f := range fields {
		if _, err := stats.Value(f); err != nil {
			t.Errorf("Value(%s) error = %v", f, err)
		}
	}
}
