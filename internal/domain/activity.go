package domain

import "time"

// ActivityType classifies activity log entries.
type ActivityType string

const (
	ActivityTaskCreated        ActivityType = "task_created"
	ActivityTaskCompleted      ActivityType = "task_completed"
	ActivityTaskDeleted        ActivityType = "task_deleted"
	ActivityAchievementGranted ActivityType = "achievement_granted"
	ActivityProfileUpdated     ActivityType = "profile_updated"
)

// ActivityEntry is one line of an owner's activity log.
// Fields are ordered to minimize memory padding.
type ActivityEntry struct {
	Timestamp     time.Time    `json:"timestamp"`
	Type          ActivityType `json:"type"`
	Message       string       `json:"message"`
	TaskID        string       `json:"taskId,omitempty"`
	AchievementID string       `json:"achievementId,omitempty"`
}
