package model

// Job status
type JobStatus string

const (
	JobStatusStarting   JobStatus = "starting"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a job in this status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Event types
type EventType string

const (
	EventTypeCourse          EventType = "course"
	EventTypeSupportActivity EventType = "support_activity"
	EventTypeCustom          EventType = "custom"
	EventTypeLunch           EventType = "lunch"
)

// Default project settings applied when a project carries no explicit
// schedule configuration.
const (
	DefaultStartOfDay  = "09:00"
	DefaultEndOfDay    = "17:00"
	DefaultLunchTime   = "12:00-13:00"
	DefaultTimezone    = "UTC"
	DefaultDurationMin = 60
)

var DefaultWorkingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
