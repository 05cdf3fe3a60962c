package model

import "time"

// ImportJob tracks one asynchronous training-plan import run. It is
// created when the import request is accepted and mutated exclusively by
// the background worker that owns it; clients observe it through the
// status endpoint or the WebSocket hub.
type ImportJob struct {
	ID              string          `json:"jobId"`
	Status          JobStatus       `json:"status"`
	Processed       int             `json:"processed"`
	Total           int             `json:"total"`
	Message         string          `json:"message"`
	Events          []EventSummary  `json:"events"`
	WarningMessages []string        `json:"warningMessages"`
	Error           *string         `json:"error,omitempty"`
	Payload         []byte          `json:"-"` // stored as JSON
	StartedAt       time.Time       `json:"startedAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
}

// EventSummary is the job-visible record of one materialized event.
type EventSummary struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AddWarning appends a warning without touching the progress counters.
func (j *ImportJob) AddWarning(msg string) {
	j.WarningMessages = append(j.WarningMessages, msg)
}

// ImportJobPayload carries the request parameters into the background task.
type ImportJobPayload struct {
	ProjectID              string   `json:"projectId"`
	TrainingPlanID         string   `json:"trainingPlanId"`
	SelectedGroups         []string `json:"selectedGroups,omitempty"`
	IncludeAllParticipants bool     `json:"includeAllParticipants"`
	FollowProjectHours     bool     `json:"followProjectHours"`
	AssignByRole           bool     `json:"assignByRole"`
	SelectedRoles          []string `json:"selectedRoles,omitempty"`
	PreserveExistingEvents bool     `json:"preserveExistingEvents"`
}
