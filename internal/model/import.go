package model

import "time"

// ImportStartRequest represents the request to start a training-plan import
type ImportStartRequest struct {
	ProjectID              string   `json:"projectId" validate:"required,uuid"`
	TrainingPlanID         string   `json:"trainingPlanId" validate:"required,uuid"`
	SelectedGroups         []string `json:"selectedGroups" validate:"omitempty,dive,uuid"`
	IncludeAllParticipants bool     `json:"includeAllParticipants"`
	FollowProjectHours     bool     `json:"followProjectHours"`
	AssignByRole           bool     `json:"assignByRole"`
	SelectedRoles          []string `json:"selectedRoles" validate:"omitempty,dive,uuid"`
	PreserveExistingEvents bool     `json:"preserveExistingEvents"`
}

// ImportStartResponse is returned when an import job has been accepted
type ImportStartResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// ImportStatusResponse is the poll view of a running or finished job
type ImportStatusResponse struct {
	JobID           string         `json:"jobId"`
	Status          JobStatus      `json:"status"`
	Processed       int            `json:"processed"`
	Total           int            `json:"total"`
	Message         string         `json:"message"`
	Warnings        int            `json:"warnings"`
	WarningMessages []string       `json:"warningMessages"`
	Events          []EventSummary `json:"events"`
	Error           *string        `json:"error,omitempty"`
	StartedAt       time.Time      `json:"startedAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
}

// StatusView projects a job into its poll representation.
func StatusView(job *ImportJob) *ImportStatusResponse {
	return &ImportStatusResponse{
		JobID:           job.ID,
		Status:          job.Status,
		Processed:       job.Processed,
		Total:           job.Total,
		Message:         job.Message,
		Warnings:        len(job.WarningMessages),
		WarningMessages: job.WarningMessages,
		Events:          job.Events,
		Error:           job.Error,
		StartedAt:       job.StartedAt,
		CompletedAt:     job.CompletedAt,
	}
}
