package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/store"
)

// TaskTypeImport is the asynq task type for training-plan imports.
const TaskTypeImport = "import:training_plan"

// QueueImport is the asynq queue import tasks run on.
const QueueImport = "import"

// TaskEnqueuer is the slice of asynq.Client the service needs; tests
// substitute a fake so no Redis is required.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ImportService accepts import requests, issues job ids and hands the
// work to the background queue. All scheduling happens after the response.
type ImportService struct {
	jobs     store.JobStore
	enqueuer TaskEnqueuer
}

func NewImportService(jobs store.JobStore, enqueuer TaskEnqueuer) *ImportService {
	return &ImportService{jobs: jobs, enqueuer: enqueuer}
}

// StartImport creates the job record and enqueues the background task.
func (s *ImportService) StartImport(ctx context.Context, req *model.ImportStartRequest) (*model.ImportStartResponse, error) {
	jobID := uuid.New().String()

	payload := &model.ImportJobPayload{
		ProjectID:              req.ProjectID,
		TrainingPlanID:         req.TrainingPlanID,
		SelectedGroups:         req.SelectedGroups,
		IncludeAllParticipants: req.IncludeAllParticipants,
		FollowProjectHours:     req.FollowProjectHours,
		AssignByRole:           req.AssignByRole,
		SelectedRoles:          req.SelectedRoles,
		PreserveExistingEvents: req.PreserveExistingEvents,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	job := &model.ImportJob{
		ID:        jobID,
		Status:    model.JobStatusStarting,
		Message:   "Import accepted",
		Payload:   payloadBytes,
		StartedAt: time.Now(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := newImportTask(jobID, payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	// A failed import is terminal: per-item failures are absorbed as
	// warnings inside the run, so retrying the whole task would duplicate
	// events.
	_, err = s.enqueuer.Enqueue(task,
		asynq.Queue(QueueImport),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.ImportStartResponse{
		Success: true,
		JobID:   jobID,
		Message: "Training plan import started",
	}, nil
}

// GetStatus returns the poll view of a job.
func (s *ImportService) GetStatus(ctx context.Context, jobID string) (*model.ImportStatusResponse, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return model.StatusView(job), nil
}

func newImportTask(jobID string, payload []byte) (*asynq.Task, error) {
	taskPayload := map[string]interface{}{
		"jobId":   jobID,
		"payload": payload,
	}
	data, err := json.Marshal(taskPayload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeImport, data), nil
}
