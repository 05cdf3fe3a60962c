package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/traindesk/api/internal/importer"
	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/schedule"
	"github.com/traindesk/api/internal/store"
	"github.com/traindesk/api/internal/websocket"
)

// ImportWorker processes training-plan import tasks: it loads the project
// and plan, runs the agenda-generation engine and keeps the job record
// current after every unit of work.
type ImportWorker struct {
	jobs     store.JobStore
	projects *store.ProjectStore
	plans    *store.PlanStore
	events   *store.EventStore
	hub      *websocket.Hub
}

func NewImportWorker(jobs store.JobStore, projects *store.ProjectStore, plans *store.PlanStore, events *store.EventStore, hub *websocket.Hub) *ImportWorker {
	return &ImportWorker{
		jobs:     jobs,
		projects: projects,
		plans:    plans,
		events:   events,
		hub:      hub,
	}
}

// Update implements importer.Tracker: it persists the job and mirrors
// progress to WebSocket subscribers.
func (w *ImportWorker) Update(ctx context.Context, job *model.ImportJob) error {
	if err := w.jobs.Update(ctx, job); err != nil {
		return err
	}
	w.hub.BroadcastProgress(job)
	return nil
}

// ProcessTask handles one import task end to end.
func (w *ImportWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var taskPayload struct {
		JobID   string          `json:"jobId"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(t.Payload(), &taskPayload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	jobID := taskPayload.JobID
	log.Printf("Starting import job: %s", jobID)

	job, err := w.jobs.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID, err)
	}

	var payload model.ImportJobPayload
	if err := json.Unmarshal(taskPayload.Payload, &payload); err != nil {
		w.failJob(ctx, job, "Invalid import payload")
		return fmt.Errorf("failed to unmarshal import payload: %w", err)
	}

	input, err := w.loadInput(ctx, &payload)
	if err != nil {
		w.failJob(ctx, job, err.Error())
		return err
	}

	engine := importer.New(w.events, w)
	if err := engine.Run(ctx, job, *input); err != nil {
		w.failJob(ctx, job, err.Error())
		return err
	}

	w.hub.BroadcastComplete(job.ID, model.StatusView(job))
	log.Printf("Import job %s completed: %d events, %d warnings", jobID, len(job.Events), len(job.WarningMessages))
	return nil
}

// loadInput resolves everything the engine needs. Any failure here is a
// setup failure and marks the whole job failed.
func (w *ImportWorker) loadInput(ctx context.Context, payload *model.ImportJobPayload) (*importer.Input, error) {
	projectID, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q", payload.ProjectID)
	}
	planID, err := uuid.Parse(payload.TrainingPlanID)
	if err != nil {
		return nil, fmt.Errorf("invalid training plan id %q", payload.TrainingPlanID)
	}

	project, err := w.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	plan, err := w.plans.GetTrainingPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	groups, err := selectGroups(project, payload.SelectedGroups)
	if err != nil {
		return nil, err
	}

	cfg, err := schedule.FromSettings(project.Settings, payload.FollowProjectHours)
	if err != nil {
		return nil, err
	}

	selectedRoles := make(map[uuid.UUID]bool, len(payload.SelectedRoles))
	for _, raw := range payload.SelectedRoles {
		if roleID, err := uuid.Parse(raw); err == nil {
			selectedRoles[roleID] = true
		}
	}

	var booked []schedule.Interval
	if payload.PreserveExistingEvents {
		booked, err = w.events.ListProjectIntervals(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing events: %w", err)
		}
	}

	return &importer.Input{
		Project:                project,
		Plan:                   plan,
		Groups:                 groups,
		Config:                 cfg,
		AssignByRole:           payload.AssignByRole,
		IncludeAllParticipants: payload.IncludeAllParticipants,
		SelectedRoles:          selectedRoles,
		Preserve:               payload.PreserveExistingEvents,
		Booked:                 booked,
	}, nil
}

// selectGroups returns the target groups in the caller-supplied order, or
// every project group when no selection was made.
func selectGroups(project *model.Project, selected []string) ([]model.Group, error) {
	if len(selected) == 0 {
		if len(project.Groups) == 0 {
			return nil, fmt.Errorf("project %q has no groups", project.Name)
		}
		return project.Groups, nil
	}

	byID := make(map[uuid.UUID]*model.Group, len(project.Groups))
	for i := range project.Groups {
		byID[project.Groups[i].ID] = &project.Groups[i]
	}

	groups := make([]model.Group, 0, len(selected))
	for _, raw := range selected {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if g, ok := byID[id]; ok {
			groups = append(groups, *g)
		}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no valid groups selected for project %q", project.Name)
	}
	return groups, nil
}

func (w *ImportWorker) failJob(ctx context.Context, job *model.ImportJob, errMsg string) {
	now := time.Now()
	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	job.Message = "Import failed"
	job.CompletedAt = &now
	if err := w.jobs.Update(ctx, job); err != nil {
		log.Printf("Failed to mark job %s as failed: %v", job.ID, err)
	}
	w.hub.BroadcastError(job.ID, "IMPORT_FAILED", errMsg)
}
