package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/service"
	"github.com/traindesk/api/internal/store"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	fail  bool
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.fail {
		return nil, fmt.Errorf("queue unavailable")
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: service.QueueImport}, nil
}

func newTestApp(jobs store.JobStore, enq service.TaskEnqueuer) *fiber.App {
	svc := service.NewImportService(jobs, enq)
	h := NewImportHandler(svc, validator.New())

	app := fiber.New()
	app.Post("/api/training-plans/import", h.Start)
	app.Get("/api/training-plans/import/status", h.Status)
	return app
}

func postImport(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/training-plans/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("invalid response body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, parsed
}

func TestStart_Accepted(t *testing.T) {
	jobs := store.NewMemoryJobStore()
	enq := &fakeEnqueuer{}
	app := newTestApp(jobs, enq)

	body := fmt.Sprintf(`{"projectId":%q,"trainingPlanId":%q}`, uuid.New(), uuid.New())
	status, parsed := postImport(t, app, body)

	if status != fiber.StatusAccepted {
		t.Fatalf("expected 202, got %d: %v", status, parsed)
	}
	if parsed["success"] != true {
		t.Errorf("expected success true, got %v", parsed["success"])
	}
	jobID, _ := parsed["jobId"].(string)
	if jobID == "" {
		t.Fatalf("expected a jobId, got %v", parsed)
	}

	// The job record exists and the task went on the queue.
	job, err := jobs.Get(context.Background(), jobID)
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if job.Status != model.JobStatusStarting {
		t.Errorf("expected starting status, got %s", job.Status)
	}
	if len(enq.tasks) != 1 || enq.tasks[0].Type() != service.TaskTypeImport {
		t.Errorf("expected one %s task enqueued", service.TaskTypeImport)
	}
}

func TestStart_MissingIDs(t *testing.T) {
	app := newTestApp(store.NewMemoryJobStore(), &fakeEnqueuer{})

	status, parsed := postImport(t, app, `{"projectId":""}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	errObj, _ := parsed["error"].(map[string]interface{})
	if errObj["code"] != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR, got %v", errObj["code"])
	}
}

func TestStart_MalformedUUID(t *testing.T) {
	app := newTestApp(store.NewMemoryJobStore(), &fakeEnqueuer{})

	body := fmt.Sprintf(`{"projectId":"not-a-uuid","trainingPlanId":%q}`, uuid.New())
	status, _ := postImport(t, app, body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestStart_EnqueueFailure(t *testing.T) {
	app := newTestApp(store.NewMemoryJobStore(), &fakeEnqueuer{fail: true})

	body := fmt.Sprintf(`{"projectId":%q,"trainingPlanId":%q}`, uuid.New(), uuid.New())
	status, _ := postImport(t, app, body)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
}

func TestStatus_MissingJobID(t *testing.T) {
	app := newTestApp(store.NewMemoryJobStore(), &fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/api/training-plans/import/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestStatus_UnknownJob(t *testing.T) {
	app := newTestApp(store.NewMemoryJobStore(), &fakeEnqueuer{})

	req := httptest.NewRequest("GET", "/api/training-plans/import/status?jobId=missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestStatus_KnownJob(t *testing.T) {
	jobs := store.NewMemoryJobStore()
	app := newTestApp(jobs, &fakeEnqueuer{})

	job := &model.ImportJob{
		ID:              "job-1",
		Status:          model.JobStatusInProgress,
		Processed:       4,
		Total:           10,
		Message:         "Scheduling 5 days for 2 groups",
		WarningMessages: []string{"a warning"},
		StartedAt:       time.Now(),
	}
	if err := jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/training-plans/import/status?jobId=job-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var parsed model.ImportStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if parsed.JobID != "job-1" || parsed.Status != model.JobStatusInProgress {
		t.Errorf("unexpected status payload: %+v", parsed)
	}
	if parsed.Processed != 4 || parsed.Total != 10 || parsed.Warnings != 1 {
		t.Errorf("unexpected counters: %+v", parsed)
	}
}
