package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/schedule"
)

// Materializer persists one produced event together with its group
// association and attendee records. Support-activity, custom and lunch
// events pass a nil group and no attendees.
type Materializer interface {
	CreateEvent(ctx context.Context, event *model.Event, groupID *uuid.UUID, attendeeIDs []uuid.UUID) error
}

// Tracker receives the job record after every unit of work so progress is
// observable while the run is still going.
type Tracker interface {
	Update(ctx context.Context, job *model.ImportJob) error
}

// Input is everything a run needs, loaded up front by the worker.
type Input struct {
	Project                *model.Project
	Plan                   *model.TrainingPlan
	Groups                 []model.Group // caller-supplied scheduling order
	Config                 schedule.Config
	AssignByRole           bool
	IncludeAllParticipants bool
	SelectedRoles          map[uuid.UUID]bool
	Preserve               bool
	Booked                 []schedule.Interval
}

// Engine converts a training plan into calendar events: it sequences each
// plan day, schedules every item back-to-back per group, and closes each
// day with a lunch break when the window is free.
type Engine struct {
	materializer Materializer
	tracker      Tracker
}

func New(m Materializer, t Tracker) *Engine {
	return &Engine{materializer: m, tracker: t}
}

type daySequence struct {
	day      model.TrainingPlanDay
	items    []schedule.SequenceItem
	warnings []string
}

// Run processes all plan days in ascending day order. Per-item failures
// become warnings and the run continues; only errors outside item scope
// (invalid calendar configuration) abort and are reported by the caller.
func (e *Engine) Run(ctx context.Context, job *model.ImportJob, in Input) error {
	if err := in.Config.Validate(); err != nil {
		return err
	}

	days := make([]model.TrainingPlanDay, len(in.Plan.Days))
	copy(days, in.Plan.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })

	// Sequence everything first so the total is known before any event is
	// placed.
	sequences := make([]daySequence, 0, len(days))
	total := 0
	for _, day := range days {
		items, warnings := schedule.BuildSequence(day.Entries)
		for _, it := range items {
			if it.Kind == schedule.ItemCourse {
				total += len(in.Groups)
			} else {
				total++
			}
		}
		sequences = append(sequences, daySequence{day: day, items: items, warnings: warnings})
	}

	job.Status = model.JobStatusInProgress
	job.Total = total
	job.Message = fmt.Sprintf("Scheduling %d days for %d groups", len(days), len(in.Groups))
	if err := e.tracker.Update(ctx, job); err != nil {
		return err
	}

	booked := make([]schedule.Interval, len(in.Booked))
	copy(booked, in.Booked)

	for _, seq := range sequences {
		for _, w := range seq.warnings {
			job.AddWarning(w)
		}

		dayStart := schedule.DayAt(in.Project.StartDate, seq.day.DayNumber, in.Config.StartOfDay, in.Config.Location)
		dayStart, err := schedule.EnsureWorkingDay(dayStart, in.Config)
		if err != nil {
			return err
		}

		clock := dayStart
		eventsBefore := len(job.Events)

		for i := range seq.items {
			item := &seq.items[i]
			if err := e.processItem(ctx, job, in, item, seq.day.DayNumber, &clock, &booked); err != nil {
				job.AddWarning(fmt.Sprintf("Failed to process %s %q: %v", kindLabel(item.Kind), item.Title(), err))
				e.advance(ctx, job)
			}
		}

		if len(job.Events) > eventsBefore {
			if err := e.injectLunch(ctx, job, in, seq.day.DayNumber, &booked); err != nil {
				job.AddWarning(fmt.Sprintf("Failed to process lunch break on day %d: %v", seq.day.DayNumber, err))
			}
		}
	}

	now := time.Now()
	job.Status = model.JobStatusCompleted
	job.CompletedAt = &now
	job.Message = fmt.Sprintf("Import completed: %d events created, %d warnings", len(job.Events), len(job.WarningMessages))
	return e.tracker.Update(ctx, job)
}

// processItem schedules one sequence item. Course items loop over every
// target group back-to-back; support and custom items book a single pass
// with no group association. An error aborts the rest of the item.
func (e *Engine) processItem(ctx context.Context, job *model.ImportJob, in Input, item *schedule.SequenceItem, dayNumber int, clock *time.Time, booked *[]schedule.Interval) error {
	duration := item.Duration()

	if item.Kind != schedule.ItemCourse {
		slots, err := schedule.ScheduleEvent(*clock, duration, in.Config, *booked, in.Preserve)
		if err != nil {
			return err
		}
		if err := e.materialize(ctx, job, in, item, dayNumber, slots, nil, nil, booked); err != nil {
			return err
		}
		*clock = slots[len(slots)-1].End
		e.advance(ctx, job)
		return nil
	}

	required := e.requiredRoles(in, item)
	for gi := range in.Groups {
		group := &in.Groups[gi]
		eligible := eligibleParticipants(group, required)
		if len(required) > 0 && len(eligible) == 0 {
			job.AddWarning(fmt.Sprintf("No participants in group %q match required roles for %q - skipping group",
				group.Name, item.Title()))
			e.advance(ctx, job)
			continue
		}

		slots, err := schedule.ScheduleEvent(*clock, duration, in.Config, *booked, in.Preserve)
		if err != nil {
			return err
		}
		if err := e.materialize(ctx, job, in, item, dayNumber, slots, group, eligible, booked); err != nil {
			return err
		}
		*clock = slots[len(slots)-1].End
		e.advance(ctx, job)
	}
	return nil
}

// materialize persists each slot of one booking and records it on the job.
func (e *Engine) materialize(ctx context.Context, job *model.ImportJob, in Input, item *schedule.SequenceItem, dayNumber int, slots []schedule.Slot, group *model.Group, attendees []uuid.UUID, booked *[]schedule.Interval) error {
	title := item.Title()
	eventType := eventTypeFor(item.Kind)
	var groupID *uuid.UUID
	if group != nil {
		title = fmt.Sprintf("%s - %s", title, group.Name)
		groupID = &group.ID
	}

	var courseID *uuid.UUID
	if item.Kind == schedule.ItemCourse {
		id := item.CourseID
		courseID = &id
	}

	for _, slot := range slots {
		event := &model.Event{
			ID:        uuid.New(),
			ProjectID: in.Project.ID,
			Title:     title,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Type:      eventType,
			CourseID:  courseID,
			Metadata:  auditMetadata(job.ID, dayNumber),
		}
		if err := e.materializer.CreateEvent(ctx, event, groupID, attendees); err != nil {
			return err
		}
		job.Events = append(job.Events, model.EventSummary{
			ID:    event.ID.String(),
			Title: event.Title,
			Start: event.StartTime,
			End:   event.EndTime,
		})
		if in.Preserve {
			*booked = append(*booked, schedule.Interval{Start: slot.Start, End: slot.End})
		}
	}
	return nil
}

// injectLunch places a single lunch event on the day's working date when
// the preferred window is free. Unlike regular events the window is never
// shifted; a collision skips lunch for the day.
func (e *Engine) injectLunch(ctx context.Context, job *model.ImportJob, in Input, dayNumber int, booked *[]schedule.Interval) error {
	if in.Config.Lunch == nil {
		return nil
	}

	start := schedule.DayAt(in.Project.StartDate, dayNumber, in.Config.Lunch.Start, in.Config.Location)
	start, err := schedule.EnsureWorkingDay(start, in.Config)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(in.Config.Lunch.End-in.Config.Lunch.Start) * time.Minute)

	for _, iv := range *booked {
		if schedule.SameDay(start, iv.Start) && schedule.Overlaps(start, end, iv.Start, iv.End) {
			return nil
		}
	}

	event := &model.Event{
		ID:        uuid.New(),
		ProjectID: in.Project.ID,
		Title:     "Lunch Break",
		StartTime: start,
		EndTime:   end,
		Type:      model.EventTypeLunch,
		Metadata:  auditMetadata(job.ID, dayNumber),
	}
	if err := e.materializer.CreateEvent(ctx, event, nil, nil); err != nil {
		return err
	}
	job.Events = append(job.Events, model.EventSummary{
		ID:    event.ID.String(),
		Title: event.Title,
		Start: event.StartTime,
		End:   event.EndTime,
	})
	if in.Preserve {
		*booked = append(*booked, schedule.Interval{Start: start, End: end})
	}
	return nil
}

// advance counts one processed unit and flushes progress. Tracker errors
// here must not kill a healthy run.
func (e *Engine) advance(ctx context.Context, job *model.ImportJob) {
	if job.Processed < job.Total {
		job.Processed++
	}
	_ = e.tracker.Update(ctx, job)
}

// requiredRoles resolves the role set a course item demands. It is empty
// unless role-based assignment is on, the request did not widen to all
// participants, and the course names roles (intersected with the
// explicitly selected roles when the request narrows them).
func (e *Engine) requiredRoles(in Input, item *schedule.SequenceItem) map[uuid.UUID]bool {
	if !in.AssignByRole || in.IncludeAllParticipants || item.Course == nil {
		return nil
	}
	required := make(map[uuid.UUID]bool)
	for _, cr := range item.Course.RequiredRoles {
		if len(in.SelectedRoles) == 0 || in.SelectedRoles[cr.RoleID] {
			required[cr.RoleID] = true
		}
	}
	return required
}

func eligibleParticipants(group *model.Group, required map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(group.Participants))
	for _, p := range group.Participants {
		if len(required) == 0 || (p.RoleID != nil && required[*p.RoleID]) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func eventTypeFor(kind schedule.ItemKind) model.EventType {
	switch kind {
	case schedule.ItemSupportActivity:
		return model.EventTypeSupportActivity
	case schedule.ItemCustom:
		return model.EventTypeCustom
	default:
		return model.EventTypeCourse
	}
}

func kindLabel(kind schedule.ItemKind) string {
	switch kind {
	case schedule.ItemSupportActivity:
		return "support activity"
	case schedule.ItemCustom:
		return "custom activity"
	default:
		return "course"
	}
}

func auditMetadata(jobID string, dayNumber int) datatypes.JSON {
	data, _ := json.Marshal(model.EventAuditEntry{
		Source:     "training-plan-import",
		JobID:      jobID,
		PlanDay:    dayNumber,
		ImportedAt: time.Now().UTC(),
	})
	return datatypes.JSON(data)
}
