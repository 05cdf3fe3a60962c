package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/traindesk/api/internal/model"
	"github.com/traindesk/api/internal/schedule"
)

// EventStore materializes produced events and serves the existing-events
// query the preserve flag relies on.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// CreateEvent writes the event plus its group association and one
// attendee row per eligible participant, in one transaction.
func (s *EventStore) CreateEvent(ctx context.Context, event *model.Event, groupID *uuid.UUID, attendeeIDs []uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if groupID != nil {
			if err := tx.Create(&model.EventGroup{EventID: event.ID, GroupID: *groupID}).Error; err != nil {
				return err
			}
		}
		for _, pid := range attendeeIDs {
			if err := tx.Create(&model.EventAttendee{EventID: event.ID, ParticipantID: pid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListProjectIntervals returns the {start, end} pairs of the project's
// committed events, ordered by start time.
func (s *EventStore) ListProjectIntervals(ctx context.Context, projectID uuid.UUID) ([]schedule.Interval, error) {
	var events []model.Event
	err := s.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where("project_id = ?", projectID).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(events))
	for _, ev := range events {
		intervals = append(intervals, schedule.Interval{Start: ev.StartTime, End: ev.EndTime})
	}
	return intervals, nil
}
