package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/traindesk/api/internal/model"
)

// PlanStore reads training plans with ordered days and fully resolved
// entries: course with role requirements, module with its parent course,
// or support activity.
type PlanStore struct {
	db *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

func (s *PlanStore) GetTrainingPlan(ctx context.Context, id uuid.UUID) (*model.TrainingPlan, error) {
	var plan model.TrainingPlan
	err := s.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		Preload("Days.Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_order ASC")
		}).
		Preload("Days.Entries.Course.RequiredRoles").
		Preload("Days.Entries.Module.Course.RequiredRoles").
		Preload("Days.Entries.SupportActivity").
		First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("training plan %s not found", id)
		}
		return nil, err
	}
	return &plan, nil
}
