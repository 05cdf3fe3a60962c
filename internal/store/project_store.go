package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/traindesk/api/internal/model"
)

// ProjectStore reads project records with everything an import run needs
// preloaded: settings, groups and group participants.
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Settings").
		Preload("Groups.Participants").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s not found", id)
		}
		return nil, err
	}
	return &project, nil
}
