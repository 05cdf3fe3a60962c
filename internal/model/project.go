package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project owns the participant groups and the schedule settings an import
// run works against.
type Project struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string           `json:"name" gorm:"type:text;not null"`
	StartDate time.Time        `json:"startDate" gorm:"type:date;not null"`
	Settings  *ProjectSettings `json:"settings,omitempty" gorm:"foreignKey:ProjectID"`
	Groups    []Group          `json:"groups" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string { return "projects" }

// ProjectSettings holds the working-calendar configuration. Clock fields
// use "HH:MM", LunchTime uses "HH:MM-HH:MM"; absent values fall back to
// the Default* constants.
type ProjectSettings struct {
	ProjectID      uuid.UUID                   `json:"projectId" gorm:"type:uuid;primaryKey"`
	StartOfDayTime string                      `json:"startOfDayTime" gorm:"type:text"`
	EndOfDayTime   string                      `json:"endOfDayTime" gorm:"type:text"`
	LunchTime      string                      `json:"lunchTime" gorm:"type:text"`
	WorkingDays    datatypes.JSONSlice[string] `json:"workingDays"`
	Timezone       string                      `json:"timezone" gorm:"type:text"`
}

func (ProjectSettings) TableName() string { return "project_settings" }

// Group is a set of participants scheduled together.
type Group struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID    uuid.UUID     `json:"projectId" gorm:"type:uuid;not null;index"`
	Name         string        `json:"name" gorm:"type:text;not null"`
	Participants []Participant `json:"participants" gorm:"foreignKey:GroupID"`
}

func (Group) TableName() string { return "groups" }

// Participant belongs to a group; RoleID drives course eligibility.
type Participant struct {
	ID      uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupID uuid.UUID  `json:"groupId" gorm:"type:uuid;not null;index"`
	Name    string     `json:"name" gorm:"type:text;not null"`
	Email   string     `json:"email" gorm:"type:text"`
	RoleID  *uuid.UUID `json:"roleId,omitempty" gorm:"type:uuid"`
}

func (Participant) TableName() string { return "participants" }

// Event is one materialized calendar entry produced by the import engine
// (or pre-existing in the project when the preserve flag consults it).
type Event struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;index"`
	Title     string         `json:"title" gorm:"type:text;not null"`
	StartTime time.Time      `json:"startTime" gorm:"not null;index"`
	EndTime   time.Time      `json:"endTime" gorm:"not null"`
	Type      EventType      `json:"type" gorm:"type:text;not null"`
	CourseID  *uuid.UUID     `json:"courseId,omitempty" gorm:"type:uuid"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Event) TableName() string { return "events" }

// EventGroup associates a produced event with the group attending it.
type EventGroup struct {
	EventID uuid.UUID `json:"eventId" gorm:"type:uuid;primaryKey"`
	GroupID uuid.UUID `json:"groupId" gorm:"type:uuid;primaryKey"`
}

func (EventGroup) TableName() string { return "event_groups" }

// EventAttendee records one eligible participant on an event.
type EventAttendee struct {
	EventID       uuid.UUID `json:"eventId" gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID `json:"participantId" gorm:"type:uuid;primaryKey"`
}

func (EventAttendee) TableName() string { return "event_attendees" }

// EventAuditEntry is embedded in Event.Metadata so generated events carry
// their provenance.
type EventAuditEntry struct {
	Source     string    `json:"source"`
	JobID      string    `json:"jobId"`
	PlanDay    int       `json:"planDay"`
	ImportedAt time.Time `json:"importedAt"`
}
