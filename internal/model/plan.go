package model

import (
	"github.com/google/uuid"
)

// TrainingPlan is the abstract curriculum: an ordered list of days, each
// holding the entries to schedule on that day.
type TrainingPlan struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID uuid.UUID         `json:"projectId" gorm:"type:uuid;not null;index"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Days      []TrainingPlanDay `json:"days" gorm:"foreignKey:TrainingPlanID"`
}

func (TrainingPlan) TableName() string { return "training_plans" }

// TrainingPlanDay maps to calendar day = project start date + DayNumber - 1.
type TrainingPlanDay struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TrainingPlanID uuid.UUID      `json:"trainingPlanId" gorm:"type:uuid;not null;index"`
	DayNumber      int            `json:"dayNumber" gorm:"not null"` // 1-based
	Entries        []PlannedEntry `json:"entries" gorm:"foreignKey:DayID"`
}

func (TrainingPlanDay) TableName() string { return "training_plan_days" }

// PlannedEntry is one schedulable record on a plan day. Exactly one of
// CourseID, ModuleID, SupportActivityID or CustomTitle identifies what it
// schedules; Kind makes the variant explicit (see EntryKind).
type PlannedEntry struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DayID             uuid.UUID  `json:"dayId" gorm:"type:uuid;not null;index"`
	Order             int        `json:"order" gorm:"column:entry_order;not null"`
	CourseID          *uuid.UUID `json:"courseId,omitempty" gorm:"type:uuid"`
	ModuleID          *uuid.UUID `json:"moduleId,omitempty" gorm:"type:uuid"`
	SupportActivityID *uuid.UUID `json:"supportActivityId,omitempty" gorm:"type:uuid"`
	CustomTitle       *string    `json:"customTitle,omitempty" gorm:"type:text"`
	CustomDuration    *int       `json:"customDuration,omitempty"` // minutes

	Course          *Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Module          *CourseModule    `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	SupportActivity *SupportActivity `json:"supportActivity,omitempty" gorm:"foreignKey:SupportActivityID"`
}

func (PlannedEntry) TableName() string { return "planned_entries" }

// EntryKind is the explicit tag of a PlannedEntry variant.
type EntryKind string

const (
	EntryKindCourse          EntryKind = "course"
	EntryKindModule          EntryKind = "module"
	EntryKindSupportActivity EntryKind = "supportActivity"
	EntryKindCustom          EntryKind = "custom"
	EntryKindInvalid         EntryKind = "invalid"
)

// Kind classifies the entry, returning EntryKindInvalid when none of the
// known shapes hold.
func (e *PlannedEntry) Kind() EntryKind {
	switch {
	case e.CourseID != nil:
		return EntryKindCourse
	case e.ModuleID != nil:
		return EntryKindModule
	case e.SupportActivityID != nil:
		return EntryKindSupportActivity
	case e.CustomTitle != nil && *e.CustomTitle != "":
		return EntryKindCustom
	default:
		return EntryKindInvalid
	}
}

// Course is a teachable unit, possibly split into modules, with optional
// role requirements for its participants.
type Course struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string             `json:"title" gorm:"type:text;not null"`
	DurationMinutes *int               `json:"durationMinutes,omitempty"`
	RequiredRoles   []CourseRole       `json:"requiredRoles" gorm:"foreignKey:CourseID"`
	Modules         []CourseModule     `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string { return "courses" }

// CourseRole links a course to a role its participants must hold.
type CourseRole struct {
	CourseID uuid.UUID `json:"courseId" gorm:"type:uuid;primaryKey"`
	RoleID   uuid.UUID `json:"roleId" gorm:"type:uuid;primaryKey"`
}

func (CourseRole) TableName() string { return "course_roles" }

// CourseModule is one module of a parent course.
type CourseModule struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID uuid.UUID `json:"courseId" gorm:"type:uuid;not null;index"`
	Title    string    `json:"title" gorm:"type:text;not null"`
	Order    int       `json:"order" gorm:"column:module_order;not null"`
	Course   *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (CourseModule) TableName() string { return "course_modules" }

// SupportActivity is a stand-alone activity without participant roles.
type SupportActivity struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string    `json:"title" gorm:"type:text;not null"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
}

func (SupportActivity) TableName() string { return "support_activities" }
