package schedule

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/traindesk/api/internal/model"
)

// ItemKind tags one merged unit of schedulable work.
type ItemKind string

const (
	ItemCourse          ItemKind = "course"
	ItemSupportActivity ItemKind = "supportActivity"
	ItemCustom          ItemKind = "custom"
)

// SequenceItem is one order-tagged unit produced by BuildSequence: a
// course possibly spanning several modules, a support activity, or a
// custom entry.
type SequenceItem struct {
	Kind            ItemKind
	Order           int
	CourseID        uuid.UUID
	Course          *model.Course
	Modules         []model.CourseModule
	SupportActivity *model.SupportActivity
	CustomTitle     string
	CustomDuration  *int
}

// Title resolves the display title for the item.
func (it *SequenceItem) Title() string {
	if it.CustomTitle != "" {
		return it.CustomTitle
	}
	switch it.Kind {
	case ItemCourse:
		if it.Course != nil {
			return it.Course.Title
		}
		return "Untitled course"
	case ItemSupportActivity:
		if it.SupportActivity != nil {
			return it.SupportActivity.Title
		}
		return "Support activity"
	default:
		return "Custom activity"
	}
}

// Duration resolves the item duration in minutes: explicit override first,
// then the referenced entity's own duration, then the fixed default.
func (it *SequenceItem) Duration() int {
	if it.CustomDuration != nil && *it.CustomDuration > 0 {
		return *it.CustomDuration
	}
	switch it.Kind {
	case ItemCourse:
		if it.Course != nil && it.Course.DurationMinutes != nil && *it.Course.DurationMinutes > 0 {
			return *it.Course.DurationMinutes
		}
	case ItemSupportActivity:
		if it.SupportActivity != nil && it.SupportActivity.DurationMinutes != nil && *it.SupportActivity.DurationMinutes > 0 {
			return *it.SupportActivity.DurationMinutes
		}
	}
	return model.DefaultDurationMin
}

func (it *SequenceItem) hasModule(id uuid.UUID) bool {
	for _, m := range it.Modules {
		if m.ID == id {
			return true
		}
	}
	return false
}

// BuildSequence flattens a day's entries into an ordered item list.
// Entries resolving to the same parent course are coalesced into one item
// positioned at the earliest order seen; equal orders keep encounter
// order. Entries matching none of the known shapes are rejected with a
// warning instead of being dropped silently.
func BuildSequence(entries []model.PlannedEntry) ([]SequenceItem, []string) {
	var (
		items    []*SequenceItem
		byCourse = make(map[uuid.UUID]*SequenceItem)
		warnings []string
	)

	for i := range entries {
		e := &entries[i]
		switch e.Kind() {
		case model.EntryKindSupportActivity:
			items = append(items, &SequenceItem{
				Kind:            ItemSupportActivity,
				Order:           e.Order,
				SupportActivity: e.SupportActivity,
				CustomTitle:     deref(e.CustomTitle),
				CustomDuration:  e.CustomDuration,
			})

		case model.EntryKindCustom:
			items = append(items, &SequenceItem{
				Kind:           ItemCustom,
				Order:          e.Order,
				CustomTitle:    deref(e.CustomTitle),
				CustomDuration: e.CustomDuration,
			})

		case model.EntryKindCourse, model.EntryKindModule:
			courseID, course, module := resolveCourse(e)
			item, seen := byCourse[courseID]
			if !seen {
				item = &SequenceItem{
					Kind:           ItemCourse,
					Order:          e.Order,
					CourseID:       courseID,
					Course:         course,
					CustomTitle:    deref(e.CustomTitle),
					CustomDuration: e.CustomDuration,
				}
				byCourse[courseID] = item
				items = append(items, item)
			} else {
				if e.Order < item.Order {
					item.Order = e.Order
				}
				if item.Course == nil {
					item.Course = course
				}
				if course != nil && course.Title != "" {
					item.CustomTitle = course.Title
				}
				if item.CustomDuration == nil {
					item.CustomDuration = e.CustomDuration
				}
			}
			if module != nil && !item.hasModule(module.ID) {
				item.Modules = append(item.Modules, *module)
			}

		default:
			warnings = append(warnings, fmt.Sprintf(
				"Skipping plan entry %s: no course, module, support activity or custom title", e.ID))
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	out := make([]SequenceItem, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out, warnings
}

// resolveCourse maps a course- or module-bearing entry to its parent
// course id, the course record when loaded, and the module when the entry
// came through one.
func resolveCourse(e *model.PlannedEntry) (uuid.UUID, *model.Course, *model.CourseModule) {
	if e.CourseID != nil {
		return *e.CourseID, e.Course, nil
	}
	if e.Module != nil {
		return e.Module.CourseID, e.Module.Course, e.Module
	}
	// Module reference without a preloaded record: the module id itself is
	// the only handle left, so bucket by it.
	return *e.ModuleID, nil, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
