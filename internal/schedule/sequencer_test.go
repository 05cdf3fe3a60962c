package schedule

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/traindesk/api/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestBuildSequence_MergesSameCourse(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Title: "Safety Basics"}
	mod1 := &model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "Intro", Course: course}
	mod2 := &model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "Practice", Course: course}
	activity := &model.SupportActivity{ID: uuid.New(), Title: "Site Tour"}

	entries := []model.PlannedEntry{
		{ID: uuid.New(), Order: 3, ModuleID: &mod1.ID, Module: mod1},
		{ID: uuid.New(), Order: 5, SupportActivityID: &activity.ID, SupportActivity: activity},
		{ID: uuid.New(), Order: 1, ModuleID: &mod2.ID, Module: mod2},
	}

	items, warnings := BuildSequence(entries)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	// The merged course takes the minimum order seen and sorts first.
	if items[0].Kind != ItemCourse || items[0].Order != 1 {
		t.Errorf("expected course item with order 1 first, got %+v", items[0])
	}
	if len(items[0].Modules) != 2 {
		t.Errorf("expected 2 merged modules, got %d", len(items[0].Modules))
	}
	if items[0].Title() != "Safety Basics" {
		t.Errorf("expected title refreshed to parent course, got %q", items[0].Title())
	}
	if items[1].Kind != ItemSupportActivity {
		t.Errorf("expected support activity second, got %+v", items[1])
	}
}

func TestBuildSequence_DedupesModules(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Title: "Forklift"}
	mod := &model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "Theory", Course: course}

	entries := []model.PlannedEntry{
		{ID: uuid.New(), Order: 1, ModuleID: &mod.ID, Module: mod},
		{ID: uuid.New(), Order: 2, ModuleID: &mod.ID, Module: mod},
	}

	items, _ := BuildSequence(entries)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if len(items[0].Modules) != 1 {
		t.Errorf("expected module deduplicated, got %d", len(items[0].Modules))
	}
}

func TestBuildSequence_DirectCourseAndModuleCoalesce(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Title: "First Aid"}
	mod := &model.CourseModule{ID: uuid.New(), CourseID: course.ID, Title: "CPR", Course: course}

	entries := []model.PlannedEntry{
		{ID: uuid.New(), Order: 2, CourseID: &course.ID, Course: course, CustomDuration: intPtr(90)},
		{ID: uuid.New(), Order: 1, ModuleID: &mod.ID, Module: mod},
	}

	items, _ := BuildSequence(entries)
	if len(items) != 1 {
		t.Fatalf("expected direct course and its module to coalesce, got %d items", len(items))
	}
	if items[0].Order != 1 {
		t.Errorf("expected earliest order 1, got %d", items[0].Order)
	}
	if items[0].Duration() != 90 {
		t.Errorf("expected duration override 90, got %d", items[0].Duration())
	}
}

func TestBuildSequence_RejectsShapelessEntries(t *testing.T) {
	entries := []model.PlannedEntry{
		{ID: uuid.New(), Order: 1}, // nothing set
		{ID: uuid.New(), Order: 2, CustomTitle: strPtr("Welcome Session")},
	}

	items, warnings := BuildSequence(entries)
	if len(items) != 1 {
		t.Fatalf("expected only the custom entry, got %d items", len(items))
	}
	if items[0].Kind != ItemCustom || items[0].Title() != "Welcome Session" {
		t.Errorf("unexpected item: %+v", items[0])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "Skipping plan entry") {
		t.Errorf("expected one skip warning, got %v", warnings)
	}
}

func TestBuildSequence_StableOrderOnTies(t *testing.T) {
	a := &model.SupportActivity{ID: uuid.New(), Title: "Coffee"}
	b := &model.SupportActivity{ID: uuid.New(), Title: "Q&A"}

	entries := []model.PlannedEntry{
		{ID: uuid.New(), Order: 1, SupportActivityID: &a.ID, SupportActivity: a},
		{ID: uuid.New(), Order: 1, SupportActivityID: &b.ID, SupportActivity: b},
	}

	items, _ := BuildSequence(entries)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title() != "Coffee" || items[1].Title() != "Q&A" {
		t.Errorf("equal orders must keep encounter order, got %q then %q", items[0].Title(), items[1].Title())
	}
}

func TestSequenceItemDuration(t *testing.T) {
	course := &model.Course{ID: uuid.New(), Title: "Welding", DurationMinutes: intPtr(240)}

	tests := []struct {
		name string
		item SequenceItem
		want int
	}{
		{"override wins", SequenceItem{Kind: ItemCourse, Course: course, CustomDuration: intPtr(120)}, 120},
		{"course duration", SequenceItem{Kind: ItemCourse, Course: course}, 240},
		{"default", SequenceItem{Kind: ItemCustom}, 60},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.Duration(); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}
