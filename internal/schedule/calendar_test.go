package schedule

import (
	"errors"
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func saturday(hour, min int) time.Time {
	return time.Date(2026, 3, 7, hour, min, 0, 0, time.UTC)
}

func weekdayConfig(lunch *LunchWindow) Config {
	return Config{
		StartOfDay: 9 * 60,
		EndOfDay:   17 * 60,
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Lunch:    lunch,
		Location: time.UTC,
	}
}

func noonLunch() *LunchWindow {
	return &LunchWindow{Start: 12 * 60, End: 13 * 60}
}

func TestEnsureWorkingDay(t *testing.T) {
	cfg := weekdayConfig(nil)

	got, err := EnsureWorkingDay(saturday(10, 0), cfg)
	if err != nil {
		t.Fatalf("EnsureWorkingDay failed: %v", err)
	}
	if got.Weekday() != time.Monday || got.Day() != 9 {
		t.Errorf("expected Monday 2026-03-09, got %v", got)
	}

	got, err = EnsureWorkingDay(monday(10, 0), cfg)
	if err != nil {
		t.Fatalf("EnsureWorkingDay failed: %v", err)
	}
	if !got.Equal(monday(10, 0)) {
		t.Errorf("working day should be unchanged, got %v", got)
	}
}

func TestEnsureWorkingDay_EmptySet(t *testing.T) {
	cfg := weekdayConfig(nil)
	cfg.WorkingDays = map[time.Weekday]bool{}

	if _, err := EnsureWorkingDay(monday(10, 0), cfg); !errors.Is(err, ErrNoWorkingDays) {
		t.Errorf("expected ErrNoWorkingDays, got %v", err)
	}
}

func TestEnsureWorkingHours(t *testing.T) {
	cfg := weekdayConfig(nil)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"before start clamps forward", monday(7, 30), monday(9, 0)},
		{"inside hours unchanged", monday(10, 15), monday(10, 15)},
		{"at end rolls to next day", monday(17, 0), time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
		{"friday evening rolls over weekend", time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EnsureWorkingHours(tc.in, cfg)
			if err != nil {
				t.Fatalf("EnsureWorkingHours failed: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAvoidLunchTime(t *testing.T) {
	cfg := weekdayConfig(noonLunch())

	tests := []struct {
		name     string
		start    time.Time
		duration time.Duration
		want     time.Time
	}{
		{"overlap shifts to lunch end", monday(11, 30), 60 * time.Minute, monday(13, 0)},
		{"ends exactly at lunch start", monday(11, 0), 60 * time.Minute, monday(11, 0)},
		{"starts at lunch end", monday(13, 0), 60 * time.Minute, monday(13, 0)},
		{"inside lunch shifts", monday(12, 15), 30 * time.Minute, monday(13, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AvoidLunchTime(tc.start, tc.duration, cfg)
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	noLunch := weekdayConfig(nil)
	if got := AvoidLunchTime(monday(11, 30), 60*time.Minute, noLunch); !got.Equal(monday(11, 30)) {
		t.Errorf("no lunch configured: got %v, want unchanged", got)
	}
}

func TestAvailableTime(t *testing.T) {
	withLunch := weekdayConfig(noonLunch())
	noLunch := weekdayConfig(nil)

	tests := []struct {
		name      string
		cfg       Config
		start     time.Time
		remaining int
		want      int
	}{
		{"reduced to minutes before lunch", withLunch, monday(9, 0), 480, 180},
		{"after lunch uses day end", withLunch, monday(13, 0), 300, 240},
		{"remaining caps the result", withLunch, monday(9, 0), 60, 60},
		{"no lunch uses full day", noLunch, monday(9, 0), 600, 480},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AvailableTime(tc.start, tc.remaining, tc.cfg); got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScheduleEvent_FullDayNoLunch(t *testing.T) {
	cfg := weekdayConfig(nil)

	slots, err := ScheduleEvent(monday(9, 0), 480, cfg, nil, false)
	if err != nil {
		t.Fatalf("ScheduleEvent failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Start.Equal(monday(9, 0)) || !slots[0].End.Equal(monday(17, 0)) {
		t.Errorf("expected [09:00, 17:00), got [%v, %v)", slots[0].Start, slots[0].End)
	}
}

func TestScheduleEvent_LunchSplitSpansNextDay(t *testing.T) {
	cfg := weekdayConfig(noonLunch())

	slots, err := ScheduleEvent(monday(9, 0), 480, cfg, nil, false)
	if err != nil {
		t.Fatalf("ScheduleEvent failed: %v", err)
	}

	want := []Slot{
		{Start: monday(9, 0), End: monday(12, 0)},
		{Start: monday(13, 0), End: monday(17, 0)},
		{Start: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(slots), slots)
	}
	total := 0
	for i, slot := range slots {
		if !slot.Start.Equal(want[i].Start) || !slot.End.Equal(want[i].End) {
			t.Errorf("slot %d: got [%v, %v), want [%v, %v)", i, slot.Start, slot.End, want[i].Start, want[i].End)
		}
		total += int(slot.End.Sub(slot.Start).Minutes())
	}
	if total != 480 {
		t.Errorf("duration not conserved: got %d minutes, want 480", total)
	}
}

func TestScheduleEvent_WeekendRollsToWorkingDay(t *testing.T) {
	cfg := weekdayConfig(nil)

	slots, err := ScheduleEvent(saturday(10, 0), 60, cfg, nil, false)
	if err != nil {
		t.Fatalf("ScheduleEvent failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	wantStart := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	if !slots[0].Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, slots[0].Start)
	}
}

func TestScheduleEvent_PreserveAvoidsBooked(t *testing.T) {
	cfg := weekdayConfig(nil)
	booked := []Interval{{Start: monday(9, 0), End: monday(10, 30)}}

	slots, err := ScheduleEvent(monday(9, 0), 60, cfg, booked, true)
	if err != nil {
		t.Fatalf("ScheduleEvent failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Start.Equal(monday(10, 30)) || !slots[0].End.Equal(monday(11, 30)) {
		t.Errorf("expected [10:30, 11:30), got [%v, %v)", slots[0].Start, slots[0].End)
	}
}

// FindNextAvailableSlot checks intervals once in input order: after a
// shift, earlier entries are not revisited, so an earlier interval ending
// after the shifted time still wins. This pins the documented behavior.
func TestFindNextAvailableSlot_SinglePass(t *testing.T) {
	cfg := weekdayConfig(nil)
	booked := []Interval{
		{Start: monday(13, 0), End: monday(14, 0)},
		{Start: monday(9, 0), End: monday(13, 30)},
	}

	got, err := FindNextAvailableSlot(monday(9, 0), 60*time.Minute, booked, cfg)
	if err != nil {
		t.Fatalf("FindNextAvailableSlot failed: %v", err)
	}
	if !got.Equal(monday(13, 30)) {
		t.Errorf("got %v, want 13:30 (first interval is not re-checked)", got)
	}
}

func TestScheduleEvent_EmptyWorkingDaysRejected(t *testing.T) {
	cfg := weekdayConfig(nil)
	cfg.WorkingDays = map[time.Weekday]bool{}

	if _, err := ScheduleEvent(monday(9, 0), 60, cfg, nil, false); !errors.Is(err, ErrNoWorkingDays) {
		t.Errorf("expected ErrNoWorkingDays, got %v", err)
	}
}
