package schedule

import (
	"errors"
	"time"
)

// ErrNoWorkingDays is returned instead of looping forever when the
// working-day set is empty.
var ErrNoWorkingDays = errors.New("schedule: working day set is empty")

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// atMinute returns t's calendar day at the given minute from midnight.
func atMinute(t time.Time, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minute/60, minute%60, 0, 0, t.Location())
}

// EnsureWorkingDay advances t one calendar day at a time until its weekday
// is in the configured working-day set.
func EnsureWorkingDay(t time.Time, cfg Config) (time.Time, error) {
	if len(cfg.WorkingDays) == 0 {
		return time.Time{}, ErrNoWorkingDays
	}
	for !cfg.WorkingDays[t.Weekday()] {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// EnsureWorkingHours clamps t into [startOfDay, endOfDay): a time before
// start of day moves to start of day, a time at or past end of day rolls
// to start of day on the next working day.
func EnsureWorkingHours(t time.Time, cfg Config) (time.Time, error) {
	m := minuteOfDay(t)
	if m < cfg.StartOfDay {
		return atMinute(t, cfg.StartOfDay), nil
	}
	if m >= cfg.EndOfDay {
		next := atMinute(t.AddDate(0, 0, 1), cfg.StartOfDay)
		return EnsureWorkingDay(next, cfg)
	}
	return t, nil
}

// FindNextAvailableSlot shifts start past any booked interval the
// candidate [start, start+duration) overlaps. Each interval is checked
// once in input order; after a shift, earlier intervals are not
// re-examined.
func FindNextAvailableSlot(start time.Time, duration time.Duration, booked []Interval, cfg Config) (time.Time, error) {
	for _, iv := range booked {
		if start.Before(iv.End) && start.Add(duration).After(iv.Start) {
			var err error
			start, err = EnsureWorkingHours(iv.End, cfg)
			if err != nil {
				return time.Time{}, err
			}
		}
	}
	return start, nil
}

// AvoidLunchTime pushes start to the end of the lunch window when the
// candidate [start, start+duration) overlaps it on start's calendar day.
func AvoidLunchTime(start time.Time, duration time.Duration, cfg Config) time.Time {
	if cfg.Lunch == nil {
		return start
	}
	lunchStart := atMinute(start, cfg.Lunch.Start)
	lunchEnd := atMinute(start, cfg.Lunch.End)
	if start.Before(lunchEnd) && start.Add(duration).After(lunchStart) {
		return lunchEnd
	}
	return start
}

// AvailableTime returns the minutes bookable from start on its own day:
// the time left before end of day, reduced to the time before lunch when
// the lunch window lies strictly between start and end of day, capped at
// remaining.
func AvailableTime(start time.Time, remaining int, cfg Config) int {
	m := minuteOfDay(start)
	available := cfg.EndOfDay - m
	if cfg.Lunch != nil && m < cfg.Lunch.Start && cfg.Lunch.Start < cfg.EndOfDay {
		if before := cfg.Lunch.Start - m; before < available {
			available = before
		}
	}
	if remaining < available {
		return remaining
	}
	return available
}

// ScheduleEvent books duration minutes starting at or after start,
// splitting across working days as needed. Each produced slot lies within
// working hours, outside the lunch window and, when preserve is set, clear
// of every booked interval known at the time it was placed.
func ScheduleEvent(start time.Time, duration int, cfg Config, booked []Interval, preserve bool) ([]Slot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var slots []Slot
	remaining := duration
	for remaining > 0 {
		var err error
		start, err = EnsureWorkingDay(start, cfg)
		if err != nil {
			return nil, err
		}
		start, err = EnsureWorkingHours(start, cfg)
		if err != nil {
			return nil, err
		}
		if preserve {
			start, err = FindNextAvailableSlot(start, time.Duration(remaining)*time.Minute, booked, cfg)
			if err != nil {
				return nil, err
			}
		}

		portion := AvailableTime(start, remaining, cfg)
		// The day portion, not the full remainder, decides whether the
		// candidate clips the lunch window; shifting past lunch changes
		// what is left of the day.
		if shifted := AvoidLunchTime(start, time.Duration(portion)*time.Minute, cfg); !shifted.Equal(start) {
			start = shifted
			portion = AvailableTime(start, remaining, cfg)
		}
		if portion <= 0 {
			start = atMinute(start.AddDate(0, 0, 1), cfg.StartOfDay)
			continue
		}

		end := start.Add(time.Duration(portion) * time.Minute)
		slots = append(slots, Slot{Start: start, End: end})
		remaining -= portion
		start = end
	}
	return slots, nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SameDay reports whether two instants share a calendar day in t's
// location (both truncated to midnight).
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// DayAt returns the calendar date of the project start plus (dayNumber-1)
// days at the given minute from midnight.
func DayAt(startDate time.Time, dayNumber, minute int, loc *time.Location) time.Time {
	d := startDate.In(loc).AddDate(0, 0, dayNumber-1)
	return time.Date(d.Year(), d.Month(), d.Day(), minute/60, minute%60, 0, 0, loc)
}
