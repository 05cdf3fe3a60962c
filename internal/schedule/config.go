package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/traindesk/api/internal/model"
)

// Config is the working-calendar configuration an import run schedules
// against. Clock values are minutes from midnight.
type Config struct {
	StartOfDay  int
	EndOfDay    int
	WorkingDays map[time.Weekday]bool
	Lunch       *LunchWindow
	Location    *time.Location
}

// LunchWindow is the daily window regular events must not overlap.
type LunchWindow struct {
	Start int
	End   int
}

// Interval is a committed {start, end} pair the resolver treats as an
// obstacle when the preserve flag is set.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is one produced booking. A single long entry may yield several
// slots, one per working day it spans.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseLunchWindow converts "HH:MM-HH:MM" to a LunchWindow.
func ParseLunchWindow(s string) (*LunchWindow, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid lunch window %q: want HH:MM-HH:MM", s)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, fmt.Errorf("invalid lunch window %q: end before start", s)
	}
	return &LunchWindow{Start: start, End: end}, nil
}

// ParseWorkingDays converts weekday names to a weekday set.
func ParseWorkingDays(names []string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days[wd] = true
	}
	return days, nil
}

// FromSettings builds a Config from project settings, falling back to the
// documented defaults for any absent value. When followProjectHours is
// false the settings are ignored entirely and the defaults apply.
func FromSettings(settings *model.ProjectSettings, followProjectHours bool) (Config, error) {
	startStr := model.DefaultStartOfDay
	endStr := model.DefaultEndOfDay
	lunchStr := model.DefaultLunchTime
	tzStr := model.DefaultTimezone
	dayNames := model.DefaultWorkingDays

	if followProjectHours && settings != nil {
		if settings.StartOfDayTime != "" {
			startStr = settings.StartOfDayTime
		}
		if settings.EndOfDayTime != "" {
			endStr = settings.EndOfDayTime
		}
		if settings.LunchTime != "" {
			lunchStr = settings.LunchTime
		}
		if settings.Timezone != "" {
			tzStr = settings.Timezone
		}
		if len(settings.WorkingDays) > 0 {
			dayNames = settings.WorkingDays
		}
	}

	start, err := ParseClock(startStr)
	if err != nil {
		return Config{}, err
	}
	end, err := ParseClock(endStr)
	if err != nil {
		return Config{}, err
	}
	lunch, err := ParseLunchWindow(lunchStr)
	if err != nil {
		return Config{}, err
	}
	days, err := ParseWorkingDays(dayNames)
	if err != nil {
		return Config{}, err
	}
	loc, err := time.LoadLocation(tzStr)
	if err != nil {
		return Config{}, fmt.Errorf("unknown timezone %q: %w", tzStr, err)
	}

	cfg := Config{
		StartOfDay:  start,
		EndOfDay:    end,
		WorkingDays: days,
		Lunch:       lunch,
		Location:    loc,
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the resolver cannot terminate on.
func (c Config) Validate() error {
	if len(c.WorkingDays) == 0 {
		return ErrNoWorkingDays
	}
	if c.EndOfDay <= c.StartOfDay {
		return fmt.Errorf("end of day %d must be after start of day %d", c.EndOfDay, c.StartOfDay)
	}
	return nil
}
