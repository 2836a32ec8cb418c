// Package week computes the canonical Friday-to-Thursday reporting window.
//
// Windows are anchored to a weekday and timezone (default Friday, KST) and
// always span anchor-00:00:00 to anchor+7d minus one microsecond, truncated
// to the reference instant while the cycle is still open. On the anchor day
// itself the window is the just-completed cycle, which is what a weekly
// collection job scheduled for that day wants to see.
package week

import (
	"fmt"
	"strings"
	"time"

	ptime "teampulse/internal/platform/time"
)

// Window is one reporting cycle as UTC instants
// End carries microsecond precision at the nominal close
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, end inclusive
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Closed reports whether the window ends at a nominal cycle close
// an open window ends at the reference instant instead
func (w Window) Closed() bool {
	// a nominal close always lands on the 999999 microsecond
	return w.End.Nanosecond() == 999999000 && w.End.Second() == 59
}

// Config fixes the cycle anchor weekday and timezone
type Config struct {
	Anchor time.Weekday
	Loc    *time.Location
}

// KST is the default anchor timezone, fixed +09:00 with no DST
func KST() *time.Location {
	return time.FixedZone("KST", 9*60*60)
}

// Default returns the Friday/KST configuration
func Default() Config {
	return Config{Anchor: time.Friday, Loc: KST()}
}

// Current returns the reporting cycle for now
//
// The anchor-day rule: on the anchor weekday delta is 7, not 0, so the
// window is the completed previous cycle. The boundary instant anchor
// 00:00:00.000000 belongs to the new cycle; the old close stays at
// 23:59:59.999999 the day before.
func (c Config) Current(now time.Time) Window {
	loc := c.loc()
	local := now.In(loc)

	delta := (int(local.Weekday()) - int(c.Anchor) + 7) % 7
	if delta == 0 {
		delta = 7
	}

	d := local.AddDate(0, 0, -delta)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	nominal := start.AddDate(0, 0, 7).Add(-time.Microsecond)

	return Window{
		Start: start.UTC(),
		End:   ptime.Min(nominal, now).UTC(),
	}
}

// Last returns the fully closed cycle immediately preceding Current's
// it is never truncated to now
func (c Config) Last(now time.Time) Window {
	loc := c.loc()
	local := now.In(loc)

	delta := (int(local.Weekday()) - int(c.Anchor) + 7) % 7
	if delta == 0 {
		delta = 7
	}

	d := local.AddDate(0, 0, -delta)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)

	return Window{
		Start: start.AddDate(0, 0, -7).UTC(),
		End:   start.Add(-time.Microsecond).UTC(),
	}
}

// Days returns the trailing window of n days ending at now
// used for ad hoc lookbacks that ignore the weekly cycle
func (c Config) Days(now time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{
		Start: now.AddDate(0, 0, -n).UTC(),
		End:   now.UTC(),
	}
}

// Location returns the effective anchor timezone, KST when unset
func (c Config) Location() *time.Location {
	if c.Loc != nil {
		return c.Loc
	}
	return KST()
}

func (c Config) loc() *time.Location { return c.Location() }

// Parse builds a Config from anchor and timezone overrides
// empty strings mean the defaults
func Parse(anchor, tz string) (Config, error) {
	c := Default()
	if strings.TrimSpace(anchor) != "" {
		a, err := ParseAnchor(anchor)
		if err != nil {
			return Config{}, err
		}
		c.Anchor = a
	}
	loc, err := ParseLocation(tz)
	if err != nil {
		return Config{}, err
	}
	c.Loc = loc
	return c, nil
}

// ParseAnchor maps a weekday name to time.Weekday, case-insensitive
func ParseAnchor(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("week: unknown anchor weekday %q", s)
}

// ParseLocation resolves a timezone override, empty means KST
func ParseLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return KST(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("week: bad timezone %q: %w", name, err)
	}
	return loc, nil
}
