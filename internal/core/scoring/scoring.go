// Package scoring holds the pure collaboration-score math: base weights per
// (source, activity type), linear recency decay with a floor, and the
// symmetry class that decides which side of an event earns credit.
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Weights maps "source.activity_type" keys to base scores
// unknown pairs score zero and never error
type Weights map[string]float64

// DefaultWeights returns the built-in base weight table
func DefaultWeights() Weights {
	return Weights{
		"github.pr_review":            3.0,
		"github.commit":               2.5,
		"github.issue_comment":        1.5,
		"github.mention":              1.5,
		"slack.thread_reply":          2.0,
		"slack.mention":               1.5,
		"slack.message":               1.0,
		"slack.reaction":              0.5,
		"notion.page_edit":            1.8,
		"notion.comment":              1.5,
		"drive.page_edit":             1.8,
		"drive.comment":               1.5,
		"calendar.meeting_attendance": 2.2,
	}
}

// Lookup returns the base weight for a pair, zero when unknown
func (w Weights) Lookup(source, activityType string) float64 {
	return w[source+"."+activityType]
}

// Merge overlays o onto w and returns w for chaining
func (w Weights) Merge(o Weights) Weights {
	for k, v := range o {
		w[k] = v
	}
	return w
}

// ParseOverrides reads "source.type=weight" CSV pairs
// an empty string is a valid empty override set
func ParseOverrides(s string) (Weights, error) {
	out := Weights{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || !strings.Contains(key, ".") {
			return nil, fmt.Errorf("scoring: bad weight override %q", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("scoring: bad weight value in %q", part)
		}
		out[key] = f
	}
	return out, nil
}

// Decay is the linear recency multiplier with a floor
type Decay struct {
	Days  int     // horizon over which weight decays to the floor
	Floor float64 // minimum multiplier, never undercut
}

// DefaultDecay returns the 90-day, 0.3-floor decay
func DefaultDecay() Decay {
	return Decay{Days: 90, Floor: 0.3}
}

// Valid reports whether the parameters make sense at startup
func (d Decay) Valid() bool {
	return d.Days > 0 && d.Floor >= 0 && d.Floor <= 1
}

// AgeDays is the whole days between the window end and the event instant
// negative spans clamp to zero so future-stamped rows score as fresh
func AgeDays(end, occurred time.Time) int {
	if !occurred.Before(end) {
		return 0
	}
	return int(end.Sub(occurred) / (24 * time.Hour))
}

// Multiplier maps an age in days onto [Floor, 1]
func (d Decay) Multiplier(ageDays int) float64 {
	if ageDays < 0 {
		ageDays = 0
	}
	m := 1 - float64(ageDays)/float64(d.Days)
	if m < d.Floor {
		return d.Floor
	}
	if m > 1 {
		return 1
	}
	return m
}

// Score is the event score for one activity: base weight times decay
func (d Decay) Score(base float64, ageDays int) float64 {
	return base * d.Multiplier(ageDays)
}

// Symmetric reports whether an activity type credits both participants
// from a single row. Symmetric events are co-participation: each side
// carries its own mirror row, so credit is only taken from rows the
// scoring subject owns. Directional events credit initiator and target
// from the one row that exists.
func Symmetric(activityType string) bool {
	switch activityType {
	case "meeting_attendance", "message", "commit", "page_edit":
		return true
	}
	return false
}
