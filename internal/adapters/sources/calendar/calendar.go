// Package calendar normalizes meeting records.
//
// Attendance is symmetric: a single event record fans out into one draft per
// attendee, each crediting the remaining attendees. The fan-out happens here so
// downstream stages never need to special-case the source.
package calendar

import (
	"encoding/json"
	"fmt"

	"teampulse/internal/adapters/sources"
)

// Normalizer implements sources.Normalizer for the calendar tag
type Normalizer struct{}

// New constructs the calendar normalizer
func New() Normalizer { return Normalizer{} }

// Source returns the registry tag
func (Normalizer) Source() string { return "calendar" }

type attendee struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a attendee) ref() sources.Ref { return sources.NewRef(a.ID, a.Email) }

// attendeeKey is the stable per-attendee discriminator inside the native id.
// Email wins when present; calendar identities are email-first
func attendeeKey(r sources.Ref) string {
	if r.Email != "" {
		return r.Email
	}
	return r.LocalID
}

// Normalize fans each event out into per-attendee drafts
func (n Normalizer) Normalize(records []json.RawMessage) ([]sources.Draft, []sources.Reject) {
	var drafts []sources.Draft
	var rejects []sources.Reject

	reject := func(i int, format string, args ...any) {
		rejects = append(rejects, sources.Reject{Index: i, Reason: fmt.Sprintf(format, args...)})
	}

	for i, raw := range records {
		env, err := sources.DecodeEnvelope(raw)
		if err != nil {
			reject(i, "%v", err)
			continue
		}

		if env.Type != "meeting_attendance" {
			reject(i, "unknown type %q", env.Type)
			continue
		}

		var p struct {
			EventID   string     `json:"event_id"`
			Attendees []attendee `json:"attendees"`
		}
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			reject(i, "bad payload: %v", err)
			continue
		}
		if p.EventID == "" {
			reject(i, "missing native id")
			continue
		}

		// dedup attendees up front; a resent invite can list someone twice
		seen := make(map[string]struct{}, len(p.Attendees))
		refs := make([]sources.Ref, 0, len(p.Attendees))
		rawIDs := make([]string, 0, len(p.Attendees))
		for _, a := range p.Attendees {
			r := a.ref()
			if r.Zero() {
				continue
			}
			key := r.LocalID + "|" + r.Email
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			refs = append(refs, r)
			if a.Email != "" {
				rawIDs = append(rawIDs, a.Email)
			} else {
				rawIDs = append(rawIDs, a.ID)
			}
		}
		if len(refs) == 0 {
			reject(i, "missing actor")
			continue
		}

		audit := sources.RawLocals(rawIDs)
		for _, actor := range refs {
			meta := map[string]any{"event_id": p.EventID}
			if audit != nil {
				meta["counterparts_raw"] = audit
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("calendar", "meeting_attendance:"+p.EventID+":"+attendeeKey(actor)),
				Source:       "calendar",
				ActivityType: "meeting_attendance",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})
		}
	}

	return drafts, rejects
}
