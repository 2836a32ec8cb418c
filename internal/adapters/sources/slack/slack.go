// Package slack normalizes chat records: channel messages, thread replies,
// reactions, and direct mentions.
package slack

import (
	"encoding/json"
	"fmt"

	"teampulse/internal/adapters/sources"
)

// Normalizer implements sources.Normalizer for the slack tag
type Normalizer struct{}

// New constructs the slack normalizer
func New() Normalizer { return Normalizer{} }

// Source returns the registry tag
func (Normalizer) Source() string { return "slack" }

// user is the identity shape the fetcher emits for this source
type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u user) ref() sources.Ref { return sources.NewRef(u.ID, u.Email) }

func refsOf(users []user) ([]sources.Ref, []string) {
	refs := make([]sources.Ref, 0, len(users))
	rawIDs := make([]string, 0, len(users))
	for _, u := range users {
		refs = append(refs, u.ref())
		rawIDs = append(rawIDs, u.ID)
	}
	return refs, rawIDs
}

// Normalize decodes each record and emits one draft or one reject per record
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

		switch env.Type {
		case "message":
			var p struct {
				Channel      string `json:"channel"`
				TS           string `json:"ts"`
				User         user   `json:"user"`
				Participants []user `json:"recent_participants"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.Channel == "" || p.TS == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(p.Participants)
			meta := map[string]any{"channel": p.Channel}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("slack", "message:"+p.Channel+":"+p.TS),
				Source:       "slack",
				ActivityType: "message",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "thread_reply":
			var p struct {
				Channel      string `json:"channel"`
				ThreadTS     string `json:"thread_ts"`
				TS           string `json:"ts"`
				User         user   `json:"user"`
				ThreadAuthor user   `json:"thread_author"`
				Participants []user `json:"participants"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.Channel == "" || p.TS == "" || p.ThreadTS == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(append([]user{p.ThreadAuthor}, p.Participants...))
			meta := map[string]any{"channel": p.Channel, "thread_ts": p.ThreadTS}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("slack", "thread_reply:"+p.Channel+":"+p.ThreadTS+":"+p.TS),
				Source:       "slack",
				ActivityType: "thread_reply",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "reaction":
			var p struct {
				Channel string `json:"channel"`
				TS      string `json:"ts"` // the reacted-to message
				Emoji   string `json:"emoji"`
				User    user   `json:"user"` // the reactor
				Author  user   `json:"item_author"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.Channel == "" || p.TS == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			// the reactor is part of the key: many people react to one message
			native := "reaction:" + p.Channel + ":" + p.TS + ":" + p.Emoji + ":" + actor.LocalID

			meta := map[string]any{"channel": p.Channel}
			if p.Emoji != "" {
				meta["emoji"] = p.Emoji
			}
			if locals := sources.RawLocals([]string{p.Author.ID}); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("slack", native),
				Source:       "slack",
				ActivityType: "reaction",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, []sources.Ref{p.Author.ref()}),
				Meta:         meta,
			})

		case "mention":
			var p struct {
				Channel string `json:"channel"`
				TS      string `json:"ts"`
				User    user   `json:"user"`
				Targets []user `json:"targets"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.Channel == "" || p.TS == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(p.Targets)
			meta := map[string]any{"channel": p.Channel}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("slack", "mention:"+p.Channel+":"+p.TS),
				Source:       "slack",
				ActivityType: "mention",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		default:
			reject(i, "unknown type %q", env.Type)
		}
	}

	return drafts, rejects
}
