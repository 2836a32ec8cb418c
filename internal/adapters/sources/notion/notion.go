// Package notion normalizes workspace records: page edit sessions and comments.
package notion

import (
	"encoding/json"
	"fmt"

	"teampulse/internal/adapters/sources"
)

// Normalizer implements sources.Normalizer for the notion tag
type Normalizer struct{}

// New constructs the notion normalizer
func New() Normalizer { return Normalizer{} }

// Source returns the registry tag
func (Normalizer) Source() string { return "notion" }

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
		case "page_edit":
			var p struct {
				PageID    string `json:"page_id"`
				EditID    string `json:"edit_id"`
				User      user   `json:"user"`
				CoEditors []user `json:"co_editors"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.EditID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(p.CoEditors)
			meta := map[string]any{}
			if p.PageID != "" {
				meta["page_id"] = p.PageID
			}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("notion", "page_edit:"+p.EditID),
				Source:       "notion",
				ActivityType: "page_edit",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "comment":
			var p struct {
				PageID       string `json:"page_id"`
				CommentID    string `json:"comment_id"`
				User         user   `json:"user"`
				PageOwner    user   `json:"page_owner"`
				Participants []user `json:"participants"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.CommentID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(append([]user{p.PageOwner}, p.Participants...))
			meta := map[string]any{}
			if p.PageID != "" {
				meta["page_id"] = p.PageID
			}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("notion", "comment:"+p.CommentID),
				Source:       "notion",
				ActivityType: "comment",
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
