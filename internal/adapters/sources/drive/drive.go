// Package drive normalizes document records: file revision co-edits and comments.
package drive

import (
	"encoding/json"
	"fmt"

	"teampulse/internal/adapters/sources"
)

// Normalizer implements sources.Normalizer for the drive tag
type Normalizer struct{}

// New constructs the drive normalizer
func New() Normalizer { return Normalizer{} }

// Source returns the registry tag
func (Normalizer) Source() string { return "drive" }

// user is the identity shape the fetcher emits. Accounts here are email-first;
// the id is the permission id and is frequently absent
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
		if u.ID != "" {
			rawIDs = append(rawIDs, u.ID)
		} else {
			rawIDs = append(rawIDs, u.Email)
		}
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
				FileID        string `json:"file_id"`
				RevisionID    string `json:"revision_id"`
				User          user   `json:"user"`
				Collaborators []user `json:"collaborators"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.FileID == "" || p.RevisionID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(p.Collaborators)
			meta := map[string]any{"file_id": p.FileID}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("drive", "page_edit:"+p.FileID+":"+p.RevisionID),
				Source:       "drive",
				ActivityType: "page_edit",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "comment":
			var p struct {
				FileID       string `json:"file_id"`
				CommentID    string `json:"comment_id"`
				User         user   `json:"user"`
				Participants []user `json:"participants"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.FileID == "" || p.CommentID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.User.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs, rawIDs := refsOf(p.Participants)
			meta := map[string]any{"file_id": p.FileID}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("drive", "comment:"+p.FileID+":"+p.CommentID),
				Source:       "drive",
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
