// Package github normalizes code-hosting records: PR co-commits, reviews,
// issue comments, and handle mentions.
package github

import (
	"encoding/json"
	"fmt"

	"teampulse/internal/adapters/sources"
)

// Normalizer implements sources.Normalizer for the github tag
type Normalizer struct{}

// New constructs the github normalizer
func New() Normalizer { return Normalizer{} }

// Source returns the registry tag
func (Normalizer) Source() string { return "github" }

// user is the identity shape the fetcher emits for this source
type user struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

func (u user) ref() sources.Ref { return sources.NewRef(u.Login, u.Email) }

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
		case "commit":
			var p struct {
				SHA       string `json:"sha"`
				Repo      string `json:"repo"`
				PR        int    `json:"pr"`
				Author    user   `json:"author"`
				CoAuthors []user `json:"co_authors"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.SHA == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.Author.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs := make([]sources.Ref, 0, len(p.CoAuthors))
			rawIDs := make([]string, 0, len(p.CoAuthors))
			for _, u := range p.CoAuthors {
				refs = append(refs, u.ref())
				rawIDs = append(rawIDs, u.Login)
			}

			meta := map[string]any{"repo": p.Repo}
			if p.PR != 0 {
				meta["pr"] = p.PR
			}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("github", "commit:"+p.SHA),
				Source:       "github",
				ActivityType: "commit",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "pr_review":
			var p struct {
				ReviewID string `json:"review_id"`
				Repo     string `json:"repo"`
				PR       int    `json:"pr"`
				Reviewer user   `json:"reviewer"`
				Author   user   `json:"author"`
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.ReviewID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.Reviewer.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			meta := map[string]any{"repo": p.Repo}
			if p.PR != 0 {
				meta["pr"] = p.PR
			}
			if locals := sources.RawLocals([]string{p.Author.Login}); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("github", "pr_review:"+p.ReviewID),
				Source:       "github",
				ActivityType: "pr_review",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, []sources.Ref{p.Author.ref()}),
				Meta:         meta,
			})

		case "issue_comment":
			var p struct {
				CommentID    string `json:"comment_id"`
				Repo         string `json:"repo"`
				Issue        int    `json:"issue"`
				Author       user   `json:"author"` // the commenter
				IssueAuthor  user   `json:"issue_author"`
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
			actor := p.Author.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs := make([]sources.Ref, 0, len(p.Participants)+1)
			rawIDs := make([]string, 0, len(p.Participants)+1)
			refs = append(refs, p.IssueAuthor.ref())
			rawIDs = append(rawIDs, p.IssueAuthor.Login)
			for _, u := range p.Participants {
				refs = append(refs, u.ref())
				rawIDs = append(rawIDs, u.Login)
			}

			meta := map[string]any{"repo": p.Repo}
			if p.Issue != 0 {
				meta["issue"] = p.Issue
			}
			if locals := sources.RawLocals(rawIDs); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("github", "issue_comment:"+p.CommentID),
				Source:       "github",
				ActivityType: "issue_comment",
				OccurredAt:   env.OccurredAt,
				Actor:        actor,
				Counterparts: sources.Counterparts(actor, refs),
				Meta:         meta,
			})

		case "mention":
			var p struct {
				CommentID string   `json:"comment_id"`
				Repo      string   `json:"repo"`
				Author    user     `json:"author"`
				Targets   []string `json:"targets"` // handles as written, sigil included
			}
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				reject(i, "bad payload: %v", err)
				continue
			}
			if p.CommentID == "" {
				reject(i, "missing native id")
				continue
			}
			actor := p.Author.ref()
			if actor.Zero() {
				reject(i, "missing actor")
				continue
			}

			refs := make([]sources.Ref, 0, len(p.Targets))
			for _, h := range p.Targets {
				refs = append(refs, sources.NewRef(h, ""))
			}

			meta := map[string]any{"repo": p.Repo}
			if locals := sources.RawLocals(p.Targets); locals != nil {
				meta["counterparts_raw"] = locals
			}

			drafts = append(drafts, sources.Draft{
				ActivityID:   sources.ActivityID("github", "mention:"+p.CommentID),
				Source:       "github",
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
