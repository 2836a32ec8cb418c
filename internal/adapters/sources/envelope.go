package sources

import (
	"encoding/json"
	"fmt"
	"time"

	"teampulse/internal/core/canon"
)

// Envelope is the outer shape of every spool record: an activity type tag,
// the event instant, and the source-native payload kept raw until the
// normalizer knows which shape to decode.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// DecodeEnvelope parses and validates the outer record shape
// the reasons it returns are stable reject strings
func DecodeEnvelope(raw json.RawMessage) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("bad json: %v", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("missing type")
	}
	if env.OccurredAt.IsZero() {
		return Envelope{}, fmt.Errorf("zero timestamp")
	}
	env.OccurredAt = env.OccurredAt.UTC()
	return env, nil
}

// NewRef builds a canonicalized identity reference
func NewRef(localID, email string) Ref {
	return Ref{LocalID: canon.Key(localID), Email: canon.Email(email)}
}

// Zero reports whether the ref carries no identity at all
func (r Ref) Zero() bool { return r.LocalID == "" && r.Email == "" }

// Counterparts dedups refs and drops the actor and empty entries
// input order is preserved so drafts stay byte-identical across runs
func Counterparts(actor Ref, refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(refs)+1)
	seen[actor.LocalID+"|"+actor.Email] = struct{}{}
	out := make([]Ref, 0, len(refs))
	for _, r := range refs {
		if r.Zero() {
			continue
		}
		key := r.LocalID + "|" + r.Email
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RawLocals collects the uncanonicalized local ids for the audit trail
func RawLocals(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
