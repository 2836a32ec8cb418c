package drive

import (
	"encoding/json"
	"strings"
	"testing"

	"teampulse/internal/adapters/sources"
)

func raw(lines ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(lines))
	for _, l := range lines {
		out = append(out, json.RawMessage(l))
	}
	return out
}

func TestNormalize_PageEdit(t *testing.T) {
	t.Parallel()

	n := New()
	drafts, rejects := n.Normalize(raw(`{
		"type": "page_edit",
		"occurred_at": "2025-11-10T16:00:00Z",
		"payload": {
			"file_id": "f-design-doc",
			"revision_id": "r-3341",
			"user": {"email": "JDOE@x.io"},
			"collaborators": [
				{"email": "lee@x.io"},
				{"email": "jdoe@x.io"},
				{"id": "perm-9", "email": "minseo@x.io"}
			]
		}
	}`))

	if len(rejects) != 0 {
		t.Fatalf("rejects = %+v, want none", rejects)
	}
	if len(drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(drafts))
	}

	d := drafts[0]
	want := sources.ActivityID("drive", "page_edit:f-design-doc:r-3341")
	if d.ActivityID != want {
		t.Errorf("ActivityID = %s, want %s", d.ActivityID, want)
	}
	if d.Source != "drive" || d.ActivityType != "page_edit" {
		t.Errorf("tagging = %s/%s", d.Source, d.ActivityType)
	}
	// email-only identities are the norm for this source
	if d.Actor.LocalID != "" || d.Actor.Email != "jdoe@x.io" {
		t.Errorf("actor = %+v", d.Actor)
	}
	if len(d.Counterparts) != 2 {
		t.Fatalf("counterparts = %+v, want 2", d.Counterparts)
	}
	if d.Counterparts[0].Email != "lee@x.io" || d.Counterparts[1].Email != "minseo@x.io" {
		t.Errorf("counterparts = %+v", d.Counterparts)
	}
	if d.Meta["file_id"] != "f-design-doc" {
		t.Errorf("meta file_id = %v", d.Meta["file_id"])
	}
}

func TestNormalize_Comment(t *testing.T) {
	t.Parallel()

	n := New()
	drafts, rejects := n.Normalize(raw(`{
		"type": "comment",
		"occurred_at": "2025-11-10T17:00:00Z",
		"payload": {
			"file_id": "f-design-doc",
			"comment_id": "c-77",
			"user": {"email": "lee@x.io"},
			"participants": [
				{"email": "jdoe@x.io"},
				{"email": "lee@x.io"}
			]
		}
	}`))

	if len(rejects) != 0 {
		t.Fatalf("rejects = %+v, want none", rejects)
	}
	d := drafts[0]

	want := sources.ActivityID("drive", "comment:f-design-doc:c-77")
	if d.ActivityID != want {
		t.Errorf("ActivityID = %s, want %s", d.ActivityID, want)
	}
	if len(d.Counterparts) != 1 || d.Counterparts[0].Email != "jdoe@x.io" {
		t.Errorf("counterparts = %+v", d.Counterparts)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{name: "not json", line: `{oops`, reason: "bad json"},
		{
			name:   "unknown type",
			line:   `{"type":"share","occurred_at":"2025-11-10T09:00:00Z","payload":{}}`,
			reason: "unknown type",
		},
		{
			name:   "zero timestamp",
			line:   `{"type":"comment","payload":{"file_id":"f","comment_id":"c","user":{"email":"a@x.io"}}}`,
			reason: "zero timestamp",
		},
		{
			name:   "missing revision id",
			line:   `{"type":"page_edit","occurred_at":"2025-11-10T09:00:00Z","payload":{"file_id":"f","user":{"email":"a@x.io"}}}`,
			reason: "missing native id",
		},
		{
			name:   "missing actor",
			line:   `{"type":"page_edit","occurred_at":"2025-11-10T09:00:00Z","payload":{"file_id":"f","revision_id":"r"}}`,
			reason: "missing actor",
		},
	}

	n := New()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			drafts, rejects := n.Normalize(raw(tc.line))
			if len(drafts) != 0 {
				t.Fatalf("expected no drafts, got %+v", drafts)
			}
			if len(rejects) != 1 || !strings.Contains(rejects[0].Reason, tc.reason) {
				t.Fatalf("rejects = %+v, want reason containing %q", rejects, tc.reason)
			}
		})
	}
}
