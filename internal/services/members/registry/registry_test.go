package registry

import (
	"strings"
	"testing"

	perr "teampulse/internal/platform/errors"
)

const sample = `
members:
  - name: Jane Doe
    id: 9f1c2f3a-0b5d-4e6f-8a7b-1c2d3e4f5a6b
    email: JDOE@x.io
    identifiers:
      github: ["@JDoe", jane-doe]
      slack: [U123]
  - name: Lee Minseo
    email: lee@x.io
    identifiers:
      github: [minseo]
      calendar: [lee@x.io]
  - name: No Handles
`

func TestParse_CanonicalizesAndSorts(t *testing.T) {
	t.Parallel()

	reg, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(reg.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(reg.Members))
	}

	jane := reg.Members[0]
	if jane.ID != "9f1c2f3a-0b5d-4e6f-8a7b-1c2d3e4f5a6b" {
		t.Errorf("pinned id = %s", jane.ID)
	}
	if jane.DisplayName != "Jane Doe" || jane.Email != "jdoe@x.io" {
		t.Errorf("member = %+v", jane)
	}

	want := []struct{ source, local, member string }{
		{"calendar", "lee@x.io", reg.Members[1].ID},
		{"github", "jane-doe", jane.ID},
		{"github", "jdoe", jane.ID},
		{"github", "minseo", reg.Members[1].ID},
		{"slack", "u123", jane.ID},
	}
	if len(reg.Identifiers) != len(want) {
		t.Fatalf("identifiers = %+v", reg.Identifiers)
	}
	for i, w := range want {
		got := reg.Identifiers[i]
		if got.Source != w.source || got.LocalID != w.local || got.MemberID != w.member {
			t.Errorf("identifiers[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestParse_DerivedIDsAreStable(t *testing.T) {
	t.Parallel()

	a, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i := range a.Members {
		if a.Members[i].ID != b.Members[i].ID {
			t.Errorf("member %d id drifted: %s vs %s", i, a.Members[i].ID, b.Members[i].ID)
		}
	}

	// unpinned ids come from the member key, not file position
	reordered := `
members:
  - name: Lee Minseo
    email: lee@x.io
  - name: Jane Doe
    email: jdoe@x.io
`
	c, err := Parse(strings.NewReader(reordered))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Members[0].ID != a.Members[1].ID {
		t.Errorf("id changed with file order: %s vs %s", c.Members[0].ID, a.Members[1].ID)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: `members: []`},
		{name: "missing name", doc: "members:\n  - email: x@x.io"},
		{name: "bad pinned id", doc: "members:\n  - name: A\n    id: not-a-uuid"},
		{name: "bad email", doc: "members:\n  - name: A\n    email: not-an-address"},
		{
			name: "duplicate email",
			doc:  "members:\n  - name: A\n    email: x@x.io\n  - name: B\n    email: X@x.io",
		},
		{
			name: "duplicate claim",
			doc: "members:\n" +
				"  - name: A\n    identifiers: {github: [jdoe]}\n" +
				"  - name: B\n    identifiers: {github: ['@JDOE']}",
		},
		{name: "empty identifier", doc: "members:\n  - name: A\n    identifiers: {github: ['@']}"},
		{name: "unknown field", doc: "members:\n  - name: A\n    nickname: ace"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !perr.IsCode(err, perr.ErrorCodeConfig) {
				t.Errorf("error code = %v, want config: %v", perr.CodeOf(err), err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load("testdata/absent.yaml"); err == nil {
		t.Fatal("expected error")
	}
}
