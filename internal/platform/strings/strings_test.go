package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	def2 := []string{"x"}
	got2 := IfEmpty(empty, def2)
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("ok", "name"); got != "ok" {
		t.Fatalf("want ok got %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("want panic for empty name")
		}
	}()
	_ = MustString("   ", "name")
}

func TestMustPrefix(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/graph/", "/graph"},
		{" activities  ", "/activities"},
		{"//members//", "/members"},
		{"/", ""}, // should panic
		{"", ""},  // should panic
	}
	for _, c := range cases {
		if c.want == "" {
			func() {
				defer func() {
					if recover() == nil {
						t.Fatalf("want panic for %q", c.in)
					}
				}()
				_ = MustPrefix(c.in)
			}()
			continue
		}
		if got := MustPrefix(c.in); got != c.want {
			t.Fatalf("in %q want %q got %q", c.in, c.want, got)
		}
	}
}

func TestPtrAndDeref(t *testing.T) {
	t.Parallel()

	if Ptr("") != nil {
		t.Fatal("Ptr of empty string should be nil")
	}
	p := Ptr("x")
	if p == nil || *p != "x" {
		t.Fatalf("Ptr returned %v", p)
	}
	if Deref(nil) != "" {
		t.Fatal("Deref(nil) should be empty")
	}
	if Deref(p) != "x" {
		t.Fatalf("Deref returned %q", Deref(p))
	}
}

func TestSQLNull(t *testing.T) {
	t.Parallel()

	if SQLNull("  ") != nil {
		t.Fatal("blank should map to nil")
	}
	if got := SQLNull("a"); got != "a" {
		t.Fatalf("want a got %v", got)
	}
	if SQLNullPtr(nil) != nil {
		t.Fatal("nil ptr should map to nil")
	}
	blank := "   "
	if SQLNullPtr(&blank) != nil {
		t.Fatal("blank ptr should map to nil")
	}
	v := "jane@corp.io"
	if got := SQLNullPtr(&v); got != "jane@corp.io" {
		t.Fatalf("want value got %v", got)
	}
}
