package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	t.Parallel()

	if got := Ptr(time.Time{}); got != nil {
		t.Fatalf("Ptr(zero) = %v, want nil", got)
	}
	now := time.Now()
	got := Ptr(now)
	if got == nil || !got.Equal(now) {
		t.Fatalf("Ptr(now) = %v, want %v", got, now)
	}
}

func TestMin(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)
	b := a.Add(24 * time.Hour)

	if got := Min(a, b); !got.Equal(a) {
		t.Fatalf("Min(a, b) = %v, want %v", got, a)
	}
	if got := Min(b, a); !got.Equal(a) {
		t.Fatalf("Min(b, a) = %v, want %v", got, a)
	}
	if got := Min(a, a); !got.Equal(a) {
		t.Fatalf("Min(a, a) = %v, want %v", got, a)
	}
}
