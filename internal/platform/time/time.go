// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Min returns the earlier of a and b
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
