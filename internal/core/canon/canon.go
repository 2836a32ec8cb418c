// Package canon folds identity keys into the single canonical form shared
// by registry load and resolver lookup
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Strip control runes NUL C0 C1 DEL
// 3 Unicode NFKC normalization
// 4 Case folding
// 5 Remove zero-width and combining marks
// 6 Width fold fullwidth to ASCII
// 7 Trim surrounding whitespace and at most one leading @
package canon

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Key returns the canonical form of a source-local identifier
// both sync and lookup must pass handles through here or they will not meet
func Key(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2 drop control runes that have no place in a key
	s = stripControls(s)

	// 3-6 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 7 trim edges and the mention sigil
	ns = strings.TrimSpace(ns)
	ns = strings.TrimPrefix(ns, "@")
	return strings.TrimSpace(ns)
}

// Email canonicalizes an email address with the same fold as Key
// returns empty when the result does not look like an address at all
func Email(s string) string {
	e := Key(s)
	if e == "" || !strings.Contains(e, "@") {
		return ""
	}
	return e
}

// Trim cleans a display string without folding it
// case and diacritics survive, controls and edge whitespace do not
func Trim(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(stripControls(s))
}

// stripControls removes NUL, C0 except tab newline return, DEL, and C1 runes
func stripControls(s string) string {
	clean := true
	for _, r := range s {
		if isControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	if r < 0x20 || r == 0x7F {
		return true
	}
	return r >= 0x80 && r <= 0x9F
}
