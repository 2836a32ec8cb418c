// Package sources defines the contract between fetcher-produced raw records
// and the normalized activity drafts the collector ingests.
//
// Each source implements Normalizer in its own subpackage and is selected
// through a Registry keyed by source tag. Normalizers are pure: decode,
// validate, derive deterministic ids, classify. No I/O.
package sources

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// Ref is a source-local identity reference carried on a draft
// LocalID and Email are already canonicalized by the normalizer
type Ref struct {
	LocalID string
	Email   string
}

// Draft is one normalized activity before member resolution
type Draft struct {
	ActivityID   string // hex sha256, see ActivityID
	Source       string
	ActivityType string
	OccurredAt   time.Time // UTC
	Actor        Ref
	Counterparts []Ref
	Meta         map[string]any
}

// Reject is a per-record normalization failure
// the batch continues; rejects are counted, never fatal
type Reject struct {
	Index  int
	Reason string
}

// Normalizer turns one source's raw records into drafts plus rejects
type Normalizer interface {
	// Source returns the tag this normalizer claims in the registry
	Source() string
	// Normalize processes records in order; the i-th record lands either
	// in the draft slice or in the reject slice, never both
	Normalize(records []json.RawMessage) ([]Draft, []Reject)
}

// ActivityID derives the deterministic activity id from the source tag and
// the source-native key. Same inputs, same id, so re-ingestion dedupes on
// the store's primary key. Native keys are namespaced by activity type
// upstream so two event kinds sharing a timestamp cannot collide.
func ActivityID(source, nativeID string) string {
	sum := sha256.Sum256([]byte(source + ":" + nativeID))
	return hex.EncodeToString(sum[:])
}

// Registry maps source tags to their normalizers
type Registry struct {
	by map[string]Normalizer
}

// NewRegistry builds a registry from explicit normalizers
// later duplicates of a tag win, which tests use to stub a source
func NewRegistry(ns ...Normalizer) *Registry {
	r := &Registry{by: make(map[string]Normalizer, len(ns))}
	for _, n := range ns {
		if n == nil {
			continue
		}
		r.by[n.Source()] = n
	}
	return r
}

// Lookup returns the normalizer for a source tag
func (r *Registry) Lookup(source string) (Normalizer, bool) {
	n, ok := r.by[source]
	return n, ok
}

// Sources returns the registered tags in sorted order
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.by))
	for k := range r.by {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
