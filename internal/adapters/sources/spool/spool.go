// Package spool reads fetcher-produced NDJSON batch files from a directory.
//
// Design choices:
// - One file is one batch for one source; the tag is the filename stem up
//   to the first dash ("github-20251114.ndjson" -> "github").
// - Stream with bufio.Scanner under a 32MB line cap so oversized records
//   fail loudly instead of truncating.
// - Lines are kept as raw JSON; decoding and per-record rejection belong
//   to the source normalizer so reject counts stay honest.
// - Plain and gzip files are both accepted, fetchers compress large pulls.
package spool

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"teampulse/internal/platform/logger"
)

const maxScanTokenSize = 32 * 1024 * 1024

// Batch is the raw record set from one spool file
type Batch struct {
	Source  string
	Path    string
	Records []json.RawMessage
}

// ReadDir loads every *.ndjson and *.ndjson.gz file under dir, sorted by
// filename for a stable processing order. A missing directory is an error;
// an empty one yields an empty slice.
func ReadDir(dir string) ([]Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("spool: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".ndjson") || strings.HasSuffix(name, ".ndjson.gz") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	log := logger.Named("spool")
	out := make([]Batch, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		b, err := readFile(path)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("file", name).
			Str("source", b.Source).
			Int("records", len(b.Records)).
			Msg("spool: batch loaded")
		out = append(out, b)
	}
	return out, nil
}

// SourceOf extracts the source tag from a spool filename
func SourceOf(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, ".ndjson")
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[:i]
	}
	return strings.ToLower(strings.TrimSpace(base))
}

func readFile(path string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("spool: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return Batch{}, fmt.Errorf("spool: gzip %s: %w", path, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 512*1024), maxScanTokenSize)

	b := Batch{Source: SourceOf(path), Path: path}
	for sc.Scan() {
		line := sc.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		// the scanner reuses its buffer, keep our own copy
		cp := make([]byte, len(line))
		copy(cp, line)
		b.Records = append(b.Records, json.RawMessage(cp))
	}
	if err := sc.Err(); err != nil {
		return Batch{}, fmt.Errorf("spool: scan %s: %w", path, err)
	}
	return b, nil
}
