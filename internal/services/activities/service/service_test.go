package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/platform/store"
	"teampulse/internal/services/activities/domain"
	"teampulse/internal/services/activities/repo"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (f fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error { return fn(f) }

type fakeStorage struct {
	outcome   domain.InsertOutcome
	sawBatch  []domain.Activity
	sawLimit  int
	sawAfter  domain.AfterKey
	queryPage domain.Page
}

func (f *fakeStorage) InsertOrIgnore(_ context.Context, batch []domain.Activity) (domain.InsertOutcome, error) {
	f.sawBatch = batch
	return f.outcome, nil
}

func (f *fakeStorage) Query(
	_ context.Context,
	_ domain.Filters,
	after domain.AfterKey,
	limit int,
) (domain.Page, error) {
	f.sawAfter = after
	f.sawLimit = limit
	return f.queryPage, nil
}

type fakeCH struct {
	insertRows [][]any
	insertErr  error
}

func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }

func (f *fakeCH) Insert(_ context.Context, _ string, rows [][]any) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insertRows = append(f.insertRows, rows...)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) ScalarUInt64(context.Context, string, ...any) (uint64, error) {
	return uint64(len(f.insertRows)), nil
}
func (f *fakeCH) Close() error { return nil }

func newSvc(st *fakeStorage, ch store.Clickhouse) *Service {
	b := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return st })
	return New(fakeTx{}, b, repo.NewArchive(ch), Config{HardLimit: 100})
}

func sampleBatch() []domain.Activity {
	at := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	return []domain.Activity{
		{ActivityID: "a1", Source: "github", ActivityType: "commit", OccurredAt: at, MemberID: "m1"},
		{ActivityID: "a2", Source: "github", ActivityType: "commit", OccurredAt: at},
		{ActivityID: "a3", Source: "slack", ActivityType: "message", OccurredAt: at, MemberID: "m2"},
	}
}

func TestInsertOrIgnore_MirrorsOnlyInsertedRows(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{outcome: domain.InsertOutcome{
		Inserted:    2,
		Ignored:     1,
		InsertedIDs: []string{"a1", "a3"},
	}}
	ch := &fakeCH{}
	svc := newSvc(st, ch)

	out, err := svc.InsertOrIgnore(context.Background(), sampleBatch())
	if err != nil {
		t.Fatalf("InsertOrIgnore: %v", err)
	}
	if out.Inserted != 2 || out.Ignored != 1 {
		t.Errorf("outcome = %+v", out)
	}

	if len(ch.insertRows) != 2 {
		t.Fatalf("archive rows = %d, want the 2 inserted", len(ch.insertRows))
	}
	if ch.insertRows[0][0] != "a1" || ch.insertRows[1][0] != "a3" {
		t.Errorf("archive saw %v, %v", ch.insertRows[0][0], ch.insertRows[1][0])
	}
}

func TestInsertOrIgnore_ArchiveFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{outcome: domain.InsertOutcome{Inserted: 1, InsertedIDs: []string{"a1"}}}
	ch := &fakeCH{insertErr: errors.New("ch down")}
	svc := newSvc(st, ch)

	out, err := svc.InsertOrIgnore(context.Background(), sampleBatch()[:1])
	if err != nil {
		t.Fatalf("archive failure leaked: %v", err)
	}
	if out.Inserted != 1 {
		t.Errorf("outcome = %+v", out)
	}
}

func TestInsertOrIgnore_NoArchiveConfigured(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{outcome: domain.InsertOutcome{Inserted: 1, InsertedIDs: []string{"a1"}}}
	svc := newSvc(st, nil)

	if _, err := svc.InsertOrIgnore(context.Background(), sampleBatch()[:1]); err != nil {
		t.Fatalf("InsertOrIgnore: %v", err)
	}
	if svc.Archive().Enabled() {
		t.Error("nil seam reported enabled")
	}
}

func TestInsertOrIgnore_EmptyBatch(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	svc := newSvc(st, &fakeCH{})

	out, err := svc.InsertOrIgnore(context.Background(), nil)
	if err != nil || out.Inserted != 0 || out.Ignored != 0 {
		t.Fatalf("empty batch = %+v, %v", out, err)
	}
	if st.sawBatch != nil {
		t.Error("empty batch hit the store")
	}
}

func TestQuery_ClampsLimit(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	svc := newSvc(st, nil)

	if _, err := svc.Query(context.Background(), domain.Filters{}, domain.AfterKey{}, 0); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if st.sawLimit != 100 {
		t.Errorf("limit = %d, want hard limit", st.sawLimit)
	}

	if _, err := svc.Query(context.Background(), domain.Filters{}, domain.AfterKey{}, 10_000); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if st.sawLimit != 100 {
		t.Errorf("limit = %d, want hard limit", st.sawLimit)
	}

	if _, err := svc.Query(context.Background(), domain.Filters{}, domain.AfterKey{}, 25); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if st.sawLimit != 25 {
		t.Errorf("limit = %d, want caller's 25", st.sawLimit)
	}
}
