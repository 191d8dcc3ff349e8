package records

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/store"
)

// failingSubstrate wraps Memory and fails Save on demand.
type failingSubstrate struct {
	*store.Memory
	failSave bool
}

func (f *failingSubstrate) Save(ctx context.Context, key string, data []byte) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, key, data)
}

func newTestController(sub store.Substrate, cfg ControllerConfig[*testRec]) *Controller[*testRec] {
	coll := NewCollection[*testRec]("testRecords", sub, zerolog.Nop())
	return NewController(coll, cfg)
}

func TestSubmitAssignsIDAndPersists(t *testing.T) {
	sub := store.NewMemory()
	ctl := newTestController(sub, ControllerConfig[*testRec]{})
	ctx := context.Background()

	if _, err := ctl.Activate(ctx); err != nil {
		t.Fatalf("activate: %v", err)
	}
	draft := ctl.BeginDraft(&testRec{Kind: "Heart Rate", Date: "2024-03-01", Value: 72})
	rec, err := ctl.Submit(ctx, draft)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.ID == "" {
		t.Error("submitted record has no identifier")
	}

	// A fresh controller over the same substrate sees the record.
	other := newTestController(sub, ControllerConfig[*testRec]{})
	recs, err := other.Activate(ctx)
	if err != nil {
		t.Fatalf("activate fresh: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != rec.ID {
		t.Errorf("persisted collection = %+v, want the submitted record", recs)
	}
}

func TestSubmitWithoutDraftFails(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	_, err := ctl.Submit(context.Background(), &testRec{Kind: "Weight"})
	if !errors.Is(err, ErrNotComposing) {
		t.Fatalf("expected ErrNotComposing, got %v", err)
	}
}

func TestSubmitValidatorRejectsDraft(t *testing.T) {
	wantErr := errors.New("kind is required")
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{
		Validate: func(r *testRec) error {
			if r.Kind == "" {
				return wantErr
			}
			return nil
		},
	})
	ctx := context.Background()

	draft := ctl.BeginDraft(&testRec{Date: "2024-03-01"})
	if _, err := ctl.Submit(ctx, draft); !errors.Is(err, wantErr) {
		t.Fatalf("expected validator error, got %v", err)
	}
	if !ctl.Composing() {
		t.Error("rejected submit must keep composition open")
	}

	recs, _ := ctl.Activate(ctx)
	if len(recs) != 0 {
		t.Errorf("rejected draft must not be appended, got %d records", len(recs))
	}
}

func TestSubmitRollsBackOnWriteFailure(t *testing.T) {
	sub := &failingSubstrate{Memory: store.NewMemory()}
	ctl := newTestController(sub, ControllerConfig[*testRec]{})
	ctx := context.Background()

	if _, err := ctl.Activate(ctx); err != nil {
		t.Fatalf("activate: %v", err)
	}
	sub.failSave = true
	draft := ctl.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-01"})
	if _, err := ctl.Submit(ctx, draft); err == nil {
		t.Fatal("expected write failure to surface")
	}
	if !ctl.Composing() {
		t.Error("failed submit must keep composition open for retry")
	}

	sub.failSave = false
	if _, err := ctl.Submit(ctx, draft); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
	recs, _ := ctl.Activate(ctx)
	if len(recs) != 1 {
		t.Errorf("expected exactly 1 record after retry, got %d", len(recs))
	}
}

func TestRemove(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		draft := ctl.BeginDraft(&testRec{Kind: "Heart Rate", Date: fmt.Sprintf("2024-03-0%d", i+1)})
		rec, err := ctl.Submit(ctx, draft)
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		ids = append(ids, rec.ID)
	}

	if err := ctl.Remove(ctx, ids[1]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	recs, _ := ctl.Activate(ctx)
	if len(recs) != 2 || recs[0].ID != ids[0] || recs[1].ID != ids[2] {
		t.Errorf("unexpected collection after remove: %+v", recs)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	draft := ctl.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-01"})
	rec, err := ctl.Submit(ctx, draft)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := ctl.Remove(ctx, "no-such-id"); err != nil {
		t.Fatalf("remove of absent id must not error, got %v", err)
	}
	recs, _ := ctl.Activate(ctx)
	if len(recs) != 1 || recs[0].ID != rec.ID {
		t.Errorf("collection mutated by no-op remove: %+v", recs)
	}
}

func TestActivateCacheOnceIgnoresExternalWrites(t *testing.T) {
	sub := store.NewMemory()
	ctx := context.Background()

	writer := newTestController(sub, ControllerConfig[*testRec]{})
	if _, err := writer.Submit(ctx, writer.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-01"})); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cached := newTestController(sub, ControllerConfig[*testRec]{Policy: CacheOnce})
	first, _ := cached.Activate(ctx)
	if len(first) != 1 {
		t.Fatalf("expected 1 record on first activation, got %d", len(first))
	}

	if _, err := writer.Submit(ctx, writer.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-02"})); err != nil {
		t.Fatalf("external write: %v", err)
	}

	again, _ := cached.Activate(ctx)
	if len(again) != 1 {
		t.Errorf("CacheOnce re-activation re-read the store: %d records", len(again))
	}

	fresh := newTestController(sub, ControllerConfig[*testRec]{Policy: AlwaysRefresh})
	if _, err := fresh.Activate(ctx); err != nil {
		t.Fatalf("activate: %v", err)
	}
	refreshed, _ := fresh.Activate(ctx)
	if len(refreshed) != 2 {
		t.Errorf("AlwaysRefresh must see external writes, got %d records", len(refreshed))
	}
}

func TestLatestPicksMostRecentDate(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	for _, date := range []string{"2024-03-01", "2024-03-10", "2024-02-20"} {
		if _, err := ctl.Submit(ctx, ctl.BeginDraft(&testRec{Kind: "Blood Pressure", Date: date})); err != nil {
			t.Fatalf("submit %s: %v", date, err)
		}
	}

	latest, ok := ctl.Latest("Blood Pressure")
	if !ok {
		t.Fatal("expected a latest record")
	}
	if latest.Date != "2024-03-10" {
		t.Errorf("latest date = %s, want 2024-03-10", latest.Date)
	}

	if _, ok := ctl.Latest("Temperature"); ok {
		t.Error("latest for an unseen kind must be absent")
	}
}

func TestLatestTieBreaksOnInsertionOrder(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	first, _ := ctl.Submit(ctx, ctl.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-01", Value: 63}))
	second, _ := ctl.Submit(ctx, ctl.BeginDraft(&testRec{Kind: "Weight", Date: "2024-03-01", Value: 64}))
	_ = first

	latest, ok := ctl.Latest("Weight")
	if !ok {
		t.Fatal("expected a latest record")
	}
	if latest.ID != second.ID {
		t.Errorf("tie on date must resolve to the later insertion, got %s", latest.ID)
	}
}

func TestHistorySortsDateDescendingStable(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	seed := []*testRec{
		{Kind: "Heart Rate", Date: "2024-03-01", Value: 1},
		{Kind: "Heart Rate", Date: "2024-03-10", Value: 2},
		{Kind: "Heart Rate", Date: "2024-03-01", Value: 3},
	}
	for _, r := range seed {
		if _, err := ctl.Submit(ctx, ctl.BeginDraft(r)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	hist := ctl.History()
	if len(hist) != 3 {
		t.Fatalf("history length = %d", len(hist))
	}
	if hist[0].Date != "2024-03-10" {
		t.Errorf("history[0] date = %s", hist[0].Date)
	}
	// The two 2024-03-01 records keep their insertion order.
	if hist[1].Value != 1 || hist[2].Value != 3 {
		t.Errorf("equal dates must preserve insertion order, got %v then %v", hist[1].Value, hist[2].Value)
	}
}

func TestTrendSeriesAscending(t *testing.T) {
	ctl := newTestController(store.NewMemory(), ControllerConfig[*testRec]{})
	ctx := context.Background()

	for _, r := range []*testRec{
		{Kind: "Blood Sugar", Date: "2024-03-01", Value: 95},
		{Kind: "Blood Sugar", Date: "2024-03-10", Value: 110},
		{Kind: "Blood Sugar", Date: "2024-02-20", Value: 88},
		{Kind: "Weight", Date: "2024-03-05", Value: 64},
	} {
		if _, err := ctl.Submit(ctx, ctl.BeginDraft(r)); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	series := TrendSeries(ctl, "Blood Sugar")
	wantDates := []string{"2024-02-20", "2024-03-01", "2024-03-10"}
	if len(series) != len(wantDates) {
		t.Fatalf("series length = %d, want %d", len(series), len(wantDates))
	}
	for i, p := range series {
		if p.Date != wantDates[i] {
			t.Errorf("series[%d].Date = %s, want %s", i, p.Date, wantDates[i])
		}
	}
	if series[0].Value != 88 {
		t.Errorf("series[0].Value = %v, want 88", series[0].Value)
	}
}
