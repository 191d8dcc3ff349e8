package records

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/store"
)

type testRec struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func (r *testRec) RecordID() string    { return r.ID }
func (r *testRec) RecordKind() string  { return r.Kind }
func (r *testRec) RecordDate() string  { return r.Date }
func (r *testRec) StampID(id string)   { r.ID = id }
func (r *testRec) TrendValue() float64 { return r.Value }

func newTestCollection(sub store.Substrate) *Collection[*testRec] {
	return NewCollection[*testRec]("testRecords", sub, zerolog.Nop())
}

func TestCollectionLoadAbsentKey(t *testing.T) {
	coll := newTestCollection(store.NewMemory())

	recs, err := coll.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty collection, got %d records", len(recs))
	}
}

func TestCollectionRoundTripAppend(t *testing.T) {
	coll := newTestCollection(store.NewMemory())
	ctx := context.Background()

	initial := []*testRec{
		{ID: "a", Kind: "Heart Rate", Date: "2024-03-01", Value: 70},
		{ID: "b", Kind: "Heart Rate", Date: "2024-03-02", Value: 72},
	}
	if err := coll.Save(ctx, initial); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := coll.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	loaded = append(loaded, &testRec{ID: "c", Kind: "Weight", Date: "2024-03-03", Value: 64})
	if err := coll.Save(ctx, loaded); err != nil {
		t.Fatalf("save appended: %v", err)
	}

	final, err := coll.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(final) != 3 {
		t.Fatalf("expected 3 records, got %d", len(final))
	}
	for i, wantID := range []string{"a", "b", "c"} {
		if final[i].ID != wantID {
			t.Errorf("record %d id = %q, want %q (order must be preserved)", i, final[i].ID, wantID)
		}
	}
}

func TestCollectionSaveWritesVersionEnvelope(t *testing.T) {
	sub := store.NewMemory()
	coll := newTestCollection(sub)
	ctx := context.Background()

	if err := coll.Save(ctx, []*testRec{{ID: "a", Date: "2024-01-01"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := sub.Load(ctx, "testRecords")
	if err != nil {
		t.Fatalf("raw load: %v", err)
	}
	var env struct {
		Version int             `json:"version"`
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("stored value is not an envelope: %v", err)
	}
	if env.Version != 1 {
		t.Errorf("version = %d, want 1", env.Version)
	}
}

func TestCollectionLoadLegacyBareArray(t *testing.T) {
	sub := store.NewMemory()
	ctx := context.Background()
	legacy := `[{"id":"1716200000000","kind":"Temperature","date":"2024-05-20","value":98.6}]`
	if err := sub.Save(ctx, "testRecords", []byte(legacy)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	coll := newTestCollection(sub)
	recs, err := coll.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 1 || recs[0].Kind != "Temperature" {
		t.Fatalf("legacy array not read: %+v", recs)
	}
}

func TestCollectionLoadLegacyNumericIDs(t *testing.T) {
	sub := store.NewMemory()
	ctx := context.Background()
	// The original client generated ids from the clock, stored as JSON
	// numbers.
	legacy := `[{"id":1716200000000,"kind":"Temperature","date":"2024-05-20","value":98.6},` +
		`{"id":1716200000001,"kind":"Weight","date":"2024-05-21","value":64}]`
	if err := sub.Save(ctx, "testRecords", []byte(legacy)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	coll := newTestCollection(sub)
	recs, err := coll.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("numeric-id data dropped: got %d records, want 2", len(recs))
	}
	if recs[0].ID != "1716200000000" || recs[1].ID != "1716200000001" {
		t.Errorf("ids not stringified: %q, %q", recs[0].ID, recs[1].ID)
	}
	if recs[0].Value != 98.6 {
		t.Errorf("value lost in legacy decode: %v", recs[0].Value)
	}
}

func TestCollectionLoadMalformedValueIsEmpty(t *testing.T) {
	sub := store.NewMemory()
	ctx := context.Background()
	if err := sub.Save(ctx, "testRecords", []byte(`{not json`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	coll := newTestCollection(sub)
	recs, err := coll.Load(ctx)
	if err != nil {
		t.Fatalf("malformed value must not error, got %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty collection, got %d records", len(recs))
	}
}
