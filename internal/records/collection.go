// Package records implements the shared lifecycle for dated, typed record
// collections: load a named collection from the substrate, validate and
// append drafts, remove by identifier, and derive presentation views. The
// medication, vitals and contacts domains are all instances of this one
// pattern.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/store"
)

// schemaVersion is written into every persisted collection envelope so the
// record shape can evolve later.
const schemaVersion = 1

// Record is implemented (with pointer receivers) by every persisted entity.
type Record interface {
	RecordID() string
	// RecordKind is the discriminator within the collection, e.g. the
	// vital-sign type or the medication name.
	RecordKind() string
	// RecordDate is the calendar day of the record in ISO form (YYYY-MM-DD).
	RecordDate() string
	StampID(id string)
}

type envelope struct {
	Version int             `json:"version"`
	Records json.RawMessage `json:"records"`
}

// Collection binds one record type to one substrate key.
type Collection[T Record] struct {
	key string
	sub store.Substrate
	log zerolog.Logger
}

func NewCollection[T Record](key string, sub store.Substrate, log zerolog.Logger) *Collection[T] {
	return &Collection[T]{key: key, sub: sub, log: log.With().Str("collection", key).Logger()}
}

// Key returns the substrate key the collection is stored under.
func (c *Collection[T]) Key() string { return c.key }

// Load reads the full collection. An absent key or malformed stored value is
// treated as an empty collection, never as an error; only substrate
// transport failures propagate.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.sub.Load(ctx, c.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load collection %s: %w", c.key, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Records != nil {
		var recs []T
		if err := json.Unmarshal(env.Records, &recs); err == nil {
			return recs, nil
		}
	}

	// Data written by the original client is a bare array.
	var recs []T
	if err := json.Unmarshal(data, &recs); err == nil {
		return recs, nil
	}
	if recs, ok := decodeLegacy[T](data); ok {
		return recs, nil
	}

	c.log.Warn().Msg("stored collection is malformed, starting empty")
	return nil, nil
}

// decodeLegacy reads a bare array whose ids are numbers, the shape the
// original client produced with its timestamp identifiers. Ids are
// stringified before decoding into the record type.
func decodeLegacy[T Record](data []byte) ([]T, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}
	for _, rec := range raw {
		if n, ok := rec["id"].(json.Number); ok {
			rec["id"] = n.String()
		}
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, false
	}
	var recs []T
	if err := json.Unmarshal(normalized, &recs); err != nil {
		return nil, false
	}
	return recs, true
}

// Save serializes the full collection and replaces the stored value.
func (c *Collection[T]) Save(ctx context.Context, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", c.key, err)
	}
	data, err := json.Marshal(envelope{Version: schemaVersion, Records: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", c.key, err)
	}
	if err := c.sub.Save(ctx, c.key, data); err != nil {
		return fmt.Errorf("save collection %s: %w", c.key, err)
	}
	return nil
}
