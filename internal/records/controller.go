package records

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RefreshPolicy decides whether Activate re-reads the substrate once the
// collection is resident.
type RefreshPolicy int

const (
	// CacheOnce returns the resident collection on re-activation, matching
	// the original client's behavior.
	CacheOnce RefreshPolicy = iota
	// AlwaysRefresh re-reads the substrate on every activation so changes
	// made by another writer become visible.
	AlwaysRefresh
)

// ParseRefreshPolicy maps the config value to a policy; unknown values fall
// back to CacheOnce.
func ParseRefreshPolicy(s string) RefreshPolicy {
	if s == "refresh" {
		return AlwaysRefresh
	}
	return CacheOnce
}

// ErrNotComposing is returned by Submit when no draft is open.
var ErrNotComposing = errors.New("records: no draft in progress")

// Validator checks a draft before it is accepted. A nil Validator accepts
// every draft.
type Validator[T Record] func(T) error

// ControllerConfig carries the optional knobs of a Controller.
type ControllerConfig[T Record] struct {
	Policy   RefreshPolicy
	Validate Validator[T]
	Logger   zerolog.Logger
	// NewID overrides identifier generation, used by tests.
	NewID func() string
}

// Controller orchestrates one record collection: activation, draft
// composition, validated submission, removal, and derived views. It is not
// safe for concurrent use; there is one logical writer per collection.
type Controller[T Record] struct {
	coll     *Collection[T]
	policy   RefreshPolicy
	validate Validator[T]
	newID    func() string
	log      zerolog.Logger

	loaded    bool
	recs      []T
	composing bool
}

func NewController[T Record](coll *Collection[T], cfg ControllerConfig[T]) *Controller[T] {
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Controller[T]{
		coll:     coll,
		policy:   cfg.Policy,
		validate: cfg.Validate,
		newID:    newID,
		log:      cfg.Logger.With().Str("collection", coll.Key()).Logger(),
	}
}

// Activate loads the collection from the substrate. Under CacheOnce a
// resident collection is returned as-is; under AlwaysRefresh the substrate
// is re-read every call.
func (c *Controller[T]) Activate(ctx context.Context) ([]T, error) {
	if c.loaded && c.policy == CacheOnce {
		return c.snapshot(), nil
	}
	recs, err := c.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.recs = recs
	c.loaded = true
	c.log.Debug().Int("count", len(recs)).Msg("collection activated")
	return c.snapshot(), nil
}

// BeginDraft opens composition. The supplied defaults (e.g. today's date)
// are handed back for the caller to fill in.
func (c *Controller[T]) BeginDraft(defaults T) T {
	c.composing = true
	return defaults
}

// Cancel discards the open draft.
func (c *Controller[T]) Cancel() {
	c.composing = false
}

// Composing reports whether a draft is open.
func (c *Controller[T]) Composing() bool { return c.composing }

// Submit validates the draft, assigns a fresh identifier, appends it and
// persists the collection. On a persistence failure the in-memory collection
// is rolled back and composition stays open so the caller can retry; memory
// and store never diverge.
func (c *Controller[T]) Submit(ctx context.Context, draft T) (T, error) {
	var zero T
	if !c.composing {
		return zero, ErrNotComposing
	}
	if c.validate != nil {
		if err := c.validate(draft); err != nil {
			return zero, err
		}
	}
	if !c.loaded {
		if _, err := c.Activate(ctx); err != nil {
			return zero, err
		}
	}

	draft.StampID(c.newID())
	c.recs = append(c.recs, draft)
	if err := c.coll.Save(ctx, c.recs); err != nil {
		c.recs = c.recs[:len(c.recs)-1]
		return zero, err
	}
	c.composing = false
	c.log.Debug().Str("id", draft.RecordID()).Str("kind", draft.RecordKind()).Msg("record added")
	return draft, nil
}

// Remove filters the identifier out of the collection and persists the
// result. An absent identifier is a no-op, not an error.
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	if !c.loaded {
		if _, err := c.Activate(ctx); err != nil {
			return err
		}
	}

	idx := -1
	for i, r := range c.recs {
		if r.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := c.recs[idx]
	c.recs = append(c.recs[:idx:idx], c.recs[idx+1:]...)
	if err := c.coll.Save(ctx, c.recs); err != nil {
		rollback := make([]T, 0, len(c.recs)+1)
		rollback = append(rollback, c.recs[:idx]...)
		rollback = append(rollback, removed)
		rollback = append(rollback, c.recs[idx:]...)
		c.recs = rollback
		return err
	}
	c.log.Debug().Str("id", id).Msg("record removed")
	return nil
}

// Latest returns the record of the given kind with the most recent date.
// Equal dates resolve to the later insertion.
func (c *Controller[T]) Latest(kind string) (T, bool) {
	var best T
	found := false
	for _, r := range c.recs {
		if r.RecordKind() != kind {
			continue
		}
		if !found || r.RecordDate() >= best.RecordDate() {
			best = r
			found = true
		}
	}
	return best, found
}

// History returns the full collection sorted by date descending. The sort is
// stable, so records sharing a date keep their insertion order.
func (c *Controller[T]) History() []T {
	out := c.snapshot()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordDate() > out[j].RecordDate()
	})
	return out
}

func (c *Controller[T]) snapshot() []T {
	out := make([]T, len(c.recs))
	copy(out, c.recs)
	return out
}

// Valued is implemented by record types that carry a chartable numeric
// value.
type Valued interface {
	Record
	TrendValue() float64
}

// Point is one chart sample.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TrendSeries returns the controller's records of the given kind as (date,
// value) samples sorted by date ascending, the order trend charts read.
func TrendSeries[T Valued](c *Controller[T], kind string) []Point {
	var matched []T
	for _, r := range c.recs {
		if r.RecordKind() == kind {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RecordDate() < matched[j].RecordDate()
	})
	out := make([]Point, len(matched))
	for i, r := range matched {
		out[i] = Point{Date: r.RecordDate(), Value: r.TrendValue()}
	}
	return out
}
