// Package vitals manages recorded vital-sign measurements and derives the
// latest-per-type and trend views the monitoring screens render.
package vitals

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/store"
	"github.com/healthconsult/healthconsult/internal/records"
	"github.com/healthconsult/healthconsult/internal/validate"
)

// CollectionKey is the substrate key the vital-sign collection lives under.
const CollectionKey = "vitalSigns"

type Service struct {
	ctl *records.Controller[*VitalSign]
}

func NewService(sub store.Substrate, policy records.RefreshPolicy, log zerolog.Logger) *Service {
	coll := records.NewCollection[*VitalSign](CollectionKey, sub, log)
	ctl := records.NewController(coll, records.ControllerConfig[*VitalSign]{
		Policy:   policy,
		Validate: ValidateDraft,
		Logger:   log,
	})
	return &Service{ctl: ctl}
}

// ValidateDraft requires a catalog type and a valid date. The original
// client accepted vital-sign drafts unchecked; this is the stricter
// contract.
func ValidateDraft(v *VitalSign) error {
	errs := map[string]string{}
	if _, ok := UnitFor(v.Type); !ok {
		errs["type"] = "Please select a vital sign type"
	}
	if !validate.IsValidDate(v.Date) {
		errs["date"] = "Please enter a valid date"
	}
	if len(errs) > 0 {
		return &validate.Error{Fields: errs}
	}
	return nil
}

func (s *Service) Activate(ctx context.Context) ([]*VitalSign, error) {
	return s.ctl.Activate(ctx)
}

// BeginDraft opens a draft dated today.
func (s *Service) BeginDraft(today string) *VitalSign {
	return s.ctl.BeginDraft(&VitalSign{Date: today})
}

func (s *Service) Cancel() { s.ctl.Cancel() }

// Submit derives the unit from the type before the draft is accepted, so a
// stored measurement always carries the catalog unit.
func (s *Service) Submit(ctx context.Context, draft *VitalSign) (*VitalSign, error) {
	if unit, ok := UnitFor(draft.Type); ok {
		draft.Unit = unit
	}
	return s.ctl.Submit(ctx, draft)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.ctl.Remove(ctx, id)
}

// History returns all measurements, most recent first.
func (s *Service) History() []*VitalSign {
	return s.ctl.History()
}

// Latest returns the most recent measurement of the given type.
func (s *Service) Latest(vitalType string) (*VitalSign, bool) {
	return s.ctl.Latest(vitalType)
}

// TrendSeries returns the measurements of one type as chart samples, oldest
// first.
func (s *Service) TrendSeries(vitalType string) []records.Point {
	return records.TrendSeries(s.ctl, vitalType)
}

// Overview pairs each catalog type with its latest measurement, nil when
// nothing is recorded yet.
type Overview struct {
	TypeInfo
	Latest *VitalSign `json:"latest,omitempty"`
}

func (s *Service) LatestPerType() []Overview {
	out := make([]Overview, len(Types))
	for i, info := range Types {
		out[i] = Overview{TypeInfo: info}
		if latest, ok := s.ctl.Latest(info.Type); ok {
			out[i].Latest = latest
		}
	}
	return out
}
