// Package medication manages the persisted medication list: courses with
// dosage, frequency, duration and reminders.
package medication

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/store"
	"github.com/healthconsult/healthconsult/internal/records"
	"github.com/healthconsult/healthconsult/internal/validate"
)

// CollectionKey is the substrate key the medication collection lives under.
const CollectionKey = "medications"

type Service struct {
	ctl *records.Controller[*Medication]
}

func NewService(sub store.Substrate, policy records.RefreshPolicy, log zerolog.Logger) *Service {
	coll := records.NewCollection[*Medication](CollectionKey, sub, log)
	ctl := records.NewController(coll, records.ControllerConfig[*Medication]{
		Policy:   policy,
		Validate: ValidateDraft,
		Logger:   log,
	})
	return &Service{ctl: ctl}
}

// ValidateDraft rejects drafts missing the fields every medication needs.
// The original client accepted medication drafts unchecked; rejecting them
// here is the stricter contract.
func ValidateDraft(m *Medication) error {
	errs := map[string]string{}
	if !validate.IsRequired(m.Name) {
		errs["name"] = "Medication name is required"
	}
	if !validate.IsRequired(m.Dosage) {
		errs["dosage"] = "Dosage is required"
	}
	if !validate.IsRequired(m.Frequency) {
		errs["frequency"] = "Frequency is required"
	}
	if !validate.IsValidDate(m.StartDate) {
		errs["startDate"] = "Please enter a valid start date"
	}
	if !validate.IsValidDate(m.EndDate) {
		errs["endDate"] = "Please enter a valid end date"
	}
	if len(errs) > 0 {
		return &validate.Error{Fields: errs}
	}
	return nil
}

func (s *Service) Activate(ctx context.Context) ([]*Medication, error) {
	return s.ctl.Activate(ctx)
}

// BeginDraft opens a draft with both dates defaulted to today and one empty
// reminder row, mirroring the form defaults.
func (s *Service) BeginDraft(today string) *Medication {
	return s.ctl.BeginDraft(&Medication{
		StartDate: today,
		EndDate:   today,
		Reminders: []Reminder{{}},
	})
}

func (s *Service) Cancel() { s.ctl.Cancel() }

func (s *Service) Submit(ctx context.Context, draft *Medication) (*Medication, error) {
	return s.ctl.Submit(ctx, draft)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.ctl.Remove(ctx, id)
}

// History returns all medications, most recent start date first.
func (s *Service) History() []*Medication {
	return s.ctl.History()
}

// Latest returns the most recent course of the named medication.
func (s *Service) Latest(name string) (*Medication, bool) {
	return s.ctl.Latest(name)
}
