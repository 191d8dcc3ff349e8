// Package contacts manages saved emergency contacts and dial-out to them or
// to the fixed emergency-service directory.
package contacts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/platform/dialer"
	"github.com/healthconsult/healthconsult/internal/platform/store"
	"github.com/healthconsult/healthconsult/internal/records"
	"github.com/healthconsult/healthconsult/internal/validate"
)

// CollectionKey is the substrate key the contact collection lives under.
const CollectionKey = "emergencyContacts"

type Service struct {
	ctl  *records.Controller[*Contact]
	dial dialer.Dialer
}

func NewService(sub store.Substrate, policy records.RefreshPolicy, dial dialer.Dialer, log zerolog.Logger) *Service {
	coll := records.NewCollection[*Contact](CollectionKey, sub, log)
	ctl := records.NewController(coll, records.ControllerConfig[*Contact]{
		Policy:   policy,
		Validate: ValidateDraft,
		Logger:   log,
	})
	return &Service{ctl: ctl, dial: dial}
}

// ValidateDraft requires a name and a well-formed phone number; email is
// checked only when present. The original client accepted contact drafts
// unchecked; this is the stricter contract.
func ValidateDraft(c *Contact) error {
	errs := map[string]string{}
	if !validate.IsRequired(c.Name) {
		errs["name"] = "Name is required"
	}
	if !validate.IsValidPhone(c.Phone) {
		errs["phone"] = "Please enter a valid phone number"
	}
	if c.Email != "" && !validate.IsValidEmail(c.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if len(errs) > 0 {
		return &validate.Error{Fields: errs}
	}
	return nil
}

func (s *Service) Activate(ctx context.Context) ([]*Contact, error) {
	return s.ctl.Activate(ctx)
}

// BeginDraft opens a draft stamped with today's date.
func (s *Service) BeginDraft(today string) *Contact {
	return s.ctl.BeginDraft(&Contact{AddedOn: today})
}

func (s *Service) Cancel() { s.ctl.Cancel() }

func (s *Service) Submit(ctx context.Context, draft *Contact) (*Contact, error) {
	return s.ctl.Submit(ctx, draft)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.ctl.Remove(ctx, id)
}

// History returns all contacts, most recently added first.
func (s *Service) History() []*Contact {
	return s.ctl.History()
}

// Call dials a saved contact by identifier.
func (s *Service) Call(ctx context.Context, id string) error {
	if _, err := s.ctl.Activate(ctx); err != nil {
		return err
	}
	for _, c := range s.ctl.History() {
		if c.ID == id {
			return s.dial.Dial(c.Phone)
		}
	}
	return fmt.Errorf("contact %s not found", id)
}

// CallService dials an entry of the emergency directory by name.
func (s *Service) CallService(name string) error {
	for _, svc := range Directory {
		if svc.Name == name {
			return s.dial.Dial(svc.Number)
		}
	}
	return fmt.Errorf("emergency service %q not found", name)
}
