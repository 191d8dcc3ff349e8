// Package consult implements the two-step consultation wizard: pick a
// symptom, fill the intake form, submit, confirm. Nothing here is persisted;
// the confirmation record lives only until the flow is reset.
package consult

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthconsult/healthconsult/internal/validate"
)

// State is the wizard position.
type State int

const (
	AwaitingSymptom State = iota
	ComposingForm
	Submitting
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingSymptom:
		return "awaiting-symptom"
	case ComposingForm:
		return "composing-form"
	case Submitting:
		return "submitting"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

var (
	// ErrNoSymptom guards entry into later steps without a selection; the
	// caller must return to the symptom picker.
	ErrNoSymptom = errors.New("consult: no symptom selected")
	// ErrNotComplete is returned when the confirmation record is requested
	// before a successful submit.
	ErrNotComplete = errors.New("consult: flow is not complete")
	// ErrUnknownField is returned for a field name outside the form.
	ErrUnknownField = errors.New("consult: unknown form field")
)

// Form is the consultation intake draft. Field names used with UpdateField
// match the JSON tags and the validation error keys.
type Form struct {
	Name               string `json:"name"`
	Age                string `json:"age"`
	Gender             string `json:"gender"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Duration           string `json:"duration"`
	Severity           string `json:"severity"`
	AdditionalNotes    string `json:"additionalNotes"`
	EmergencyContact   string `json:"emergencyContact"`
	Allergies          string `json:"allergies"`
	CurrentMedications string `json:"currentMedications"`
}

// Record is the one-time confirmation payload built on successful submit.
type Record struct {
	Form
	Symptom        string    `json:"symptom"`
	ConsultationID string    `json:"consultationId"`
	SubmittedAt    time.Time `json:"submissionDate"`
}

// Flow drives the wizard. It is single-writer, like the screens it backs.
type Flow struct {
	submitter Submitter
	log       zerolog.Logger
	now       func() time.Time

	state   State
	symptom Symptom
	form    Form
	errors  map[string]string
	record  *Record
}

func NewFlow(submitter Submitter, log zerolog.Logger) *Flow {
	return &Flow{
		submitter: submitter,
		log:       log.With().Str("component", "consult-flow").Logger(),
		now:       time.Now,
		state:     AwaitingSymptom,
		errors:    map[string]string{},
	}
}

func (f *Flow) State() State { return f.state }

// Errors returns the field-keyed messages of the last failed submit. The
// map is a copy; mutating it does not touch the flow.
func (f *Flow) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Form returns the draft as currently composed.
func (f *Flow) Form() Form { return f.form }

// SelectSymptom records the choice and moves the wizard to the form step.
func (f *Flow) SelectSymptom(s Symptom) {
	f.symptom = s
	f.form = Form{}
	f.errors = map[string]string{}
	f.record = nil
	f.state = ComposingForm
	f.log.Debug().Str("symptom", s.Name).Msg("symptom selected")
}

// UpdateField sets one draft field and clears that field's error. The field
// is not re-validated until submit. Entering the form step without a
// selected symptom redirects to the picker.
func (f *Flow) UpdateField(name, value string) error {
	if f.state == AwaitingSymptom {
		return ErrNoSymptom
	}
	switch name {
	case "name":
		f.form.Name = value
	case "age":
		f.form.Age = value
	case "gender":
		f.form.Gender = value
	case "email":
		f.form.Email = value
	case "phone":
		f.form.Phone = value
	case "duration":
		f.form.Duration = value
	case "severity":
		f.form.Severity = value
	case "additionalNotes":
		f.form.AdditionalNotes = value
	case "emergencyContact":
		f.form.EmergencyContact = value
	case "allergies":
		f.form.Allergies = value
	case "currentMedications":
		f.form.CurrentMedications = value
	default:
		return ErrUnknownField
	}
	delete(f.errors, name)
	return nil
}

// Submit validates the draft and, when it passes, hands it to the submitter
// and builds the confirmation record. On validation failure the flow stays
// on the form step with the error map attached.
func (f *Flow) Submit(ctx context.Context) (*Record, error) {
	if f.state == AwaitingSymptom {
		return nil, ErrNoSymptom
	}

	res := validate.ConsultationForm(validate.ConsultationInput{
		Name:     f.form.Name,
		Age:      f.form.Age,
		Gender:   f.form.Gender,
		Email:    f.form.Email,
		Phone:    f.form.Phone,
		Duration: f.form.Duration,
		Severity: f.form.Severity,
	})
	if !res.Valid {
		f.errors = res.Errors
		f.state = ComposingForm
		return nil, res.Err()
	}

	f.state = Submitting
	now := f.now()
	rec := &Record{
		Form:           f.form,
		Symptom:        f.symptom.Name,
		ConsultationID: "HC-" + strconv.FormatInt(now.UnixMilli(), 10),
		SubmittedAt:    now,
	}
	if err := f.submitter.Submit(ctx, rec); err != nil {
		f.state = ComposingForm
		return nil, err
	}

	f.record = rec
	f.errors = map[string]string{}
	f.state = Complete
	f.log.Info().Str("consultation_id", rec.ConsultationID).Str("symptom", rec.Symptom).Msg("consultation submitted")
	return rec, nil
}

// Record exposes the confirmation payload while the flow sits in Complete.
func (f *Flow) Record() (*Record, error) {
	if f.state != Complete || f.record == nil {
		return nil, ErrNotComplete
	}
	return f.record, nil
}

// Reset abandons the flow; the confirmation record is lost.
func (f *Flow) Reset() {
	f.state = AwaitingSymptom
	f.symptom = Symptom{}
	f.form = Form{}
	f.errors = map[string]string{}
	f.record = nil
}
