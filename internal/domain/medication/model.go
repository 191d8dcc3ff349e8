package medication

// Reminder is a time-of-day alert on a set of weekdays.
type Reminder struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

// Medication is one tracked medication course. The name doubles as the
// discriminator when deriving per-medication views.
type Medication struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Reminders []Reminder `json:"reminders"`
	Notes     string     `json:"notes,omitempty"`
}

func (m *Medication) RecordID() string   { return m.ID }
func (m *Medication) RecordKind() string { return m.Name }
func (m *Medication) RecordDate() string { return m.StartDate }
func (m *Medication) StampID(id string)  { m.ID = id }
