package contacts

// Contact is one saved emergency contact.
type Contact struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	// AddedOn is the calendar day the contact was saved.
	AddedOn string `json:"addedOn"`
	Notes   string `json:"notes,omitempty"`
}

func (c *Contact) RecordID() string   { return c.ID }
func (c *Contact) RecordKind() string { return c.Name }
func (c *Contact) RecordDate() string { return c.AddedOn }
func (c *Contact) StampID(id string)  { c.ID = id }

// EmergencyService is one entry of the fixed emergency directory.
type EmergencyService struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
}

// Directory is the fixed emergency-service directory shown alongside saved
// contacts.
var Directory = []EmergencyService{
	{
		Name:        "Emergency Services",
		Number:      "911",
		Description: "For life-threatening emergencies",
	},
	{
		Name:        "Poison Control",
		Number:      "1-800-222-1222",
		Description: "For poison-related emergencies",
	},
	{
		Name:        "Suicide Prevention Lifeline",
		Number:      "988",
		Description: "24/7 support for mental health emergencies",
	},
}
