package consult

// Symptom is one entry of the static symptom catalog shown on the picker.
type Symptom struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Symptoms is the fixed catalog the consultation flow selects from.
var Symptoms = []Symptom{
	{ID: 1, Name: "Fever", Icon: "🌡️", Description: "Body temperature above normal range"},
	{ID: 2, Name: "Cough", Icon: "😷", Description: "Persistent or recurring cough"},
	{ID: 3, Name: "Headache", Icon: "🤕", Description: "Pain in head or upper neck area"},
	{ID: 4, Name: "Stomach Ache", Icon: "🤢", Description: "Abdominal pain or discomfort"},
	{ID: 5, Name: "Sore Throat", Icon: "😖", Description: "Pain or irritation in throat"},
	{ID: 6, Name: "Fatigue", Icon: "😴", Description: "Extreme tiredness or exhaustion"},
	{ID: 7, Name: "Nausea", Icon: "🤮", Description: "Feeling of sickness with urge to vomit"},
	{ID: 8, Name: "Dizziness", Icon: "😵", Description: "Feeling unsteady or lightheaded"},
	{ID: 9, Name: "Chest Pain", Icon: "💓", Description: "Pain or discomfort in chest area"},
	{ID: 10, Name: "Back Pain", Icon: "🦴", Description: "Pain in back or spine area"},
	{ID: 11, Name: "Joint Pain", Icon: "🦵", Description: "Pain in joints or muscles"},
	{ID: 12, Name: "Skin Rash", Icon: "🔴", Description: "Skin irritation or unusual marks"},
}

// FindSymptom looks a catalog entry up by name.
func FindSymptom(name string) (Symptom, bool) {
	for _, s := range Symptoms {
		if s.Name == name {
			return s, true
		}
	}
	return Symptom{}, false
}

// GenderOptions, DurationOptions and SeverityOptions are the selectable
// values of the consultation form.
var (
	GenderOptions   = []string{"male", "female", "other", "prefer-not-to-say"}
	DurationOptions = []string{"less-than-24h", "1-3-days", "4-7-days", "more-than-week"}
	SeverityOptions = []string{"mild", "moderate", "severe", "very-severe"}
)
