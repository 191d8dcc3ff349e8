package vitals

// VitalSign is one dated measurement of a vital-sign type.
type VitalSign struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Date  string  `json:"date"`
	Notes string  `json:"notes,omitempty"`
}

func (v *VitalSign) RecordID() string    { return v.ID }
func (v *VitalSign) RecordKind() string  { return v.Type }
func (v *VitalSign) RecordDate() string  { return v.Date }
func (v *VitalSign) StampID(id string)   { v.ID = id }
func (v *VitalSign) TrendValue() float64 { return v.Value }

// TypeInfo is one entry of the fixed vital-sign catalog. The unit is derived
// from the type; the normal range is a display string only.
type TypeInfo struct {
	Type        string `json:"type"`
	Unit        string `json:"unit"`
	NormalRange string `json:"normalRange"`
}

// Types is the fixed vital-sign catalog.
var Types = []TypeInfo{
	{Type: "Blood Pressure", Unit: "mmHg", NormalRange: "120/80"},
	{Type: "Heart Rate", Unit: "bpm", NormalRange: "60-100"},
	{Type: "Temperature", Unit: "°F", NormalRange: "98.6"},
	{Type: "Oxygen Saturation", Unit: "%", NormalRange: "95-100"},
	{Type: "Weight", Unit: "kg", NormalRange: "Varies"},
	{Type: "Blood Sugar", Unit: "mg/dL", NormalRange: "70-140"},
}

// UnitFor returns the unit for a catalog type.
func UnitFor(vitalType string) (string, bool) {
	for _, t := range Types {
		if t.Type == vitalType {
			return t.Unit, true
		}
	}
	return "", false
}
