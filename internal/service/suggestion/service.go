// Package suggestion exposes the static disease-to-medicine reference
// table. The table is informational only; nothing here validates clinical
// appropriateness.
package suggestion

// Suggestion is one row of the reference table.
type Suggestion struct {
	Disease  string `json:"disease"`
	Medicine string `json:"medicine"`
	Pros     string `json:"pros"`
	Cons     string `json:"cons"`
}

// table lists common conditions with a typical over-the-counter or
// first-line medicine each.
var table = []Suggestion{
	{Disease: "Fever", Medicine: "Paracetamol", Pros: "Reduces fever", Cons: "Liver risk"},
	{Disease: "Cold", Medicine: "Cetirizine", Pros: "Relieves allergy", Cons: "Drowsiness"},
	{Disease: "Headache", Medicine: "Ibuprofen", Pros: "Pain relief", Cons: "Stomach upset"},
	{Disease: "Diabetes", Medicine: "Metformin", Pros: "Controls sugar", Cons: "Nausea"},
	{Disease: "Blood Pressure", Medicine: "Amlodipine", Pros: "Controls BP", Cons: "Dizziness"},
}

// List returns every suggestion in table order. The result is a copy;
// callers may not mutate the table.
func List() []Suggestion {
	result := make([]Suggestion, len(table))
	copy(result, table)
	return result
}

// ForDisease returns the suggestion for the named disease, if any.
func ForDisease(disease string) (Suggestion, bool) {
	for _, s := range table {
		if s.Disease == disease {
			return s, true
		}
	}
	return Suggestion{}, false
}
