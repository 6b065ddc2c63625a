package race

// Analysis is the model's verdict on a race. Fields hold the model's values
// verbatim; only JockeyAlert is normalized.
type Analysis struct {
	Conditions    string  `json:"conditions"`
	Selection     string  `json:"selection"`
	SelectionOdds string  `json:"selection_odds"`
	Danger        string  `json:"danger"`
	DangerOdds    string  `json:"danger_odds"`
	JockeyAlert   *string `json:"jockey_alert"`
	Logic         string  `json:"logic"`
}

// Alert returns the jockey alert text and whether one is present.
func (a Analysis) Alert() (string, bool) {
	if a.JockeyAlert == nil {
		return "", false
	}
	return *a.JockeyAlert, true
}

// NormalizeJockeyAlert maps a missing value, JSON null, or the literal
// string "null" to no alert. Any other string is kept as is.
func NormalizeJockeyAlert(raw *string) *string {
	if raw == nil || *raw == "null" {
		return nil
	}
	v := *raw
	return &v
}
