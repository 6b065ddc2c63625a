package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sozercan/racing-agent/internal/race"
)

// wireAnalysis is the answer as the model sends it. Pointers tell a missing
// or null key apart from an empty string.
type wireAnalysis struct {
	Conditions    *string `json:"conditions" validate:"required" desc:"Going and trip, e.g. Soft, 2m 4f"`
	Selection     *string `json:"selection" validate:"required" desc:"Name of horse"`
	SelectionOdds *string `json:"selection_odds" validate:"required" desc:"e.g. 4/1"`
	Danger        *string `json:"danger" validate:"required" desc:"Name of danger horse"`
	DangerOdds    *string `json:"danger_odds" validate:"required" desc:"e.g. 7/2"`
	JockeyAlert   *string `json:"jockey_alert" desc:"Any top jockey booking or null"`
	Logic         *string `json:"logic" validate:"required" desc:"Concise reasoning for the selection."`
}

var (
	ErrNotJSONObject = errors.New("response is not a JSON object")

	fencePattern = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```$")

	responseValidator = newResponseValidator()
)

func newResponseValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonFieldName(f)
	})
	return v
}

// parseAnalysis decodes the model's text into a race.Analysis. Every
// required key must be present and non-null; values are kept verbatim.
func parseAnalysis(text string) (race.Analysis, error) {
	body := stripCodeFence(text)
	if !strings.HasPrefix(body, "{") {
		return race.Analysis{}, ErrNotJSONObject
	}

	var wire wireAnalysis
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&wire); err != nil {
		return race.Analysis{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return race.Analysis{}, fmt.Errorf("invalid JSON: trailing data after object")
	}

	if err := responseValidator.Struct(wire); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return race.Analysis{}, fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
		}
		return race.Analysis{}, err
	}

	return race.Analysis{
		Conditions:    *wire.Conditions,
		Selection:     *wire.Selection,
		SelectionOdds: *wire.SelectionOdds,
		Danger:        *wire.Danger,
		DangerOdds:    *wire.DangerOdds,
		JockeyAlert:   race.NormalizeJockeyAlert(wire.JockeyAlert),
		Logic:         *wire.Logic,
	}, nil
}

// stripCodeFence removes a Markdown code fence wrapping the whole answer.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return text
}
