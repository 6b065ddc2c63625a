package analyzer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sozercan/racing-agent/internal/race"
)

var SystemPrompt = `You are a Racing Analyst. You MUST output strictly compliant JSON.

YOUR GOAL:
1. Search for the racecard: %s %s on %s.
2. Analyze based on Going, Class, and Jockey.
3. Return JSON with these exact keys:
%s
Do not add any other keys and do not wrap the JSON in Markdown.`

// BuildSystemInstruction embeds the race in the analyst instruction and
// lists the keys of ResultSchema with their descriptions.
func BuildSystemInstruction(q race.Query) string {
	return fmt.Sprintf(SystemPrompt, q.Meeting, q.TimeString(), q.DateString(), keyList())
}

// BuildPrompt is the short user turn; the system instruction carries the
// output contract.
func BuildPrompt(q race.Query) string {
	return fmt.Sprintf("Analyze the %s race at %s (%s) for a %s bet.", q.TimeString(), q.Meeting, q.DateString(), q.Mode)
}

func keyList() string {
	t := reflect.TypeOf(wireAnalysis{})
	var b strings.Builder
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonFieldName(f)
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "   - %q: %q\n", name, f.Tag.Get("desc"))
	}
	return b.String()
}
