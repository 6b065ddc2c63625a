// Package race holds the race query and analysis types shared by the
// analyzer, the renderers, and the HTTP and terminal surfaces.
package race

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrMissingMeeting = errors.New("meeting is required")
	ErrUnknownMode    = errors.New("unknown bet mode")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BetMode is the wager type the analysis is tailored to.
type BetMode int

const (
	Win BetMode = iota + 1
	EachWay
)

func (m BetMode) String() string {
	switch m {
	case Win:
		return "Win"
	case EachWay:
		return "Each-Way"
	default:
		return fmt.Sprintf("BetMode(%d)", int(m))
	}
}

func (m BetMode) MarshalText() ([]byte, error) {
	if m != Win && m != EachWay {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *BetMode) UnmarshalText(text []byte) error {
	parsed, err := ParseBetMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseBetMode accepts "Win" and the usual spellings of each-way,
// case-insensitively.
func ParseBetMode(s string) (BetMode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "win":
		return Win, nil
	case "eachway", "ew":
		return EachWay, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Query is the race the user wants analysed. Build it with NewQuery.
type Query struct {
	Meeting string    `validate:"required"`
	Date    time.Time `validate:"required"`
	Time    time.Time
	Mode    BetMode `validate:"oneof=1 2"`
}

// NewQuery parses raw form values into a validated Query. The date uses
// DateLayout; the time accepts HH:MM or HH:MM:SS.
func NewQuery(meeting, date, clock, mode string) (Query, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Query{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	t, err := ParseClock(clock)
	if err != nil {
		return Query{}, err
	}
	m, err := ParseBetMode(mode)
	if err != nil {
		return Query{}, err
	}

	q := Query{
		Meeting: strings.TrimSpace(meeting),
		Date:    d,
		Time:    t,
		Mode:    m,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParseClock parses a time of day as HH:MM or HH:MM:SS.
func ParseClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimeLayout, time.TimeOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", s)
}

// Validate reports ErrMissingMeeting for a blank meeting, and a validation
// error for any other missing or out-of-range field.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Meeting) == "" {
		return ErrMissingMeeting
	}
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Field() == "Mode" {
				return fmt.Errorf("%w: %d", ErrUnknownMode, int(q.Mode))
			}
			return fmt.Errorf("invalid query: %s is %s", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

func (q Query) DateString() string { return q.Date.Format(DateLayout) }

func (q Query) TimeString() string { return q.Time.Format(TimeLayout) }
