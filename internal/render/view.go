// Package render turns an analysis outcome into the page model shown by the
// web form and the terminal.
package render

import (
	"fmt"

	"github.com/sozercan/racing-agent/internal/analyzer"
	"github.com/sozercan/racing-agent/internal/llm"
	"github.com/sozercan/racing-agent/internal/race"
)

const (
	SelectionLabel = "THE SELECTION"
	DangerLabel    = "THE DANGER"

	MissingCredentialMessage = "Please enter your API Key."
)

type BannerLevel string

const (
	LevelWarning BannerLevel = "warning"
	LevelError   BannerLevel = "error"
)

// Banner is the single message shown instead of results when an analysis fails.
type Banner struct {
	Level   BannerLevel
	Message string
}

type Card struct {
	Label string
	Value string
	Odds  string
	// Inverse marks odds that count against the user, drawn in the warning colour.
	Inverse bool
}

// Display is the card value followed by its odds, e.g. "Storm King (4/1)".
func (c Card) Display() string {
	if c.Odds == "" {
		return c.Value
	}
	return fmt.Sprintf("%s (%s)", c.Value, c.Odds)
}

type Page struct {
	Query race.Query

	// HasAlert is set when the model reported a jockey booking; Alert may
	// still be empty.
	HasAlert bool
	Alert    string
	Caption  string
	Cards    []Card
	Logic    string
	Sources  []llm.Source

	Banner *Banner

	ReportID string
	Model    string
}

// Success reports whether the page carries analysis results.
func (p Page) Success() bool { return p.Banner == nil && len(p.Cards) > 0 }

// AlertText is the banner line for a jockey alert.
func (p Page) AlertText() string { return "JOCKEY ALERT: " + p.Alert }

// NewPage maps the outcome of one analysis to a page. A non-nil err always
// produces a banner and no cards.
func NewPage(q race.Query, report *analyzer.Report, err error) Page {
	page := Page{Query: q}

	if err != nil {
		page.Banner = bannerFor(err)
		return page
	}
	if report == nil {
		return page
	}

	page.Alert, page.HasAlert = report.Alert()
	page.Caption = fmt.Sprintf("%s • %s", q.Meeting, report.Conditions)
	page.Cards = []Card{
		{Label: SelectionLabel, Value: report.Selection, Odds: report.SelectionOdds},
		{Label: DangerLabel, Value: report.Danger, Odds: report.DangerOdds, Inverse: true},
	}
	page.Logic = report.Logic
	page.Sources = report.Metadata.Sources
	page.ReportID = report.Metadata.ID
	page.Model = report.Metadata.Model
	return page
}

// ErrorPage is a page carrying only a banner for err, used when the form
// itself could not be turned into a query.
func ErrorPage(err error) Page {
	return Page{Banner: bannerFor(err)}
}

func bannerFor(err error) *Banner {
	if analyzer.KindOf(err) == analyzer.KindMissingCredential {
		return &Banner{Level: LevelWarning, Message: MissingCredentialMessage}
	}
	return &Banner{Level: LevelError, Message: "Oops: " + err.Error()}
}
