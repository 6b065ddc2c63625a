package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/sozercan/racing-agent/internal/race"
	"github.com/sozercan/racing-agent/web"
)

// Form holds the values echoed back into the input form.
type Form struct {
	Meeting string
	Date    string
	Time    string
	Mode    string

	// NeedKey shows the masked API key field; otherwise KeySource names
	// where the session key came from.
	NeedKey   bool
	KeySource string
}

// FormFromQuery fills the form fields from q.
func FormFromQuery(q race.Query) Form {
	return Form{
		Meeting: q.Meeting,
		Date:    q.DateString(),
		Time:    q.TimeString(),
		Mode:    q.Mode.String(),
	}
}

type View struct {
	Form Form
	// Page is nil before the first submission
	Page *Page
}

type HTML struct {
	tmpl *template.Template
}

func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(web.Templates(), "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

func (h *HTML) Execute(w io.Writer, v View) error {
	return h.tmpl.ExecuteTemplate(w, "index.html", v)
}
