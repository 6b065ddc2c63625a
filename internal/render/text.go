package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteText writes the page for a terminal, in the same order as the web
// page: alert, caption, cards, logic, sources.
func WriteText(w io.Writer, p Page) error {
	bw := bufio.NewWriter(w)

	if p.Banner != nil {
		fmt.Fprintf(bw, "[%s] %s\n", strings.ToUpper(string(p.Banner.Level)), p.Banner.Message)
		return bw.Flush()
	}

	if p.HasAlert {
		fmt.Fprintf(bw, "!! %s\n\n", p.AlertText())
	}
	if p.Caption != "" {
		fmt.Fprintf(bw, "%s\n\n", p.Caption)
	}
	for _, c := range p.Cards {
		fmt.Fprintf(bw, "%-14s %s\n", c.Label+":", c.Display())
	}
	if p.Logic != "" {
		fmt.Fprintf(bw, "\nThe Logic\n%s\n", p.Logic)
	}
	if len(p.Sources) > 0 {
		fmt.Fprintln(bw, "\nSources")
		for _, s := range p.Sources {
			if s.Title != "" {
				fmt.Fprintf(bw, "  - %s <%s>\n", s.Title, s.URL)
			} else {
				fmt.Fprintf(bw, "  - %s\n", s.URL)
			}
		}
	}
	return bw.Flush()
}
