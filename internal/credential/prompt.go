package credential

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

type fder interface {
	Fd() uintptr
}

type promptProvider struct {
	in    io.Reader
	out   io.Writer
	label string
}

// Prompt asks the user for the key. Input on a terminal is masked; other
// readers are read one line at a time.
func Prompt(in io.Reader, out io.Writer, label string) Provider {
	return &promptProvider{in: in, out: out, label: label}
}

func (p *promptProvider) Name() string { return "prompt" }

func (p *promptProvider) Lookup(context.Context) (Credential, error) {
	fmt.Fprintf(p.out, "%s: ", p.label)

	if f, ok := p.in.(fder); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return nonEmpty(string(b))
	}

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return nonEmpty(line)
}

func nonEmpty(s string) (Credential, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNotFound
	}
	return Credential(s), nil
}
