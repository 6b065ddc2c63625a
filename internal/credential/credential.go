// Package credential resolves the LLM API key through an ordered chain of
// providers: process environment, a secrets file, then an interactive prompt.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var ErrNotFound = errors.New("credential not found")

// Credential is an API key. It prints masked so it can be passed to loggers.
type Credential string

func (c Credential) Empty() bool { return strings.TrimSpace(string(c)) == "" }

// Value returns the raw key.
func (c Credential) Value() string { return strings.TrimSpace(string(c)) }

func (c Credential) String() string {
	v := c.Value()
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "****"
}

func (c Credential) LogValue() slog.Value { return slog.StringValue(c.String()) }

// Provider looks up a credential. It returns ErrNotFound when it has
// nothing to offer so the chain can move on.
type Provider interface {
	Name() string
	Lookup(ctx context.Context) (Credential, error)
}

// Chain tries each provider in order and returns the first credential found.
type Chain []Provider

// Resolve returns the credential and the name of the provider that supplied
// it. A provider error other than ErrNotFound stops the chain.
func (c Chain) Resolve(ctx context.Context) (Credential, string, error) {
	for _, p := range c {
		cred, err := p.Lookup(ctx)
		if errors.Is(err, ErrNotFound) || (err == nil && cred.Empty()) {
			slog.Debug("credential provider had no key", "provider", p.Name())
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", p.Name(), err)
		}
		slog.Info("credential resolved", "provider", p.Name(), "key", cred)
		return cred, p.Name(), nil
	}
	return "", "", ErrNotFound
}

type envProvider struct {
	vars   []string
	lookup func(string) (string, bool)
}

// Env reads the first non-empty variable from the process environment.
func Env(vars ...string) Provider {
	return &envProvider{vars: vars, lookup: os.LookupEnv}
}

func (e *envProvider) Name() string { return "environment" }

func (e *envProvider) Lookup(context.Context) (Credential, error) {
	for _, name := range e.vars {
		if v, ok := e.lookup(name); ok && strings.TrimSpace(v) != "" {
			return Credential(v), nil
		}
	}
	return "", ErrNotFound
}

// Static wraps a value already in hand, such as a submitted form field.
func Static(name string, value string) Provider {
	return staticProvider{name: name, value: Credential(value)}
}

type staticProvider struct {
	name  string
	value Credential
}

func (s staticProvider) Name() string { return s.name }

func (s staticProvider) Lookup(context.Context) (Credential, error) {
	if s.value.Empty() {
		return "", ErrNotFound
	}
	return s.value, nil
}
