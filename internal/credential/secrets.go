package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type secretsFile struct {
	path string
	keys []string
}

// SecretsFile reads a key from a secrets store file such as
// .streamlit/secrets.toml. The format follows the file extension; nested
// keys use dots ("gemini.api_key"). A missing file is not an error.
func SecretsFile(path string, keys ...string) Provider {
	return &secretsFile{path: path, keys: keys}
}

func (s *secretsFile) Name() string { return "secrets file " + s.path }

func (s *secretsFile) Lookup(context.Context) (Credential, error) {
	if s.path == "" {
		return "", ErrNotFound
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if filepath.Ext(s.path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read secrets: %w", err)
	}

	for _, key := range s.keys {
		if val := strings.TrimSpace(v.GetString(key)); val != "" {
			return Credential(val), nil
		}
	}
	return "", ErrNotFound
}
