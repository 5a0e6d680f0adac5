// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. Each
// file is one secret: the filename is the key name and the trimmed contents
// are the value.
//
// Recognized key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets/"

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory yields an empty set.
// Unreadable files are logged and skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, eris.Wrapf(err, "secrets: reading directory %s", dir)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.L().Warn("secrets: could not read key file", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// KeyFile returns the key file name holding the API key for provider.
func KeyFile(provider types.Provider) string {
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	return string(provider) + "-api-key"
}

// APIKey returns explicit when set, otherwise the stored key for provider.
func (s Secrets) APIKey(provider types.Provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[KeyFile(provider)]
}

// Names returns the loaded key names without their values.
func (s Secrets) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	return names
}
