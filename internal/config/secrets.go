// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SecretsDir is the default directory of secret files.
const SecretsDir = ".secrets"

// SecretOpenAIKey names the file holding the chat completions API key.
const SecretOpenAIKey = "openai-api-key"

// LoadSecrets reads every file in dir and returns a map of file name to
// trimmed contents. Each file holds one secret. A missing directory yields
// an empty map. Unreadable files are logged and skipped.
func LoadSecrets(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}
