// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

//go:embed litegraph.yaml.default
var DefaultConfigYAML []byte

// DefaultConfigPath returns ~/.config/litegraph/litegraph.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", lgerr.Errorf(lgerr.CodeConfigLoadReadFailure, "resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "litegraph", "litegraph.yaml"), nil
}

// WriteDefault writes the commented default config to path. An existing file
// is left untouched unless overwrite is set; written reports whether the file
// was created or replaced.
func WriteDefault(path string, overwrite bool) (written bool, err error) {
	if _, err := os.Stat(path); err == nil && !overwrite {
		slog.Debug("config already exists", "path", path)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, lgerr.Errorf(lgerr.CodeConfigLoadReadFailure, "creating config directory: %w", err)
	}

	if err := os.WriteFile(path, DefaultConfigYAML, 0o600); err != nil {
		return false, lgerr.Errorf(lgerr.CodeConfigLoadReadFailure, "writing config %s: %w", path, err)
	}

	slog.Info("created default config", "path", path)
	return true, nil
}
