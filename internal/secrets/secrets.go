// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads session credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ssrn-cookie, user-agent.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// Key files read by ApplyHTTP.
const (
	CookieKey    = "ssrn-cookie"
	UserAgentKey = "user-agent"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ApplyHTTP fills the Cookie and UserAgent fields of cfg from secrets.
// Values already set on cfg take precedence.
func ApplyHTTP(cfg *types.HTTPConfig, secrets map[string]string) {
	if cfg.Cookie == "" {
		cfg.Cookie = secrets[CookieKey]
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = secrets[UserAgentKey]
	}
}
