// Parses .env files.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadDotEnv parses dir/.env into a map. A missing file or an empty dir yields
// an empty map.
//
// Lines are KEY=value; blank lines and lines starting with # are skipped.
// Double-quoted values are unquoted with Go syntax. Single quotes are rejected.
func LoadDotEnv(dir string) (map[string]string, error) {
	env := make(map[string]string)
	if dir == "" {
		return env, nil
	}
	path := filepath.Join(dir, ".env")
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is built from a user-provided directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return env, nil
		}
		return nil, err
	}
	return parseDotEnv(string(content))
}

func parseDotEnv(content string) (map[string]string, error) {
	env := make(map[string]string)
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		if strings.HasPrefix(val, "'") || strings.HasSuffix(val, "'") {
			if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
				return nil, fmt.Errorf("single quotes are not supported for wrapping in .env: %s", key)
			}
			return nil, fmt.Errorf("unbalanced single quotes in .env: %s", key)
		}
		if strings.HasPrefix(val, "\"") {
			unquoted, err := strconv.Unquote(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			val = unquoted
		}
		env[key] = val
	}
	return env, nil
}
