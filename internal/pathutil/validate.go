// Package pathutil confines file paths supplied by untrusted callers to a
// set of allowed directories.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutside is returned when a path resolves outside every allowed directory.
var ErrOutside = errors.New("path is outside allowed directories")

// scenarioExts are the file extensions accepted for scenario files.
var scenarioExts = map[string]bool{".yaml": true, ".yml": true}

// Redact reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/.leverage/scenarios/heavy.yaml" becomes
// ".../scenarios/heavy.yaml".
func Redact(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// Within resolves path and returns its absolute, symlink-free form if it
// lies inside one of dirs. Relative paths are resolved against the first
// allowed directory.
func Within(path string, dirs []string) (string, error) {
	if path == "" {
		return "", errors.New("path is empty")
	}
	if len(dirs) == 0 {
		return "", errors.New("no allowed directories configured")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", errors.New("path contains null byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(dirs[0], path)
	}
	resolved, err := resolve(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", Redact(path), err)
	}

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		base, err := resolve(abs)
		if err != nil {
			continue
		}
		if resolved == base || strings.HasPrefix(resolved, base+string(os.PathSeparator)) {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%s: %w", Redact(resolved), ErrOutside)
}

// ScenarioFile is Within restricted to YAML files.
func ScenarioFile(path string, dirs []string) (string, error) {
	if !scenarioExts[strings.ToLower(filepath.Ext(path))] {
		return "", fmt.Errorf("%s: scenario files must end in .yaml or .yml", Redact(path))
	}
	return Within(path, dirs)
}

// resolve evaluates symlinks on the deepest existing ancestor of path and
// re-appends the part that does not exist yet.
func resolve(path string) (string, error) {
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no existing ancestor of %s", Redact(path))
		}
		missing = append(missing, filepath.Base(path))
		path = parent
	}
}

// DefaultScenarioDirs returns the directories MCP clients may load
// scenario files from: ~/.leverage/scenarios/
func DefaultScenarioDirs() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return []string{filepath.Join(homeDir, ".leverage", "scenarios")}, nil
}
