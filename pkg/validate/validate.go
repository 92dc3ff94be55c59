// Package validate provides reusable input validation functions for extension
// arguments and configuration values. All validators return an error
// describing the violation or nil if the input is acceptable.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// extensionNameRe matches extension and point segment names.
var extensionNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// allowedLogLevels is the set of supported log level names.
var allowedLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// NotEmpty rejects blank strings.
func NotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is empty")
	}
	return nil
}

// expand resolves a leading ~ and makes p absolute.
func expand(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(filepath.Clean(p))
}

// DirOrNew accepts a path that does not exist yet or is a directory,
// empty or not.
func DirOrNew(s string) error {
	p, err := expand(s)
	if err != nil {
		return err
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", p)
	}
	return nil
}

// ExistingFile accepts a path to a regular file.
func ExistingFile(s string) error {
	p, err := expand(s)
	if err != nil {
		return err
	}
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("the file %s does not exist", p)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", p)
	}
	return nil
}

// FileType returns a validator that accepts existing files with one of the
// given suffixes. Suffixes may be given with or without the leading dot.
func FileType(types ...string) func(string) error {
	suffixes := make([]string, 0, len(types))
	for _, t := range types {
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		suffixes = append(suffixes, t)
	}
	return func(s string) error {
		if err := ExistingFile(s); err != nil {
			return err
		}
		ext := filepath.Ext(s)
		for _, suf := range suffixes {
			if ext == suf {
				return nil
			}
		}
		return fmt.Errorf("%s is not a file of type %s", s, strings.Join(suffixes, ", "))
	}
}

// ExistingPaths accepts a comma separated list of paths that all exist. With
// devices set, every path must also be a character device.
func ExistingPaths(devices bool) func(string) error {
	return func(s string) error {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			info, err := os.Stat(part)
			if err != nil {
				return fmt.Errorf("path does not exist: %s", part)
			}
			if devices && info.Mode()&os.ModeCharDevice == 0 {
				return fmt.Errorf("path is not a character device: %s", part)
			}
		}
		return nil
	}
}

// ExtensionName validates a dotted point name or a single extension name.
func ExtensionName(s string) error {
	if s == "" {
		return fmt.Errorf("name must not be empty")
	}
	for _, seg := range strings.Split(s, ".") {
		if !extensionNameRe.MatchString(seg) {
			return fmt.Errorf("invalid name %q: segment %q must be lowercase alphanumeric, hyphens or underscores", s, seg)
		}
	}
	return nil
}

// LogLevel validates a log level name.
func LogLevel(s string) error {
	for _, l := range allowedLogLevels {
		if s == l {
			return nil
		}
	}
	return fmt.Errorf("invalid log level %q: must be one of %s", s, strings.Join(allowedLogLevels, ", "))
}
