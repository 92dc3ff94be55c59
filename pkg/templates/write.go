package templates

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// Exists reports whether path is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil { // #nosec G306 -- generated project files are meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Diff returns a unified diff between the current content of path (empty if
// it does not exist) and content.
func Diff(path string, content []byte) (string, error) {
	var current []byte
	if Exists(path) {
		var err error
		current, err = os.ReadFile(path) // #nosec G304 -- target path is chosen by the user
		if err != nil {
			return "", err
		}
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(content)),
		FromFile: "a/" + filepath.ToSlash(path),
		ToFile:   "b/" + filepath.ToSlash(path),
		Context:  3,
	})
}

// WriteOrDiff writes content to path, or prints the diff to w when dryRun is set.
func WriteOrDiff(w io.Writer, path string, content []byte, dryRun bool) error {
	if !dryRun {
		return WriteFile(path, content)
	}
	d, err := Diff(path, content)
	if err != nil {
		return err
	}
	if d == "" {
		_, err = fmt.Fprintf(w, "%s is up to date\n", path)
		return err
	}
	_, err = io.WriteString(w, d)
	return err
}
