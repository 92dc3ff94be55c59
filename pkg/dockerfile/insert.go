package dockerfile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrAnchorNotFound is returned when no line matches an insertion anchor.
var ErrAnchorNotFound = errors.New("insertion anchor not found")

// ApplyInsertions inserts the lines of each insertion before or after the
// first line matching its anchor. Insertions are applied in order, so later
// anchors see the lines added by earlier ones.
func ApplyInsertions(content string, insertions []Insertion) (string, error) {
	lines := strings.Split(content, "\n")
	for _, ins := range insertions {
		match, err := matcher(ins)
		if err != nil {
			return "", err
		}
		idx := -1
		for i, l := range lines {
			if match(l) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return "", fmt.Errorf("%w: %q", ErrAnchorNotFound, ins.Anchor)
		}
		at := idx
		if ins.Position == "after" {
			at = idx + 1
		}
		out := make([]string, 0, len(lines)+len(ins.Lines))
		out = append(out, lines[:at]...)
		out = append(out, ins.Lines...)
		out = append(out, lines[at:]...)
		lines = out
	}
	return strings.Join(lines, "\n"), nil
}

func matcher(ins Insertion) (func(string) bool, error) {
	switch ins.Position {
	case "before", "after":
	default:
		return nil, fmt.Errorf("insertion %q: position must be before or after, got %q", ins.Anchor, ins.Position)
	}
	if !ins.IsRegex {
		return func(l string) bool { return strings.Contains(l, ins.Anchor) }, nil
	}
	re, err := regexp.Compile(ins.Anchor)
	if err != nil {
		return nil, fmt.Errorf("insertion anchor %q: %w", ins.Anchor, err)
	}
	return re.MatchString, nil
}
