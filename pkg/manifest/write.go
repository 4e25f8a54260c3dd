package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Write serializes the manifest in canonical form: one requirement per
// line, normalized names, no whitespace inside constraint expressions,
// trailing comments preserved. The output parses back to an equal
// requirement set.
func (m *Manifest) Write(w io.Writer) error {
	for _, r := range m.Requirements {
		line := r.String()
		if r.Comment != "" {
			line += "  # " + r.Comment
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the canonical serialization as a string.
func (m *Manifest) Format() string {
	var b strings.Builder
	_ = m.Write(&b)
	return b.String()
}

// WriteFile writes the canonical serialization to path.
func (m *Manifest) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
