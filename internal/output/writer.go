// Package output persists generated personas to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"personagen/internal/persona"
)

// DefaultDir is where persona files land unless configured otherwise.
const DefaultDir = "outputs"

// Writer stores persona files under a single directory.
type Writer struct {
	Dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{Dir: dir}
}

// Write saves the persona as <username>_persona.txt and returns the
// absolute path. An existing file for the same user is overwritten.
func (w *Writer) Write(p *persona.Persona) (string, error) {
	if p == nil || p.Username == "" {
		return "", fmt.Errorf("persona has no username")
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	body := p.Text
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	path := filepath.Join(w.Dir, p.Username+"_persona.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write persona file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
