// Package persona turns a Reddit user's fetched history into a written
// persona, either through an LLM provider or an offline analyzer.
package persona

import (
	"fmt"
	"strings"
	"time"

	"personagen/internal/reddit"
)

// snippetRunes caps how much of each item is quoted in the prompt.
const snippetRunes = 200

// Evidence is one citable item of a user's history.
type Evidence struct {
	Kind      string    `json:"kind"`
	Created   time.Time `json:"created"`
	Text      string    `json:"text"`
	Permalink string    `json:"permalink"`
}

// FromContent converts fetched content into evidence items.
func FromContent(items []reddit.Content) []Evidence {
	out := make([]Evidence, 0, len(items))
	for _, it := range items {
		out = append(out, Evidence{
			Kind:      it.Kind,
			Created:   it.Created,
			Text:      it.Text,
			Permalink: it.Permalink,
		})
	}
	return out
}

// Line renders one evidence item as a cited bullet: kind, UTC date, full
// permalink, then a quoted snippet with newlines flattened.
func (e Evidence) Line() string {
	snippet := strings.TrimSpace(strings.ReplaceAll(e.Text, "\n", " "))
	if runes := []rune(snippet); len(runes) > snippetRunes {
		snippet = string(runes[:snippetRunes])
	}
	return fmt.Sprintf("- (%s from %s, https://www.reddit.com%s) “%s…”",
		e.Kind, e.Created.UTC().Format("2006-01-02"), e.Permalink, snippet)
}

// FormatLines renders evidence items one bullet per line.
func FormatLines(items []Evidence) string {
	lines := make([]string, 0, len(items))
	for _, e := range items {
		lines = append(lines, e.Line())
	}
	return strings.Join(lines, "\n")
}
