// Package markdown separates YAML frontmatter from markdown documents.
package markdown

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	frontmatterDelimiter = "---"
	frontmatterEnd       = "..."
	listSeparator        = ","
	bom                  = "\ufeff"
)

var errNotMapping = errors.New("frontmatter must be a mapping")

// Normaliser handles Markdown documents with optional YAML frontmatter.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts raw markdown into a document.
//
// Frontmatter is removed from the content and flattened into metadata:
// nested keys are joined with ".", lists are joined with ",". When the
// frontmatter cannot be parsed the content is kept whole and a
// "Frontmatter error" note is appended so the problem is visible in the
// rendered document.
func (n *Normaliser) Normalise(ref domain.DocumentReference, content []byte) *domain.Document {
	text := strings.TrimPrefix(string(content), bom)

	doc := &domain.Document{
		ID:      ref.ID,
		Hash:    ref.Hash,
		Content: text,
	}
	if doc.Hash == "" {
		doc.Hash = normalisers.Fingerprint(ref.ID)
	}

	front, body, ok := splitFrontmatter(text)
	if !ok {
		return doc
	}

	metadata, err := parseFrontmatter(front)
	if err != nil {
		doc.Content = text + errorNote("Frontmatter error", err.Error())
		return doc
	}
	doc.Content = body
	doc.Metadata = metadata
	return doc
}

// splitFrontmatter returns the frontmatter and the remaining body.
// Frontmatter must open on the first line and be closed by "---" or "...".
func splitFrontmatter(text string) (front, body string, ok bool) {
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(first, "\r") != frontmatterDelimiter {
		return "", text, false
	}

	var lines []string
	for {
		line, remaining, more := strings.Cut(rest, "\n")
		trimmed := strings.TrimRight(line, "\r")
		if trimmed == frontmatterDelimiter || trimmed == frontmatterEnd {
			return strings.Join(lines, "\n"), remaining, true
		}
		if !more {
			return "", text, false
		}
		lines = append(lines, line)
		rest = remaining
	}
}

func parseFrontmatter(front string) (map[string]string, error) {
	if strings.TrimSpace(front) == "" {
		return nil, nil
	}

	var data any
	if err := yaml.Unmarshal([]byte(front), &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	mapping, ok := data.(map[string]any)
	if !ok {
		return nil, errNotMapping
	}

	out := make(map[string]string, len(mapping))
	flatten("", mapping, out)
	return out, nil
}

func flatten(prefix string, m map[string]any, out map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := m[k].(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = scalar(m[k])
	}
}

func scalar(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case time.Time:
		if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 {
			return value.Format(time.DateOnly)
		}
		return value.Format(time.RFC3339)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, scalar(item))
		}
		return strings.Join(parts, listSeparator)
	default:
		return fmt.Sprint(value)
	}
}

// errorNote renders a markdown blockquote that flags a problem.
func errorNote(title, message string) string {
	return fmt.Sprintf("\n\n> **%s**: %s\n", title, message)
}
