package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinker_Candidates(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "single noun",
			text:     "this is a library",
			expected: []string{"library"},
		},
		{
			name:     "comma separated nouns",
			text:     "dog, cat, and fish",
			expected: []string{"dog", "cat", "fish"},
		},
		{
			name:     "adjective and noun",
			text:     "this is an awesome library",
			expected: []string{"library", "awesome", "awesome-library"},
		},
		{
			name:     "adjective without noun is dropped",
			text:     "the principle, the practice, technique, or process may be good",
			expected: []string{"principle", "practice", "technique", "process"},
		},
		{
			name:     "two adjectives",
			text:     "this is an awesome small library",
			expected: []string{"library", "awesome", "small", "awesome-library", "small-library"},
		},
		{
			name: "compound nouns",
			text: "lightweight fun acme tool is an awesome small library",
			expected: []string{
				"acme-tool", "lightweight", "fun", "lightweight-acme-tool", "fun-acme-tool",
				"library", "awesome", "small", "awesome-library", "small-library",
			},
		},
		{
			name: "ignores chatter",
			text: "hello you, lightweight fun acme tool is, yeah,  an awesome small library, what's up, are some of you over it?",
			expected: []string{
				"acme-tool", "lightweight", "fun", "lightweight-acme-tool", "fun-acme-tool",
				"library", "awesome", "small", "awesome-library", "small-library",
			},
		},
		{
			name:     "noun groups",
			text:     "a book by sideshow bob on wish list",
			expected: []string{"book", "sideshow-bob", "wish-list"},
		},
		{
			name:     "short fragments",
			text:     ", a bag is s and ing the dog",
			expected: []string{"bag", "dog"},
		},
		{
			name:     "contractions",
			text:     "wouldn't what's don't should've can't we'll we'd",
			expected: []string{},
		},
		{
			name:     "semicolons and of",
			text:     "current thinking; status quo; state of the nation",
			expected: []string{"thinking", "current", "current-thinking", "status-quo", "state"},
		},
		{
			name:     "possessive",
			text:     "dog's",
			expected: []string{"dog"},
		},
		{
			name:     "table row",
			text:     "| table with a word |",
			expected: []string{"table", "word"},
		},
		{
			name: "table with code cells",
			text: "|             |                  |\n" +
				"| --------------- | ---------------- |\n" +
				"| `viWS+`       | make a word bold |\n" +
				"| `zR`          | open all folds   |\n" +
				"| `zM`          | close all folds  |\n" +
				"| `<space>+l`   | Lint file        |\n",
			expected: []string{"word", "bold", "bold-word", "folds", "all", "all-folds", "lint-file"},
		},
		{
			name:     "inline code",
			text:     "`dog/and/cat`",
			expected: []string{},
		},
		{
			name:     "symbols",
			text:     "⇒giraffe$elephant→tigger+lion*dog>cat~and-fish<",
			expected: []string{"giraffe", "elephant", "tigger", "lion", "dog", "cat", "fish"},
		},
		{
			name:     "colon",
			text:     "dog:cat",
			expected: []string{"dog", "cat"},
		},
		{
			name:     "brackets",
			text:     "(dog) cat",
			expected: []string{"dog", "cat"},
		},
		{
			name:     "quotes",
			text:     `"dog", and cat`,
			expected: []string{"dog", "cat"},
		},
		{
			name:     "single character arrows",
			text:     "Single character arrows ⇒ → ← ⇐",
			expected: []string{"character-arrows", "single", "single-character-arrows"},
		},
		{
			name:     "combining mark",
			text:     "⇒ dog ⇐ ٍ",
			expected: []string{"dog"},
		},
		{
			name:     "combining mark before word",
			text:     "⇒ dog ⇐ ٍcat",
			expected: []string{"dog", "cat"},
		},
		{
			name:     "double space",
			text:     "dog  cat",
			expected: []string{"dog-cat"},
		},
		{
			name:     "triple space",
			text:     "dog   cat",
			expected: []string{"dog-cat"},
		},
		{
			name:     "arrow runs",
			text:     "⇒ → dog ← ⇐",
			expected: []string{"dog"},
		},
		{
			name:     "quoted question",
			text:     "'Got a technical question?'",
			expected: []string{"question", "technical", "technical-question"},
		},
		{
			name:     "link text",
			text:     "Dog and the [cat](./animals/some/) and the rabbit",
			expected: []string{"dog", "cat", "rabbit"},
		},
		{
			name:     "keyboard chords",
			text:     "Dog, cat or rabbit and ctrl+e and ctrl+f and ctrl+n",
			expected: []string{"dog", "cat", "rabbit"},
		},
		{
			name:     "empty",
			text:     "",
			expected: []string{},
		},
	}

	l := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.Candidates(tt.text))
		})
	}
}

func TestLinker_CandidatesSkipWikiLinksAndURLs(t *testing.T) {
	l := New()
	got := l.Candidates("see [[other page]] and https://example.com/docs for the library")
	assert.Equal(t, []string{"library"}, got)
}

func TestLinker_CandidatesKeepPathsOut(t *testing.T) {
	l := New()
	got := l.Candidates("see docs/setup.md before the release")
	assert.Equal(t, []string{"release"}, got)
}

func TestLinker_Aliases(t *testing.T) {
	tests := []struct {
		word     string
		expected []string
	}{
		{"words", []string{"word"}},
		{"word", []string{}},
		{"lists", []string{"list"}},
		{"all-folds", []string{"all-fold"}},
	}

	l := New()
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.Aliases(tt.word))
		})
	}
}

func TestPreStrip(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"marks and arrows", "⇒ dog ⇐ ٍcat", "dog, cat"},
		{"link text kept", "a [cat](./cat.md) here", "a cat here"},
		{"path kept", "read docs/setup.md now", "read docs/setup.md now"},
		{"emphasis", "an **awesome** _small_ library", "an awesome small library"},
		{"fenced code", "before\n```\ncode here\n```\nafter", "before, after"},
		{"only symbols", "→ ← ⇐", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PreStrip(tt.text))
		})
	}
}
