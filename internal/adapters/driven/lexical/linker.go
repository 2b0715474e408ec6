// Package lexical finds implicit link candidates in prose.
//
// Candidates are noun phrases: runs of nouns, optionally modified by
// adjectives. For "an awesome small library" the linker proposes
// "library", "awesome", "small", "awesome-library" and "small-library".
// Matching candidates against node IDs is left to the caller.
package lexical

import (
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Linker implements the interface.
var _ driven.ImplicitLinker = (*Linker)(nil)

// Linker is a deterministic, dictionary based implicit linker.
// It holds no state and is safe for concurrent use.
type Linker struct{}

// New creates a linker.
func New() *Linker {
	return &Linker{}
}

type token struct {
	word  string
	class wordClass
	of    bool
	sep   bool
}

type phrase struct {
	head      string
	modifiers []string
}

// Candidates returns the distinct candidate IDs found in text, in the order
// they first appear.
func (l *Linker) Candidates(text string) []string {
	stripped := PreStrip(text)
	if stripped == "" {
		return []string{}
	}

	out := []string{}
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	var run []token
	skipNext := false
	flush := func() {
		for _, p := range parsePhrases(run) {
			if skipNext {
				skipNext = false
				continue
			}
			add(p.head)
			for _, m := range p.modifiers {
				add(m)
			}
			for _, m := range p.modifiers {
				add(m + "-" + p.head)
			}
		}
		run = run[:0]
	}

	for _, tok := range tokenize(stripped) {
		switch {
		case tok.sep:
			flush()
			skipNext = false
		case tok.of:
			flush()
			skipNext = true
		case tok.class == classBreak:
			flush()
		default:
			run = append(run, tok)
		}
	}
	flush()

	return out
}

// Aliases returns the singular form of a candidate's last word, or nothing
// when the candidate is already singular.
func (l *Linker) Aliases(word string) []string {
	prefix, last := "", word
	if i := strings.LastIndex(word, "-"); i >= 0 {
		prefix, last = word[:i+1], word[i+1:]
	}
	singular := inflect.Singularize(last)
	if singular == "" || singular == last {
		return []string{}
	}
	return []string{prefix + singular}
}

// tokenize splits stripped text into classified words, with a separator
// token between comma separated segments.
func tokenize(stripped string) []token {
	var tokens []token
	for i, segment := range strings.Split(stripped, ",") {
		if i > 0 {
			tokens = append(tokens, token{sep: true})
		}
		for _, field := range strings.Fields(segment) {
			tokens = append(tokens, classifyField(field))
		}
	}
	return tokens
}

func classifyField(field string) token {
	word := strings.ToLower(field)
	word = strings.TrimSuffix(word, "'s")

	switch {
	case word == phraseStop:
		return token{word: word, of: true}
	case isPathLike(word), strings.Contains(word, "'"):
		return token{word: word, class: classBreak}
	case utf8.RuneCountInString(word) < minWordLength, isNumeric(word):
		return token{word: word, class: classBreak}
	}
	return token{word: word, class: classify(word)}
}

// parsePhrases splits a run of nouns and adjectives into phrases. Leading
// adjectives modify the nouns that follow them. Adjectives closing the run
// modify the phrase before them, as in "make a word bold". A phrase without
// a noun is dropped.
func parsePhrases(run []token) []phrase {
	var phrases []phrase
	i := 0
	for i < len(run) {
		var modifiers, nouns []string
		for i < len(run) && run[i].class == classAdjective {
			modifiers = append(modifiers, run[i].word)
			i++
		}
		for i < len(run) && run[i].class == classNoun {
			nouns = append(nouns, run[i].word)
			i++
		}
		if len(nouns) > 0 && allAdjectives(run[i:]) {
			for ; i < len(run); i++ {
				modifiers = append(modifiers, run[i].word)
			}
		}
		if len(nouns) == 0 {
			continue
		}
		phrases = append(phrases, phrase{head: strings.Join(nouns, "-"), modifiers: modifiers})
	}
	return phrases
}

func allAdjectives(tokens []token) bool {
	for _, t := range tokens {
		if t.class != classAdjective {
			return false
		}
	}
	return true
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
