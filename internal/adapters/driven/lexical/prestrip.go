package lexical

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	fencedCodePattern = regexp.MustCompile("(?s)```.*?```|~~~.*?~~~")
	inlineCodePattern = regexp.MustCompile("`[^`\n]*`")
	tableRulePattern  = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}:?[ \t]*(\|[ \t]*:?-{3,}:?[ \t]*)*\|?[ \t]*$`)
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	wikiLinkPattern   = regexp.MustCompile(`\[\[[^\]]*\]\]`)
	autoLinkPattern   = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9+.-]*:[^>\s]*>|https?://\S+`)
	chordPattern      = regexp.MustCompile(`(?i)\b[a-z]+(\+[a-z0-9])+\b`)
	strongPattern     = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	emphasisPattern   = regexp.MustCompile(`\*([^*\s][^*]*)\*|\b_([^_]+)_\b`)
	leadQuotePattern  = regexp.MustCompile(`(^|[^\p{L}\p{N}])'+`)
	trailQuotePattern = regexp.MustCompile(`'+([^\p{L}\p{N}]|$)`)
	dottedPattern     = regexp.MustCompile(`[\p{L}\p{N}]\.[\p{L}\p{N}]`)
	separatorPattern  = regexp.MustCompile(`\s*,[\s,]*`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", "ʼ", "'",
	"“", "", "”", "", "\"", "",
)

// PreStrip reduces markdown prose to comma separated runs of words.
//
// Code, link targets, wiki links and table rules are removed. Symbols and
// punctuation become separators, except inside path-like tokens such as
// "docs/setup.md", which are kept verbatim. Combining marks and format
// characters are dropped, so "⇒ dog ⇐ ٍcat" becomes "dog, cat".
func PreStrip(text string) string {
	s := fencedCodePattern.ReplaceAllString(text, ",")
	s = inlineCodePattern.ReplaceAllString(s, ",")
	s = tableRulePattern.ReplaceAllString(s, ",")
	s = imagePattern.ReplaceAllString(s, "$1")
	s = wikiLinkPattern.ReplaceAllString(s, " ")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = autoLinkPattern.ReplaceAllString(s, " ")
	s = chordPattern.ReplaceAllString(s, ",")

	s = quoteReplacer.Replace(s)
	s = leadQuotePattern.ReplaceAllString(s, "$1")
	s = trailQuotePattern.ReplaceAllString(s, "$1")
	s = strongPattern.ReplaceAllString(s, "$1$2")
	s = emphasisPattern.ReplaceAllString(s, "$1$2")

	s = strings.Map(func(r rune) rune {
		if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
			return -1
		}
		return r
	}, s)

	s = mapSymbols(s)
	s = separatorPattern.ReplaceAllString(s, ", ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,")
}

// mapSymbols turns every rune that is not a letter, digit or apostrophe
// into a separator, leaving path-like fields alone.
func mapSymbols(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if isPathLike(f) {
			continue
		}
		fields[i] = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
				return r
			}
			return ','
		}, f)
	}
	return strings.Join(fields, " ")
}

func isPathLike(field string) bool {
	if strings.ContainsAny(field, `/\`) {
		return strings.IndexFunc(field, unicode.IsLetter) >= 0
	}
	return dottedPattern.MatchString(field)
}
