package lexical

import "strings"

// minWordLength is the shortest token that can become a candidate.
const minWordLength = 3

// stopwords break noun phrases and are never emitted.
var stopwords = toSet(
	// articles and determiners
	"the", "this", "that", "these", "those", "there", "here",
	// pronouns
	"you", "your", "yours", "mine", "our", "ours", "his", "her", "hers", "its",
	"they", "them", "their", "theirs", "who", "whom", "whose", "which", "what",
	"myself", "yourself", "itself", "themselves", "ourselves", "someone", "something",
	"anyone", "anything", "everyone", "everything", "nobody", "nothing",
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around",
	"before", "behind", "below", "beneath", "beside", "between", "beyond",
	"during", "except", "for", "from", "inside", "into", "like", "near", "off",
	"onto", "out", "outside", "over", "past", "since", "through", "throughout",
	"toward", "towards", "under", "until", "upon", "with", "within", "without",
	"via", "per",
	// conjunctions
	"and", "but", "nor", "yet", "then", "than", "because", "while", "whereas",
	"although", "though", "unless", "whether",
	// auxiliaries and modals
	"are", "was", "were", "been", "being", "have", "has", "had", "having",
	"does", "did", "done", "doing", "can", "could", "may", "might", "must",
	"shall", "should", "will", "would",
	// common verbs
	"make", "makes", "made", "making", "get", "gets", "got", "getting",
	"open", "opens", "close", "closes", "use", "uses", "used", "using",
	"goes", "went", "gone", "see", "sees", "saw", "seen", "know", "knows",
	"take", "takes", "took", "put", "puts", "let", "lets", "say", "says", "said",
	"need", "needs", "want", "wants", "try", "tries", "give", "gives", "find",
	"finds", "keep", "keeps", "show", "shows", "come", "comes", "came",
	// interjections
	"hello", "hey", "yeah", "yes", "okay", "please", "thanks", "thank", "wow",
	// quantifiers
	"some", "any", "many", "much", "more", "most", "few", "several", "each",
	"every", "either", "neither", "both", "other", "another", "such", "own",
	"same", "lot", "lots",
	// adverbs and question words
	"not", "very", "just", "also", "too", "only", "even", "still", "already",
	"where", "when", "why", "how", "now", "again", "ever", "never", "always",
	"often", "soon", "well", "quite", "rather", "almost",
	// fragments left by stripped markup
	"ing", "www", "http", "https",
)

// phraseStop is the stopword after which the next phrase is not emitted,
// as in "state of the nation".
const phraseStop = "of"

// adjectives are always classified as modifiers.
var adjectives = toSet(
	"all", "awesome", "bad", "basic", "best", "better", "big", "black", "blue",
	"bold", "clean", "common", "current", "dark", "different", "double", "early",
	"easy", "fast", "final", "fine", "free", "fun", "general", "global", "good",
	"great", "green", "happy", "hard", "high", "important", "large", "late",
	"lightweight", "little", "local", "long", "low", "main", "modern", "new",
	"nice", "old", "private", "public", "quick", "real", "red", "sad", "short",
	"simple", "single", "slow", "small", "special", "strong", "technical",
	"tiny", "true", "false", "various", "weak", "white", "whole", "wide", "young",
)

// nounExceptions end in an adjective or adverb suffix but are nouns.
var nounExceptions = toSet(
	// -ly
	"family", "supply", "reply", "assembly", "anomaly", "butterfly", "ally",
	"rally", "jelly", "belly", "july", "italy", "monopoly", "melancholy",
	// -able / -ible
	"variable", "executable", "vegetable", "timetable", "deliverable", "bible",
	"constable", "syllable",
	// -ive
	"archive", "directive", "objective", "executive", "detective", "initiative",
	"alternative", "narrative", "primitive", "derivative", "representative",
	"perspective", "incentive", "motive", "olive", "native", "relative",
	// -ed
	"hundred", "embed", "bed", "shed", "seed", "feed", "need", "speed", "breed",
	// -ous / -less / -ful
	"bless", "mouthful", "handful",
)

type suffixRule struct {
	suffix string
	minLen int
}

// adjectiveSuffixes classify a word as a modifier when it is at least
// minLen runes long and ends with suffix.
var adjectiveSuffixes = []suffixRule{
	{"ful", 6},
	{"ous", 6},
	{"less", 6},
	{"ical", 6},
	{"able", 6},
	{"ible", 6},
	{"ive", 6},
	{"ed", 5},
}

// wordClass is the lexical class of a token.
type wordClass int

const (
	classBreak wordClass = iota
	classNoun
	classAdjective
)

// classify returns the class of a lowercase word that has already passed
// the length, apostrophe and path checks.
func classify(word string) wordClass {
	if stopwords[word] {
		return classBreak
	}
	if adjectives[word] {
		return classAdjective
	}
	if nounExceptions[word] {
		return classNoun
	}
	if strings.HasSuffix(word, "ly") && len(word) > 4 {
		return classBreak
	}
	for _, rule := range adjectiveSuffixes {
		if len(word) >= rule.minLen && strings.HasSuffix(word, rule.suffix) {
			if rule.suffix == "ed" && strings.HasSuffix(word, "eed") {
				continue
			}
			return classAdjective
		}
	}
	return classNoun
}

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
