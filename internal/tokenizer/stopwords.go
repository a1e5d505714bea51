package tokenizer

// stopwords is the fixed filter list: a short English list combined
// with a short French one, matching the bilingual product corpus. The
// list is deliberately small; this is not a linguistic stopword corpus.
var stopwords = map[string]struct{}{}

var stopwordList = []string{
	// English
	"the", "a", "an", "and", "or", "of", "to", "in", "on", "for",
	"with", "is", "this", "that", "it",
	// French
	"le", "la", "les", "de", "du", "des", "un", "une", "et", "ou",
	"en", "au", "aux", "ce", "cette", "pour", "avec", "sur", "dans",
	"est", "sont",
}

func init() {
	for _, w := range stopwordList {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the (already lowercased) token is in the
// fixed stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Stopwords returns a copy of the stopword set, for diagnostics and
// tests.
func Stopwords() []string {
	out := make([]string, len(stopwordList))
	copy(out, stopwordList)
	return out
}
