package index

// PositionalIndex maps a token to the URLs whose field contains it,
// and for each URL the ordered 0-based positions of the token within
// the cleaned token sequence of that field. Positions index into the
// sequence after normalization and stopword removal, not into the raw
// text.
type PositionalIndex struct {
	Postings map[string]map[string][]int `json:"postings"`
}

// NewPositionalIndex creates an empty positional index.
func NewPositionalIndex() *PositionalIndex {
	return &PositionalIndex{
		Postings: make(map[string]map[string][]int),
	}
}

// Add records every token of one document's cleaned field sequence.
// Position i is appended to the token's list for url, so repeated
// calls for distinct documents accumulate and a token occurring more
// than once in the sequence contributes one position per occurrence.
// An empty sequence contributes nothing.
func (pi *PositionalIndex) Add(url string, tokens []string) {
	for i, token := range tokens {
		byURL, ok := pi.Postings[token]
		if !ok {
			byURL = make(map[string][]int)
			pi.Postings[token] = byURL
		}
		byURL[url] = append(byURL[url], i)
	}
}

// Positions returns the recorded positions of token in url's field, or
// nil if the pair was never indexed.
func (pi *PositionalIndex) Positions(token, url string) []int {
	byURL, ok := pi.Postings[token]
	if !ok {
		return nil
	}
	return byURL[url]
}

// TokenCount returns the number of distinct tokens in the index.
func (pi *PositionalIndex) TokenCount() int {
	return len(pi.Postings)
}

// URLCount returns the number of distinct URLs appearing anywhere in
// the index.
func (pi *PositionalIndex) URLCount() int {
	urls := make(map[string]struct{})
	for _, byURL := range pi.Postings {
		for url := range byURL {
			urls[url] = struct{}{}
		}
	}
	return len(urls)
}
