package pipeline

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/araffali/product-indexer/index"
	"github.com/araffali/product-indexer/internal/tokenizer"
)

// TestNormalizationProperties verifies the algebraic guarantees of the
// text normalizer for arbitrary input, not just the fixtures.
func TestNormalizationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("normalization is idempotent", prop.ForAll(
		func(text string) bool {
			once := tokenizer.Normalize(text)
			twice := tokenizer.Normalize(strings.Join(once, " "))
			if len(once) != len(twice) {
				return false
			}
			for i := range once {
				if once[i] != twice[i] {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("no token is empty or a stopword", prop.ForAll(
		func(text string) bool {
			for _, token := range tokenizer.Normalize(text) {
				if token == "" || tokenizer.IsStopword(token) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// TestPositionalIndexProperties verifies that positions recorded for a
// document are exactly {0..k-1} over its cleaned token sequence.
func TestPositionalIndexProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("positions are dense per document", prop.ForAll(
		func(words []string) bool {
			tokens := tokenizer.Normalize(strings.Join(words, " "))

			pi := index.NewPositionalIndex()
			pi.Add("/product/1", tokens)

			seen := make(map[int]bool)
			for _, byURL := range pi.Postings {
				for _, pos := range byURL["/product/1"] {
					if pos < 0 || pos >= len(tokens) || seen[pos] {
						return false
					}
					seen[pos] = true
				}
			}
			return len(seen) == len(tokens)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("position lists are strictly increasing", prop.ForAll(
		func(words []string) bool {
			tokens := tokenizer.Normalize(strings.Join(words, " "))

			pi := index.NewPositionalIndex()
			pi.Add("/product/1", tokens)

			for _, byURL := range pi.Postings {
				for _, positions := range byURL {
					for i := 1; i < len(positions); i++ {
						if positions[i] <= positions[i-1] {
							return false
						}
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestAttributeNormalizationProperties verifies that case and
// whitespace variants of an attribute value land on the same index key.
func TestAttributeNormalizationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("value normalization ignores case and whitespace", prop.ForAll(
		func(value string) bool {
			mangled := "  " + strings.ToUpper(value) + "\t"
			return index.NormalizeValue(value) == index.NormalizeValue(mangled)
		},
		gen.AlphaString(),
	))

	properties.Property("value normalization is idempotent", prop.ForAll(
		func(value string) bool {
			normalized := index.NormalizeValue(value)
			return index.NormalizeValue(normalized) == normalized
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
