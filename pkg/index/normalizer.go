package index

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizerFunc defines a single normalization step.
type NormalizerFunc func(string) string

// Normalizer maps resolved words to index terms through a pipeline of steps.
// Build and query must use the same pipeline.
type Normalizer struct {
	steps []NormalizerFunc
}

// NewNormalizer folds accents and case: "Größe" and "grosse" become the
// same term.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		steps: []NormalizerFunc{
			NFKDDecompose,
			RemoveCombiningMarks,
			Lowercase,
			FoldEszett,
		},
	}
}

// NewStemmingNormalizer additionally reduces English words to their stem,
// so "connections" and "connected" share the term "connect".
func NewStemmingNormalizer() *Normalizer {
	n := NewNormalizer()
	n.steps = append(n.steps, StemEnglish)
	return n
}

// NewNormalizerWithSteps creates a normalizer with a custom pipeline.
func NewNormalizerWithSteps(steps ...NormalizerFunc) *Normalizer {
	return &Normalizer{steps: steps}
}

// Normalize applies all configured steps in order.
func (n *Normalizer) Normalize(s string) string {
	for _, step := range n.steps {
		s = step(s)
	}
	return s
}

// NFKDDecompose applies Unicode NFKD normalization.
// Splits é into e + combining acute and ﬁ into fi.
func NFKDDecompose(s string) string {
	return norm.NFKD.String(s)
}

// RemoveCombiningMarks removes nonspacing marks (category Mn) left over from
// decomposition.
func RemoveCombiningMarks(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if !unicode.Is(unicode.Mn, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Lowercase converts to lowercase with language-neutral Unicode rules.
func Lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// FoldEszett converts ß to ss; NFKD leaves it alone.
func FoldEszett(s string) string {
	return strings.ReplaceAll(s, "ß", "ss")
}

// StemEnglish applies the English Snowball stemmer. Words that are not
// purely alphabetic, like "v2" or "#rust", are left as they are.
func StemEnglish(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return s
		}
	}
	stemmed, err := snowball.Stem(s, "english", false)
	if err != nil {
		return s
	}
	return stemmed
}
