package wordbounds

import (
	"strings"
	"unicode"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// prePass deletes the characters its Remove rules match, with positions
// counted over the raw input. Validation restricts the pre pass to removals.
func prePass(table ruleTable, input string) string {
	if len(table) == 0 {
		return input
	}
	in := []rune(input)
	var b strings.Builder
	b.Grow(len(input))
	for i, c := range in {
		if !table.at(in, i).del {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// postRule is a post pass rule with its whole-word predicate resolved.
type postRule struct {
	rule    rules.Rule
	matches func(word string) bool
}

func compilePostRules(list []rules.Rule, cls rules.Classes) []postRule {
	out := make([]postRule, 0, len(list))
	for _, r := range list {
		out = append(out, postRule{rule: r, matches: wordMatcher(r.Target, cls)})
	}
	return out
}

// wordMatcher reports whether a word consists solely of characters of t.
func wordMatcher(t rules.Target, cls rules.Classes) func(string) bool {
	var member func(rune) bool
	switch t.Kind {
	case rules.TargetChar:
		c := unicode.ToLower(t.Char)
		member = func(r rune) bool { return r == c }
	case rules.TargetPunct:
		member = cls.IsPunct
	case rules.TargetNonPunctSpecial:
		member = cls.IsNonPunctSpecial
	case rules.TargetNumerics:
		member = unicode.IsDigit
	default:
		return func(string) bool { return false }
	}
	return func(w string) bool {
		if w == "" {
			return false
		}
		for _, r := range w {
			if !member(r) {
				return false
			}
		}
		return true
	}
}

// postPass applies each rule in order over the whole word list. Remove drops
// matching words where its mode applies, counting positions over the list.
// BoundStart glues a matching word onto the word after it and BoundEnd onto
// the word before it.
func postPass(list []postRule, words []string) []string {
	for _, pr := range list {
		switch pr.rule.Kind {
		case rules.KindRemove:
			words = removeWords(pr, words)
		case rules.KindBoundStart:
			words = attachForward(pr, words)
		case rules.KindBoundEnd:
			words = attachBackward(pr, words)
		}
	}
	return words
}

func removeWords(pr postRule, words []string) []string {
	last := len(words) - 1
	out := make([]string, 0, len(words))
	for i, w := range words {
		if pr.matches(w) && pr.rule.Mode.Applies(i, last) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func attachForward(pr postRule, words []string) []string {
	out := make([]string, 0, len(words))
	pending := ""
	for i, w := range words {
		if pr.matches(w) && i < len(words)-1 {
			pending += w
			continue
		}
		out = append(out, pending+w)
		pending = ""
	}
	return out
}

func attachBackward(pr postRule, words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if pr.matches(w) && len(out) > 0 {
			out[len(out)-1] += w
			continue
		}
		out = append(out, w)
	}
	return out
}
