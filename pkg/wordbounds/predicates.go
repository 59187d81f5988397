package wordbounds

import (
	"unicode"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// none stands in for a neighbour past either end of the input.
const none rune = -1

func runeAt(in []rune, i int) rune {
	if i < 0 || i >= len(in) {
		return none
	}
	return in[i]
}

func isUpper(r rune) bool { return r != none && unicode.IsUpper(r) }
func isLower(r rune) bool { return r != none && unicode.IsLower(r) }
func isDigit(r rune) bool { return r != none && unicode.IsDigit(r) }

// matchFunc reports whether a rule's target matches at in[i].
type matchFunc func(in []rune, i int) bool

// compiledRule is one rule with its target predicate resolved up front, so a
// walk evaluates rules by table lookup instead of switching on the target.
type compiledRule struct {
	kind  rules.RuleKind
	mode  rules.RemoveMode
	match matchFunc
}

// flags is the folded outcome of every rule at one position.
type flags struct {
	del, start, end bool
}

type ruleTable []compiledRule

// compileRules resolves the predicate of every rule in list. The list must
// already be validated.
func compileRules(list []rules.Rule, cls rules.Classes) ruleTable {
	table := make(ruleTable, 0, len(list))
	for _, r := range list {
		table = append(table, compiledRule{
			kind:  r.Kind,
			mode:  r.Mode,
			match: matcherFor(r, cls),
		})
	}
	return table
}

func matcherFor(r rules.Rule, cls rules.Classes) matchFunc {
	switch r.Target.Kind {
	case rules.TargetChar:
		c := r.Target.Char
		return func(in []rune, i int) bool { return in[i] == c }
	case rules.TargetPunct:
		return func(in []rune, i int) bool { return cls.IsPunct(in[i]) }
	case rules.TargetNonPunctSpecial:
		return func(in []rune, i int) bool { return cls.IsNonPunctSpecial(in[i]) }
	case rules.TargetNumerics:
		return numericsMatcher(r.Kind)
	case rules.TargetCaseChange:
		return caseChange
	case rules.TargetAcronym:
		return acronymEnd
	}
	return func([]rune, int) bool { return false }
}

// numericsMatcher keeps digit runs whole: a bound start only matches the
// first digit of a run and a bound end only its last.
func numericsMatcher(kind rules.RuleKind) matchFunc {
	switch kind {
	case rules.KindBoundStart:
		return func(in []rune, i int) bool {
			return isDigit(in[i]) && !isDigit(runeAt(in, i-1))
		}
	case rules.KindBoundEnd:
		return func(in []rune, i int) bool {
			return isDigit(in[i]) && !isDigit(runeAt(in, i+1))
		}
	}
	return func(in []rune, i int) bool { return isDigit(in[i]) }
}

// caseChange matches the capital at a case transition: the last capital of
// an acronym followed by lowercase, or a capital after lowercase. As a bound
// start it opens the next word, as a bound end it closes the current one.
func caseChange(in []rune, i int) bool {
	prev, c, next := runeAt(in, i-1), in[i], runeAt(in, i+1)
	return (isUpper(prev) && isUpper(c) && isLower(next)) || (isLower(prev) && isUpper(c))
}

// acronymEnd matches the last capital of an acronym run, the one before the
// capital that starts the next word. It needs two characters of lookahead.
func acronymEnd(in []rune, i int) bool {
	return isUpper(in[i]) && isUpper(runeAt(in, i+1)) && isLower(runeAt(in, i+2))
}

// at folds every rule at position i of in.
func (t ruleTable) at(in []rune, i int) flags {
	var f flags
	last := len(in) - 1
	for _, r := range t {
		if !r.match(in, i) {
			continue
		}
		switch r.kind {
		case rules.KindRemove:
			if r.mode.Applies(i, last) {
				f.del = true
			}
		case rules.KindBoundStart:
			f.start = true
		case rules.KindBoundEnd:
			f.end = true
		}
	}
	return f
}
