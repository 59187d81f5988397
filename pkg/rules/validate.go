package rules

import (
	"errors"
	"fmt"
)

// ErrUnsupportedRule is returned when a rule set references a target, mode
// or scope no engine gives meaning to.
var ErrUnsupportedRule = errors.New("unsupported rule")

// ErrEmptyResolutionPass is returned for a rule set without resolution rules.
var ErrEmptyResolutionPass = errors.New("resolution pass has no rules")

// Pass names one of the three rule lists of a RuleSet.
type Pass string

const (
	PassPre        Pass = "pre"
	PassResolution Pass = "resolution"
	PassPost       Pass = "post"
)

// UnsupportedRuleError reports the rule that failed validation and where it
// sits in its rule set.
type UnsupportedRuleError struct {
	Pass   Pass
	Index  int
	Rule   Rule
	Reason string
}

func (e *UnsupportedRuleError) Error() string {
	return fmt.Sprintf("%s pass rule %d %s: %s", e.Pass, e.Index, e.Rule, e.Reason)
}

func (e *UnsupportedRuleError) Unwrap() error {
	return ErrUnsupportedRule
}

// Validate checks all three passes of rs and returns the first unsupported
// rule as an *UnsupportedRuleError. The resolution pass must not be empty.
func Validate(rs RuleSet) error {
	if rs == nil {
		return fmt.Errorf("nil rule set: %w", ErrUnsupportedRule)
	}
	if err := ValidatePass(PassPre, PrePassRules(rs)); err != nil {
		return err
	}
	resolution := rs.ResolutionPassRules()
	if len(resolution) == 0 {
		return ErrEmptyResolutionPass
	}
	if err := ValidatePass(PassResolution, resolution); err != nil {
		return err
	}
	if err := ValidatePass(PassPost, PostPassRules(rs)); err != nil {
		return err
	}

	special := runeSet(NonPunctSpecialCharsNonRegex(rs))
	for _, c := range PunctCharsNonRegex(rs) {
		if _, ok := special[c]; ok {
			return fmt.Errorf("%w: %q is both punctuation and non-punct special", ErrUnsupportedRule, c)
		}
	}
	return nil
}

// ValidatePass checks one rule list against what the given pass supports.
func ValidatePass(pass Pass, list []Rule) error {
	for i, r := range list {
		if reason := unsupported(pass, r); reason != "" {
			return &UnsupportedRuleError{Pass: pass, Index: i, Rule: r, Reason: reason}
		}
	}
	return nil
}

func unsupported(pass Pass, r Rule) string {
	switch r.Target.Kind {
	case TargetWord, TargetString:
		return "target has no defined semantics"
	case TargetChar, TargetNumerics, TargetAcronym, TargetPunct, TargetNonPunctSpecial, TargetCaseChange:
	default:
		return "unknown target"
	}

	caseTarget := r.Target.Kind == TargetCaseChange || r.Target.Kind == TargetAcronym
	if caseTarget && pass != PassResolution {
		return "case transitions only exist during resolution"
	}

	switch r.Kind {
	case KindRemove:
		if caseTarget {
			return "case transitions cannot be removed"
		}
		switch r.Mode.Kind {
		case ModeAll:
		case ModeEnds, ModeMiddle:
			if r.Mode.Scope != FullInput {
				return "single-word scope is not implemented"
			}
		default:
			return "removal mode is not implemented"
		}
	case KindBoundStart:
		if r.Target.Kind == TargetAcronym {
			return "acronym cannot start a word"
		}
		if pass == PassPre {
			return "pre pass only supports removal"
		}
	case KindBoundEnd:
		if pass == PassPre {
			return "pre pass only supports removal"
		}
	default:
		return "unknown rule kind"
	}
	return ""
}
