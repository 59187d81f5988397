package wordbounds

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// Character class fragments shared by the pattern branches.
const (
	upper = `\p{Lu}`
	lower = `\p{Ll}`
	digit = `\d`
)

// CompilePattern synthesizes the single alternation whose matches are the
// word boundaries of rs. Removal branches consume the removed character and
// come first so they win over zero-width branches at the same position.
func CompilePattern(rs rules.RuleSet) (string, error) {
	if err := rules.Validate(rs); err != nil {
		return "", err
	}
	list := rs.ResolutionPassRules()
	cls := rules.Derive(rs)

	var consuming, zeroWidth []string
	seen := make(map[string]bool)
	add := func(dst *[]string, branch string) {
		if branch == "" || seen[branch] {
			return
		}
		seen[branch] = true
		*dst = append(*dst, branch)
	}

	punctRemovedEverywhere := rules.Contains(list, rules.Remove(rules.Punct, rules.All()))

	for _, r := range list {
		if r.Kind != rules.KindRemove {
			continue
		}
		add(&consuming, removalBranch(targetClass(r.Target, cls), r.Mode))
	}

	for _, r := range list {
		if r.Kind == rules.KindRemove {
			continue
		}
		start := r.Kind == rules.KindBoundStart
		switch r.Target.Kind {
		case rules.TargetChar:
			add(&zeroWidth, boundBranch(targetClass(r.Target, cls), start))
		case rules.TargetPunct:
			// Removed punctuation is consumed, which already cuts there.
			if !punctRemovedEverywhere {
				add(&zeroWidth, boundBranch(cls.Punct, start))
			}
		case rules.TargetNonPunctSpecial:
			if start {
				add(&zeroWidth, "(?="+cls.NonPunctSpecial+")")
			} else {
				add(&zeroWidth, "(?<="+cls.NonPunctSpecial+`)(?!\z)`)
			}
		case rules.TargetNumerics:
			if start {
				add(&zeroWidth, `(?<!\d)(?=\d)`)
			} else {
				add(&zeroWidth, `(?<=\d)(?!\d)`)
			}
		case rules.TargetCaseChange:
			if start {
				add(&zeroWidth, "(?<="+upper+")(?="+upper+lower+")|(?<="+lower+")(?="+upper+")")
			} else {
				add(&zeroWidth, "(?<="+lower+upper+")|(?<="+upper+upper+")(?="+lower+")")
			}
		case rules.TargetAcronym:
			add(&zeroWidth, "(?<="+upper+")(?="+upper+lower+")")
		default:
			return "", fmt.Errorf("%w: no pattern for %s", rules.ErrUnsupportedRule, r)
		}
	}

	branches := append(consuming, zeroWidth...)
	if len(branches) == 0 {
		// An empty pattern would match between every pair of runes.
		return rules.CharClass(""), nil
	}
	// Identical case branches from different rules are kept; seen only
	// filters whole-rule duplicates.
	return strings.Join(branches, "|"), nil
}

func targetClass(t rules.Target, cls rules.Classes) string {
	switch t.Kind {
	case rules.TargetChar:
		return rules.CharClass(string(t.Char))
	case rules.TargetPunct:
		return cls.Punct
	case rules.TargetNonPunctSpecial:
		return cls.NonPunctSpecial
	case rules.TargetNumerics:
		return digit
	}
	return ""
}

func removalBranch(class string, mode rules.RemoveMode) string {
	switch mode.Kind {
	case rules.ModeAll:
		return class
	case rules.ModeMiddle:
		return `(?!\A)` + class + `(?!\z)`
	case rules.ModeEnds:
		return `\A` + class + "|" + class + `\z`
	}
	return ""
}

func boundBranch(class string, start bool) string {
	if start {
		return "(?=" + class + ")"
	}
	return "(?<=" + class + ")"
}

// PatternEngine cuts the input at every match of the compiled pattern.
// Matched text is dropped, so removal branches delete their character.
type PatternEngine struct {
	re      *regexp2.Regexp
	pattern string
}

// NewPatternEngine compiles, or fetches from the process-wide cache, the
// pattern for rs.
func NewPatternEngine(rs rules.RuleSet) (*PatternEngine, error) {
	return newPatternEngine(rs, discardLogger())
}

func newPatternEngine(rs rules.RuleSet, logger *slog.Logger) (*PatternEngine, error) {
	if err := rules.Validate(rs); err != nil {
		return nil, err
	}
	c, err := loadPattern(Pattern.String(), signature(rs), logger, func() (string, error) {
		return CompilePattern(rs)
	})
	if err != nil {
		return nil, err
	}
	return &PatternEngine{re: c.re, pattern: c.pattern}, nil
}

// Name implements Engine.
func (p *PatternEngine) Name() string { return Pattern.String() }

// Pattern returns the compiled pattern source.
func (p *PatternEngine) Pattern() string { return p.pattern }

// Resolve implements Engine. Match offsets are rune offsets.
func (p *PatternEngine) Resolve(input string) ([]string, error) {
	in := []rune(input)
	words := make([]string, 0, len(in)/4+1)

	last := 0
	m, err := p.re.FindRunesMatch(in)
	for ; err == nil && m != nil; m, err = p.re.FindNextMatch(m) {
		if m.Index > last {
			words = append(words, string(in[last:m.Index]))
		}
		last = m.Index + m.Length
	}
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", input, err)
	}
	if last < len(in) {
		words = append(words, string(in[last:]))
	}

	return finish(words), nil
}
