package rules

import "strings"

// DefaultPunct is the default literal punctuation list. Punctuation delimits
// words and is removed or split off according to the rules.
const DefaultPunct = "-_.,:;?! \t\n\r"

// specialRanges are the ASCII punctuation ranges the non-punct special class
// is carved out of.
var specialRanges = [][2]rune{
	{'!', '/'},
	{':', '@'},
	{'[', '`'},
	{'{', '~'},
}

// RuleSet supplies the rules for one resolution. Only the resolution pass is
// required; the other members have defaults and can be overridden by
// implementing the optional interfaces below.
type RuleSet interface {
	ResolutionPassRules() []Rule
}

// PunctProvider overrides the literal punctuation list.
type PunctProvider interface {
	PunctCharsNonRegex() string
}

// PunctPatternProvider overrides the punctuation character class used by
// pattern engines. Implementations should keep it consistent with the
// literal list.
type PunctPatternProvider interface {
	PunctChars() string
}

// SpecialProvider overrides the literal non-punct special list.
type SpecialProvider interface {
	NonPunctSpecialCharsNonRegex() string
}

// SpecialPatternProvider overrides the non-punct special character class.
type SpecialPatternProvider interface {
	NonPunctSpecialChars() string
}

// PrePasser supplies rules applied to the raw input before resolution.
type PrePasser interface {
	PrePassRules() []Rule
}

// PostPasser supplies rules applied to the resolved word list.
type PostPasser interface {
	PostPassRules() []Rule
}

// PunctCharsNonRegex returns the literal punctuation characters of rs.
func PunctCharsNonRegex(rs RuleSet) string {
	if p, ok := rs.(PunctProvider); ok {
		return p.PunctCharsNonRegex()
	}
	return DefaultPunct
}

// PunctChars returns the punctuation characters of rs as a bracketed
// character class.
func PunctChars(rs RuleSet) string {
	if p, ok := rs.(PunctPatternProvider); ok {
		return p.PunctChars()
	}
	return CharClass(PunctCharsNonRegex(rs))
}

// NonPunctSpecialCharsNonRegex returns the special characters that are
// neither alphanumeric nor punctuation nor the target of a Char rule in the
// resolution pass.
func NonPunctSpecialCharsNonRegex(rs RuleSet) string {
	if p, ok := rs.(SpecialProvider); ok {
		return p.NonPunctSpecialCharsNonRegex()
	}
	return DefaultNonPunctSpecial(PunctCharsNonRegex(rs), rs.ResolutionPassRules())
}

// DefaultNonPunctSpecial computes the non-punct special list for the given
// punctuation and resolution rules: the ASCII punctuation ranges minus punct
// minus every Char target.
func DefaultNonPunctSpecial(punct string, resolution []Rule) string {
	exclude := make(map[rune]struct{})
	for _, r := range punct {
		exclude[r] = struct{}{}
	}
	for _, rule := range resolution {
		if rule.Target.Kind == TargetChar {
			exclude[rule.Target.Char] = struct{}{}
		}
	}

	var b strings.Builder
	for _, rng := range specialRanges {
		for c := rng[0]; c <= rng[1]; c++ {
			if _, skip := exclude[c]; !skip {
				b.WriteRune(c)
			}
		}
	}
	return b.String()
}

// NonPunctSpecialChars returns the non-punct special characters of rs as a
// bracketed character class.
func NonPunctSpecialChars(rs RuleSet) string {
	if p, ok := rs.(SpecialPatternProvider); ok {
		return p.NonPunctSpecialChars()
	}
	return CharClass(NonPunctSpecialCharsNonRegex(rs))
}

// PrePassRules returns the pre-pass rules of rs, empty by default.
func PrePassRules(rs RuleSet) []Rule {
	if p, ok := rs.(PrePasser); ok {
		return p.PrePassRules()
	}
	return nil
}

// PostPassRules returns the post-pass rules of rs, empty by default.
func PostPassRules(rs RuleSet) []Rule {
	if p, ok := rs.(PostPasser); ok {
		return p.PostPassRules()
	}
	return nil
}

// CharClass builds a bracketed character class matching exactly the runes of
// chars. An empty list yields a class that never matches.
func CharClass(chars string) string {
	if chars == "" {
		return `[^\s\S]`
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, c := range chars {
		b.WriteString(EscapeClassRune(c))
	}
	b.WriteByte(']')
	return b.String()
}

// EscapeClassRune escapes c for use inside a character class.
func EscapeClassRune(c rune) string {
	switch c {
	case '\\', '[', ']', '^', '-':
		return `\` + string(c)
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	}
	return string(c)
}

// Classes holds the derived character classes of a rule set, in both pattern
// and literal form, plus membership sets for the literal lists.
type Classes struct {
	Punct                   string
	PunctNonRegex           string
	NonPunctSpecial         string
	NonPunctSpecialNonRegex string

	punct   map[rune]struct{}
	special map[rune]struct{}
}

// Derive computes the classes of rs once so engines do not recompute them
// per character.
func Derive(rs RuleSet) Classes {
	c := Classes{
		Punct:                   PunctChars(rs),
		PunctNonRegex:           PunctCharsNonRegex(rs),
		NonPunctSpecial:         NonPunctSpecialChars(rs),
		NonPunctSpecialNonRegex: NonPunctSpecialCharsNonRegex(rs),
	}
	c.punct = runeSet(c.PunctNonRegex)
	c.special = runeSet(c.NonPunctSpecialNonRegex)
	return c
}

// IsPunct reports whether r is in the punctuation list.
func (c Classes) IsPunct(r rune) bool {
	_, ok := c.punct[r]
	return ok
}

// IsNonPunctSpecial reports whether r is in the non-punct special list.
func (c Classes) IsNonPunctSpecial(r rune) bool {
	_, ok := c.special[r]
	return ok
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}
