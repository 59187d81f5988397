// Package rules describes the declarative rules that drive word boundary
// resolution: which characters are punctuation, which are retained specials,
// and the ordered list of removal and boundary rules each pass applies.
package rules

import (
	"fmt"
	"strconv"
)

// TargetKind identifies what a rule matches against.
type TargetKind int

const (
	// TargetWord and TargetString are reserved. No engine gives them meaning
	// and Validate rejects them.
	TargetWord TargetKind = iota
	TargetString
	TargetChar
	TargetNumerics
	TargetAcronym
	TargetPunct
	TargetNonPunctSpecial
	TargetCaseChange
)

var targetNames = map[TargetKind]string{
	TargetWord:            "Word",
	TargetString:          "String",
	TargetChar:            "Char",
	TargetNumerics:        "Numerics",
	TargetAcronym:         "Acronym",
	TargetPunct:           "PunctSpecialChar",
	TargetNonPunctSpecial: "NonPunctSpecialChar",
	TargetCaseChange:      "CaseChangeNonAcronym",
}

func (k TargetKind) String() string {
	if name, ok := targetNames[k]; ok {
		return name
	}
	return "TargetKind(" + strconv.Itoa(int(k)) + ")"
}

// Target selects what a rule matches. Char is set for TargetChar, Str for
// TargetString.
type Target struct {
	Kind TargetKind
	Char rune
	Str  string
}

// Predefined targets.
var (
	Word            = Target{Kind: TargetWord}
	Numerics        = Target{Kind: TargetNumerics}
	Acronym         = Target{Kind: TargetAcronym}
	Punct           = Target{Kind: TargetPunct}
	NonPunctSpecial = Target{Kind: TargetNonPunctSpecial}
	CaseChange      = Target{Kind: TargetCaseChange}
)

// Char targets a single literal character.
func Char(c rune) Target {
	return Target{Kind: TargetChar, Char: c}
}

// Str targets a literal string. Reserved, see TargetString.
func Str(s string) Target {
	return Target{Kind: TargetString, Str: s}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetChar:
		return fmt.Sprintf("Char(%q)", t.Char)
	case TargetString:
		return fmt.Sprintf("String(%q)", t.Str)
	default:
		return t.Kind.String()
	}
}

// Scope decides what "first", "last" and "interior" positions are counted
// over for Ends and Middle removal.
type Scope int

const (
	// FullInput counts positions over the whole input.
	FullInput Scope = iota
	// SingleWord counts positions within the word being formed. Not implemented.
	SingleWord
)

func (s Scope) String() string {
	if s == SingleWord {
		return "SingleWord"
	}
	return "FullInput"
}

// ModeKind says where inside the input a Remove rule applies.
type ModeKind int

const (
	ModeNone ModeKind = iota
	ModePrepended
	ModeAppended
	ModeEnds
	ModeMiddle
	ModeAll
)

// RemoveMode qualifies a Remove rule. Scope is ignored for ModeAll and ModeNone.
type RemoveMode struct {
	Kind  ModeKind
	Scope Scope
}

// All removes every occurrence.
func All() RemoveMode { return RemoveMode{Kind: ModeAll} }

// Ends removes occurrences at the first or last position.
func Ends(s Scope) RemoveMode { return RemoveMode{Kind: ModeEnds, Scope: s} }

// Middle removes occurrences at interior positions.
func Middle(s Scope) RemoveMode { return RemoveMode{Kind: ModeMiddle, Scope: s} }

// Prepended is a placeholder mode; no engine implements it.
func Prepended(s Scope) RemoveMode { return RemoveMode{Kind: ModePrepended, Scope: s} }

// Appended is a placeholder mode; no engine implements it.
func Appended(s Scope) RemoveMode { return RemoveMode{Kind: ModeAppended, Scope: s} }

// NoRemoval is a placeholder mode; no engine implements it.
func NoRemoval() RemoveMode { return RemoveMode{Kind: ModeNone} }

// Applies reports whether the mode removes the character at idx of an input
// whose last index is last. Only FullInput scope is meaningful here.
func (m RemoveMode) Applies(idx, last int) bool {
	switch m.Kind {
	case ModeAll:
		return true
	case ModeMiddle:
		return idx != 0 && idx != last
	case ModeEnds:
		return idx == 0 || idx == last
	}
	return false
}

func (m RemoveMode) String() string {
	switch m.Kind {
	case ModeAll:
		return "All"
	case ModeNone:
		return "None"
	case ModePrepended:
		return "Prepended(" + m.Scope.String() + ")"
	case ModeAppended:
		return "Appended(" + m.Scope.String() + ")"
	case ModeEnds:
		return "Ends(" + m.Scope.String() + ")"
	case ModeMiddle:
		return "Middle(" + m.Scope.String() + ")"
	}
	return "RemoveMode(" + strconv.Itoa(int(m.Kind)) + ")"
}

// RuleKind distinguishes removal from the two boundary rules.
type RuleKind int

const (
	KindRemove RuleKind = iota
	KindBoundStart
	KindBoundEnd
)

func (k RuleKind) String() string {
	switch k {
	case KindRemove:
		return "Remove"
	case KindBoundStart:
		return "BoundStart"
	case KindBoundEnd:
		return "BoundEnd"
	}
	return "RuleKind(" + strconv.Itoa(int(k)) + ")"
}

// Rule is one processing rule. Mode is only meaningful for KindRemove.
type Rule struct {
	Kind   RuleKind
	Target Target
	Mode   RemoveMode
}

// Remove deletes matched occurrences of t where mode applies.
func Remove(t Target, mode RemoveMode) Rule {
	return Rule{Kind: KindRemove, Target: t, Mode: mode}
}

// BoundStart makes an occurrence of t the first character of a new word.
func BoundStart(t Target) Rule {
	return Rule{Kind: KindBoundStart, Target: t}
}

// BoundEnd makes an occurrence of t the last character of the current word.
func BoundEnd(t Target) Rule {
	return Rule{Kind: KindBoundEnd, Target: t}
}

func (r Rule) String() string {
	if r.Kind == KindRemove {
		return fmt.Sprintf("Remove(%s, %s)", r.Target, r.Mode)
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Target)
}

// Contains reports whether list holds a rule equal to r.
func Contains(list []Rule, r Rule) bool {
	for _, candidate := range list {
		if candidate == r {
			return true
		}
	}
	return false
}
