package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// FileRuleSet is a rule set loaded from a YAML rule file. It implements every
// optional RuleSet interface; members the file leaves out fall back to the
// defaults. The pattern classes are always built from the literal lists.
type FileRuleSet struct {
	punct      *string
	special    *string
	pre        []Rule
	resolution []Rule
	post       []Rule
}

// fileDoc is the on-disk shape of a rule file.
type fileDoc struct {
	Punct          *string    `yaml:"punct,omitempty"`
	Special        *string    `yaml:"non_punct_special,omitempty"`
	PrePass        []fileRule `yaml:"pre_pass,omitempty"`
	ResolutionPass []fileRule `yaml:"resolution_pass,omitempty"`
	PostPass       []fileRule `yaml:"post_pass,omitempty"`
}

type fileRule struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Char   string `yaml:"char,omitempty"`
	String string `yaml:"string,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Scope  string `yaml:"scope,omitempty"`
}

var (
	kindNames = map[string]RuleKind{
		"remove":      KindRemove,
		"bound_start": KindBoundStart,
		"bound_end":   KindBoundEnd,
	}
	targetKeys = map[string]TargetKind{
		"word":              TargetWord,
		"string":            TargetString,
		"char":              TargetChar,
		"numerics":          TargetNumerics,
		"acronym":           TargetAcronym,
		"punct":             TargetPunct,
		"non_punct_special": TargetNonPunctSpecial,
		"case_change":       TargetCaseChange,
	}
	modeKeys = map[string]ModeKind{
		"none":      ModeNone,
		"prepended": ModePrepended,
		"appended":  ModeAppended,
		"ends":      ModeEnds,
		"middle":    ModeMiddle,
		"all":       ModeAll,
	}
	scopeKeys = map[string]Scope{
		"":            FullInput,
		"full_input":  FullInput,
		"single_word": SingleWord,
	}
)

// LoadFile reads and validates a YAML rule file.
func LoadFile(path string) (*FileRuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule file %s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes and validates a YAML rule document. A document without a
// resolution_pass list, or with an empty one, uses DefaultRules.
func Parse(data []byte) (*FileRuleSet, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	rs := &FileRuleSet{punct: doc.Punct, special: doc.Special}

	var err error
	if rs.pre, err = decodeRules(PassPre, doc.PrePass); err != nil {
		return nil, err
	}
	if len(doc.ResolutionPass) == 0 {
		rs.resolution = DefaultRules()
	} else if rs.resolution, err = decodeRules(PassResolution, doc.ResolutionPass); err != nil {
		return nil, err
	}
	if rs.post, err = decodeRules(PassPost, doc.PostPass); err != nil {
		return nil, err
	}

	if err := Validate(rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func decodeRules(pass Pass, in []fileRule) ([]Rule, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]Rule, 0, len(in))
	for i, fr := range in {
		r, err := fr.decode()
		if err != nil {
			return nil, fmt.Errorf("%s pass rule %d: %w", pass, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (fr fileRule) decode() (Rule, error) {
	kind, ok := kindNames[fr.Kind]
	if !ok {
		return Rule{}, fmt.Errorf("unknown kind %q", fr.Kind)
	}
	tk, ok := targetKeys[fr.Target]
	if !ok {
		return Rule{}, fmt.Errorf("unknown target %q", fr.Target)
	}

	t := Target{Kind: tk}
	switch tk {
	case TargetChar:
		if utf8.RuneCountInString(fr.Char) != 1 {
			return Rule{}, fmt.Errorf("char target needs exactly one character, got %q", fr.Char)
		}
		t.Char, _ = utf8.DecodeRuneInString(fr.Char)
	case TargetString:
		t.Str = fr.String
	}

	r := Rule{Kind: kind, Target: t}
	if kind != KindRemove {
		if fr.Mode != "" {
			return Rule{}, fmt.Errorf("mode %q only applies to remove rules", fr.Mode)
		}
		return r, nil
	}

	mk, ok := modeKeys[fr.Mode]
	if !ok {
		return Rule{}, fmt.Errorf("unknown mode %q", fr.Mode)
	}
	scope, ok := scopeKeys[fr.Scope]
	if !ok {
		return Rule{}, fmt.Errorf("unknown scope %q", fr.Scope)
	}
	r.Mode = RemoveMode{Kind: mk, Scope: scope}
	return r, nil
}

// Marshal renders rs in the rule file format. Class overrides are written
// out literally so the file round-trips through Parse.
func Marshal(rs RuleSet) ([]byte, error) {
	punct := PunctCharsNonRegex(rs)
	doc := fileDoc{
		Punct:          &punct,
		PrePass:        encodeRules(PrePassRules(rs)),
		ResolutionPass: encodeRules(rs.ResolutionPassRules()),
		PostPass:       encodeRules(PostPassRules(rs)),
	}
	if _, ok := rs.(SpecialProvider); ok {
		special := NonPunctSpecialCharsNonRegex(rs)
		doc.Special = &special
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeRules(list []Rule) []fileRule {
	if len(list) == 0 {
		return nil
	}
	out := make([]fileRule, 0, len(list))
	for _, r := range list {
		fr := fileRule{
			Kind:   keyOf(kindNames, r.Kind),
			Target: keyOf(targetKeys, r.Target.Kind),
		}
		switch r.Target.Kind {
		case TargetChar:
			fr.Char = string(r.Target.Char)
		case TargetString:
			fr.String = r.Target.Str
		}
		if r.Kind == KindRemove {
			fr.Mode = keyOf(modeKeys, r.Mode.Kind)
			if r.Mode.Scope == SingleWord {
				fr.Scope = "single_word"
			}
		}
		out = append(out, fr)
	}
	return out
}

func keyOf[K comparable](m map[string]K, v K) string {
	for k, candidate := range m {
		if candidate == v {
			return k
		}
	}
	return ""
}

// ResolutionPassRules implements RuleSet.
func (f *FileRuleSet) ResolutionPassRules() []Rule {
	return append([]Rule(nil), f.resolution...)
}

// PrePassRules implements PrePasser.
func (f *FileRuleSet) PrePassRules() []Rule {
	return append([]Rule(nil), f.pre...)
}

// PostPassRules implements PostPasser.
func (f *FileRuleSet) PostPassRules() []Rule {
	return append([]Rule(nil), f.post...)
}

// PunctCharsNonRegex implements PunctProvider.
func (f *FileRuleSet) PunctCharsNonRegex() string {
	if f.punct != nil {
		return *f.punct
	}
	return DefaultPunct
}

// PunctChars implements PunctPatternProvider.
func (f *FileRuleSet) PunctChars() string {
	return CharClass(f.PunctCharsNonRegex())
}

// NonPunctSpecialChars implements SpecialPatternProvider.
func (f *FileRuleSet) NonPunctSpecialChars() string {
	return CharClass(f.NonPunctSpecialCharsNonRegex())
}

// NonPunctSpecialCharsNonRegex implements SpecialProvider.
func (f *FileRuleSet) NonPunctSpecialCharsNonRegex() string {
	if f.special != nil {
		return *f.special
	}
	return DefaultNonPunctSpecial(f.PunctCharsNonRegex(), f.resolution)
}
