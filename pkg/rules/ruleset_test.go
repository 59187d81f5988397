package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type onlyResolution []Rule

func (o onlyResolution) ResolutionPassRules() []Rule { return o }

type customPunct struct {
	onlyResolution
	punct string
}

func (c customPunct) PunctCharsNonRegex() string { return c.punct }

func TestDefaultClasses(t *testing.T) {
	rs := Default{}

	assert.Equal(t, DefaultPunct, PunctCharsNonRegex(rs))
	assert.Equal(t, `[\-_.,:;?! \t\n\r]`, PunctChars(rs))
	assert.Equal(t, "\"$&'()*+/<=>@[\\]^`{|}~", NonPunctSpecialCharsNonRegex(rs))
	assert.Equal(t, "[\"$&'()*+/<=>@\\[\\\\\\]\\^`{|}~]", NonPunctSpecialChars(rs))
	assert.Nil(t, PrePassRules(rs))
	assert.Nil(t, PostPassRules(rs))
}

func TestNonPunctSpecialExcludesCharTargets(t *testing.T) {
	rs := onlyResolution{BoundStart(Char('*')), Remove(Char('@'), All())}
	special := NonPunctSpecialCharsNonRegex(rs)

	assert.NotContains(t, special, "*")
	assert.NotContains(t, special, "@")
	assert.Contains(t, special, "#")
	assert.Contains(t, special, "%")
}

func TestClassesDisjoint(t *testing.T) {
	sets := []RuleSet{
		Default{},
		onlyResolution{BoundStart(CaseChange)},
		customPunct{punct: "_"},
		customPunct{punct: "#%*"},
	}

	for _, rs := range sets {
		punct := PunctCharsNonRegex(rs)
		for _, c := range NonPunctSpecialCharsNonRegex(rs) {
			if strings.ContainsRune(punct, c) {
				t.Errorf("%q is in both classes of %T", c, rs)
			}
		}
	}
}

func TestSpecialFollowsPunctOverride(t *testing.T) {
	rs := customPunct{punct: "_"}

	assert.Equal(t, "[_]", PunctChars(rs))
	special := NonPunctSpecialCharsNonRegex(rs)
	assert.Contains(t, special, "-")
	assert.Contains(t, special, ".")
	assert.NotContains(t, special, "_")
}

func TestCharClass(t *testing.T) {
	tests := []struct {
		chars string
		want  string
	}{
		{"", `[^\s\S]`},
		{"abc", "[abc]"},
		{"-]", `[\-\]]`},
		{`\^[`, `[\\\^\[]`},
		{"\t\n\r\f\v", `[\t\n\r\f\v]`},
		{"é#", "[é#]"},
	}

	for _, tt := range tests {
		if got := CharClass(tt.chars); got != tt.want {
			t.Errorf("CharClass(%q) = %q, want %q", tt.chars, got, tt.want)
		}
	}
}

func TestDeriveMembership(t *testing.T) {
	c := Derive(Default{})

	for _, r := range "-_.,:;?! \t\n\r" {
		assert.True(t, c.IsPunct(r), "IsPunct(%q)", r)
		assert.False(t, c.IsNonPunctSpecial(r), "IsNonPunctSpecial(%q)", r)
	}
	for _, r := range "*+/@~" {
		assert.True(t, c.IsNonPunctSpecial(r), "IsNonPunctSpecial(%q)", r)
	}
	for _, r := range "#%aZ9" {
		assert.False(t, c.IsPunct(r), "IsPunct(%q)", r)
		assert.False(t, c.IsNonPunctSpecial(r), "IsNonPunctSpecial(%q)", r)
	}
}
