package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleString(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{Remove(Punct, Middle(FullInput)), "Remove(PunctSpecialChar, Middle(FullInput))"},
		{Remove(Char(' '), All()), "Remove(Char(' '), All)"},
		{BoundStart(Char('#')), "BoundStart(Char('#'))"},
		{BoundEnd(Acronym), "BoundEnd(Acronym)"},
		{BoundStart(CaseChange), "BoundStart(CaseChangeNonAcronym)"},
		{Remove(Numerics, Ends(SingleWord)), "Remove(Numerics, Ends(SingleWord))"},
		{BoundEnd(Str("ab")), `BoundEnd(String("ab"))`},
	}

	for _, tt := range tests {
		if got := tt.rule.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRemoveModeApplies(t *testing.T) {
	const last = 4
	tests := []struct {
		mode RemoveMode
		want []bool
	}{
		{All(), []bool{true, true, true, true, true}},
		{Middle(FullInput), []bool{false, true, true, true, false}},
		{Ends(FullInput), []bool{true, false, false, false, true}},
		{NoRemoval(), []bool{false, false, false, false, false}},
		{Prepended(FullInput), []bool{false, false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := make([]bool, last+1)
			for i := range got {
				got[i] = tt.mode.Applies(i, last)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveModeSingleCharacter(t *testing.T) {
	// A one-character input is both first and last.
	assert.False(t, Middle(FullInput).Applies(0, 0))
	assert.True(t, Ends(FullInput).Applies(0, 0))
}

func TestContains(t *testing.T) {
	list := DefaultRules()
	assert.True(t, Contains(list, BoundStart(Char('#'))))
	assert.True(t, Contains(list, Remove(Punct, Middle(FullInput))))
	assert.False(t, Contains(list, Remove(Punct, All())))
	assert.False(t, Contains(list, BoundStart(Char('%'))))
}

func TestDefaultRulesFreshCopy(t *testing.T) {
	a := DefaultRules()
	a[0] = BoundEnd(Word)
	assert.Equal(t, Remove(Punct, Middle(FullInput)), DefaultRules()[0])
	assert.Len(t, Default{}.ResolutionPassRules(), 12)
}
