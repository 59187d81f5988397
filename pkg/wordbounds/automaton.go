package wordbounds

import (
	"strings"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// AutomatonEngine resolves words in one left-to-right walk over the input
// runes. Each rune is deleted, kept, or turned into a boundary by folding the
// resolution rules at its position; the walk never backtracks.
type AutomatonEngine struct {
	table ruleTable
}

// NewAutomaton builds the automaton for the resolution pass of rs.
func NewAutomaton(rs rules.RuleSet) (*AutomatonEngine, error) {
	if err := rules.Validate(rs); err != nil {
		return nil, err
	}
	return &AutomatonEngine{
		table: compileRules(rs.ResolutionPassRules(), rules.Derive(rs)),
	}, nil
}

// Name implements Engine.
func (a *AutomatonEngine) Name() string { return Automaton.String() }

// Resolve implements Engine.
func (a *AutomatonEngine) Resolve(input string) ([]string, error) {
	in := []rune(input)
	words := make([]string, 0, len(in)/4+1)

	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}

	for i, c := range in {
		f := a.table.at(in, i)
		switch {
		case f.start && f.end:
			// Standalone: closes the current word and forms its own.
			flush()
			if !f.del {
				words = append(words, string(c))
			}
		case f.end:
			if !f.del {
				cur.WriteRune(c)
			}
			flush()
		case f.start:
			flush()
			if !f.del {
				cur.WriteRune(c)
			}
		default:
			if !f.del {
				cur.WriteRune(c)
			}
		}
	}
	flush()

	return finish(words), nil
}
