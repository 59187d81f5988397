// Package wordbounds splits identifier-like strings such as
// thisExampleHasIDELikeACRONYMS, snake_case or WordWithNumbers123 into
// ordered lowercase words.
//
// Three interchangeable engines implement the same rule contract: a single
// pass character automaton, a compiled lookaround pattern, and a coarse run
// splitter. A Resolver wraps one engine with the pre and post passes of a
// rule set and an optional result cache.
package wordbounds

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// Engine resolves one input into its words.
type Engine interface {
	Name() string
	Resolve(input string) ([]string, error)
}

// Kind selects an engine implementation.
type Kind int

const (
	Automaton Kind = iota
	Pattern
	Split
)

var kindNames = []string{"automaton", "pattern", "split"}

// aliases accepted by ParseKind besides the canonical names.
var kindAliases = map[string]Kind{
	"charwalk": Automaton,
	"regex":    Pattern,
	"fancy":    Pattern,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every engine kind.
func Kinds() []Kind {
	return []Kind{Automaton, Pattern, Split}
}

// ParseKind maps an engine name to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// NewEngine builds the engine of the given kind for rs. Only the resolution
// pass of rs is used; see Resolver for the full pipeline.
func NewEngine(kind Kind, rs rules.RuleSet) (Engine, error) {
	return newEngine(kind, rs, discardLogger())
}

func newEngine(kind Kind, rs rules.RuleSet, logger *slog.Logger) (Engine, error) {
	switch kind {
	case Automaton:
		return NewAutomaton(rs)
	case Pattern:
		return newPatternEngine(rs, logger)
	case Split:
		return newSplitEngine(rs, logger)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, kind)
}

// finish lowercases words and drops the empty and whitespace-only ones.
// A Caser is stateful, so each call gets its own.
func finish(words []string) []string {
	lower := cases.Lower(language.Und)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		out = append(out, lower.String(w))
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
