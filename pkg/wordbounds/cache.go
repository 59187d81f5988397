package wordbounds

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// compiledPattern is one populated entry of the pattern cache.
type compiledPattern struct {
	re      *regexp2.Regexp
	pattern string
}

type patternKey struct {
	engine    string
	signature string
}

// patterns memoizes compiled patterns per engine and rule set for the life
// of the process. Each entry is populated exactly once, even when several
// goroutines resolve with a new rule set at the same time.
var patterns sync.Map // patternKey -> func() (compiledPattern, error)

func loadPattern(engine, sig string, logger *slog.Logger, build func() (string, error)) (compiledPattern, error) {
	key := patternKey{engine: engine, signature: sig}
	if v, ok := patterns.Load(key); ok {
		return v.(func() (compiledPattern, error))()
	}

	v, _ := patterns.LoadOrStore(key, sync.OnceValues(func() (compiledPattern, error) {
		src, err := build()
		if err != nil {
			return compiledPattern{}, err
		}
		re, err := regexp2.Compile(src, regexp2.None)
		if err != nil {
			return compiledPattern{}, &PatternError{Engine: engine, Pattern: src, Err: err}
		}
		logger.Debug("compiled pattern", "engine", engine, "length", len(src))
		return compiledPattern{re: re, pattern: src}, nil
	}))
	return v.(func() (compiledPattern, error))()
}

// signature identifies a rule set by everything that shapes its patterns:
// the resolution rules and the derived classes. Two rule sets with equal
// signatures compile to the same pattern.
func signature(rs rules.RuleSet) string {
	cls := rules.Derive(rs)

	var b strings.Builder
	for _, r := range rs.ResolutionPassRules() {
		b.WriteString(r.String())
		b.WriteByte(';')
	}
	b.WriteString(cls.Punct)
	b.WriteByte(0)
	b.WriteString(cls.NonPunctSpecial)
	return b.String()
}

// cachedPatterns reports how many patterns the process has memoized.
func cachedPatterns() int {
	n := 0
	patterns.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
