package wordbounds

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// resolutionOnly is a rule set with nothing but a resolution pass.
type resolutionOnly []rules.Rule

func (r resolutionOnly) ResolutionPassRules() []rules.Rule { return r }

// corpusAlphabet mixes every character class the default rules care about.
const corpusAlphabet = "abcxyzABCXYZ0123456789-_.,:;?! \t#%*$@/+()[]{}\\^`~'\"éÉßüÜ٣"

// corpus returns deterministic pseudo-random identifiers plus a few shapes
// random strings rarely hit.
func corpus(n int) []string {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune(corpusAlphabet)
	out := []string{"", "ABCdefGHIjkl", "a__b--c..d", "123abc456DEF789", "##%%**", "  x  "}
	for i := 0; i < n; i++ {
		size := rng.Intn(16)
		var b strings.Builder
		for j := 0; j < size; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		out = append(out, b.String())
	}
	return out
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"automaton", Automaton},
		{"Pattern", Pattern},
		{" split ", Split},
		{"charwalk", Automaton},
		{"regex", Pattern},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseKind("neural")
	assert.ErrorIs(t, err, ErrUnknownEngine)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestEnginesAgree(t *testing.T) {
	engines := make([]Engine, 0, 3)
	for _, kind := range Kinds() {
		e, err := NewEngine(kind, rules.Default{})
		require.NoError(t, err)
		engines = append(engines, e)
	}

	for _, input := range corpus(3000) {
		want, err := engines[0].Resolve(input)
		require.NoError(t, err)
		for _, e := range engines[1:] {
			got, err := e.Resolve(input)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s disagrees with %s on %q (-%s +%s):\n%s",
					e.Name(), engines[0].Name(), input, engines[0].Name(), e.Name(), diff)
			}
		}
	}
}

func TestDefaultProperties(t *testing.T) {
	for kind, r := range newResolvers(t, WithoutCache()) {
		t.Run(kind.String(), func(t *testing.T) {
			for _, input := range corpus(1000) {
				words, err := r.Resolve(input)
				require.NoError(t, err)

				for _, w := range words {
					assert.NotEmpty(t, strings.TrimSpace(w), "blank word from %q", input)
					assert.Equal(t, strings.ToLower(w), w, "word from %q", input)
				}
				for _, run := range digitRuns(input) {
					assert.Contains(t, words, run, "digit run of %q split", input)
				}
			}
		})
	}
}

// digitRuns returns the maximal digit runs of s.
func digitRuns(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
}

func TestDeterministicAcrossCacheState(t *testing.T) {
	inputs := corpus(200)
	for _, kind := range Kinds() {
		cold, err := New(kind, rules.Default{}, WithoutCache())
		require.NoError(t, err)
		warm, err := New(kind, rules.Default{}, WithCache(64))
		require.NoError(t, err)

		for round := 0; round < 3; round++ {
			if round == 2 {
				warm.ClearCache()
			}
			for _, input := range inputs {
				want, err := cold.Resolve(input)
				require.NoError(t, err)
				got, err := warm.Resolve(input)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("%s round %d %q:\n%s", kind, round, input, diff)
				}
			}
		}
	}
}

func TestCustomRuleSets(t *testing.T) {
	sets := map[string]resolutionOnly{
		"glue": {
			rules.Remove(rules.Char('_'), rules.All()),
			rules.BoundEnd(rules.Acronym),
			rules.BoundEnd(rules.CaseChange),
		},
		"strip": {
			rules.BoundStart(rules.CaseChange),
			rules.Remove(rules.Numerics, rules.Ends(rules.FullInput)),
			rules.BoundStart(rules.Punct),
			rules.BoundEnd(rules.Punct),
			rules.Remove(rules.Punct, rules.All()),
		},
		"attach": {
			rules.Remove(rules.NonPunctSpecial, rules.Middle(rules.FullInput)),
			rules.BoundStart(rules.NonPunctSpecial),
			rules.BoundStart(rules.Numerics),
			rules.BoundEnd(rules.Numerics),
			rules.BoundEnd(rules.Char('-')),
		},
	}

	tests := []struct {
		set   string
		input string
		want  []string
	}{
		{"glue", "HTMLParser_v2", []string{"html", "p", "arserv2"}},
		{"glue", "someHTMLThing", []string{"someh", "tml", "t", "hing"}},
		{"glue", "1st_place2", []string{"1stplace2"}},
		{"glue", "foo-Bar", []string{"foo-bar"}},
		{"strip", "HTMLParser_v2", []string{"html", "parser", "v"}},
		{"strip", "1st_place2", []string{"st", "place"}},
		{"strip", "9lives", []string{"lives"}},
		{"strip", "ab12cd34", []string{"ab12cd3"}},
		{"strip", "x*y*z", []string{"x*y*z"}},
		{"attach", "HTMLParser_v2", []string{"htmlparser_v", "2"}},
		{"attach", "1st_place2", []string{"1", "st_place", "2"}},
		{"attach", "a-b-c", []string{"a-", "b-", "c"}},
		{"attach", "x*y*z", []string{"x", "y", "z"}},
		{"attach", "tail*", []string{"tail", "*"}},
		{"attach", "*lead", []string{"*lead"}},
	}

	for _, tt := range tests {
		for _, kind := range []Kind{Automaton, Split} {
			e, err := NewEngine(kind, sets[tt.set])
			require.NoError(t, err)
			got, err := e.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s %s %q", kind, tt.set, tt.input)
		}
	}
}

func TestEmptyResolutionPassRejected(t *testing.T) {
	for _, kind := range Kinds() {
		_, err := NewEngine(kind, resolutionOnly{})
		assert.ErrorIs(t, err, rules.ErrEmptyResolutionPass, "%s", kind)
	}

	pattern, err := CompilePattern(resolutionOnly{})
	assert.ErrorIs(t, err, rules.ErrEmptyResolutionPass)
	assert.Empty(t, pattern)
}

// Matched text always cuts in the pattern engine, while the automaton and
// split engines glue the neighbours of a removed digit because Numerics
// bounds only match at the edges of a digit run.
func TestPatternEngineCutsAtRemovedDigits(t *testing.T) {
	rs := resolutionOnly{
		rules.Remove(rules.Numerics, rules.Middle(rules.FullInput)),
		rules.BoundStart(rules.Numerics),
	}

	want := map[Kind][]string{
		Automaton: {"12"},
		Split:     {"12"},
		Pattern:   {"1", "2"},
	}
	for kind, words := range want {
		e, err := NewEngine(kind, rs)
		require.NoError(t, err)
		got, err := e.Resolve("112")
		require.NoError(t, err)
		assert.Equal(t, words, got, "%s", kind)
	}
}

func TestCustomRuleSetsAutomatonAndSplitAgree(t *testing.T) {
	sets := []resolutionOnly{
		{rules.BoundStart(rules.CaseChange)},
		{rules.Remove(rules.Char(' '), rules.All()), rules.BoundEnd(rules.CaseChange), rules.BoundStart(rules.Char('x'))},
		{rules.Remove(rules.Numerics, rules.Middle(rules.FullInput)), rules.BoundEnd(rules.Numerics), rules.BoundEnd(rules.Char('a'))},
		{rules.Remove(rules.Punct, rules.Ends(rules.FullInput)), rules.BoundStart(rules.Punct), rules.BoundEnd(rules.NonPunctSpecial)},
	}

	for i, rs := range sets {
		auto, err := NewAutomaton(rs)
		require.NoError(t, err)
		split, err := NewSplitEngine(rs)
		require.NoError(t, err)

		for _, input := range corpus(500) {
			want, err := auto.Resolve(input)
			require.NoError(t, err)
			got, err := split.Resolve(input)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("set %d %q:\n%s", i, input, diff)
			}
		}
	}
}

func TestCompilePatternGolden(t *testing.T) {
	pattern, err := CompilePattern(rules.Default{})
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "default_pattern", []byte(pattern))
}

func TestCompilePatternBranches(t *testing.T) {
	tests := []struct {
		name string
		rs   resolutionOnly
		want string
	}{
		{"remove all", resolutionOnly{rules.Remove(rules.Char('-'), rules.All())}, `[\-]`},
		{"remove ends", resolutionOnly{rules.Remove(rules.Numerics, rules.Ends(rules.FullInput))}, `\A\d|\d\z`},
		{"char bounds", resolutionOnly{rules.BoundStart(rules.Char('.')), rules.BoundEnd(rules.Char(']'))}, `(?=[.])|(?<=[\]])`},
		{"case end", resolutionOnly{rules.BoundEnd(rules.CaseChange)}, `(?<=\p{Ll}\p{Lu})|(?<=\p{Lu}\p{Lu})(?=\p{Ll})`},
		{"duplicate", resolutionOnly{rules.BoundStart(rules.Numerics), rules.BoundStart(rules.Numerics)}, `(?<!\d)(?=\d)`},
		{
			"punct removed everywhere",
			resolutionOnly{rules.Remove(rules.Punct, rules.All()), rules.BoundStart(rules.Punct), rules.BoundEnd(rules.Punct)},
			`[\-_.,:;?! \t\n\r]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompilePattern(tt.rs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPatternEngineExposesPattern(t *testing.T) {
	e, err := NewPatternEngine(rules.Default{})
	require.NoError(t, err)
	want, err := CompilePattern(rules.Default{})
	require.NoError(t, err)
	assert.Equal(t, want, e.Pattern())
}

func TestPatternCacheConcurrent(t *testing.T) {
	const workers = 16
	before := cachedPatterns()

	// A rule set no other test uses, so the first goroutine populates it.
	rs := resolutionOnly{rules.BoundStart(rules.Char('q')), rules.BoundEnd(rules.Char('z'))}

	var wg sync.WaitGroup
	results := make([][]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := Kinds()[i%3]
			e, err := NewEngine(kind, rs)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = e.Resolve("abqcdzef")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"ab", "qcdz", "ef"}, results[i])
	}
	// One entry each for the pattern and split engines.
	assert.Equal(t, before+2, cachedPatterns())
}

func TestSplitRuns(t *testing.T) {
	e, err := NewSplitEngine(rules.Default{})
	require.NoError(t, err)

	runs, err := e.Runs("ab12_Ü")
	require.NoError(t, err)
	assert.Equal(t, []Run{
		{Text: "ab", Type: RunLetters, Start: 0, End: 2},
		{Text: "12", Type: RunDigits, Start: 2, End: 4},
		{Text: "_", Type: RunOther, Start: 4, End: 5},
		{Text: "Ü", Type: RunLetters, Start: 5, End: 6},
	}, runs)
}

func TestSplitApply(t *testing.T) {
	e, err := NewSplitEngine(rules.Default{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     string
		run       int
		wantParts []string
		wantStart bool
		wantEnd   bool
	}{
		{"interior case changes", "getHTTPResponse", 0, []string{"get", "HTTP", "Response"}, false, false},
		{"removed punct keeps both bounds", "a_b", 1, []string{""}, true, true},
		{"digit run", "ab12", 1, []string{"12"}, true, true},
		{"hash opens only", "x#tag", 1, []string{"#"}, true, false},
		{"letters after hash", "x#tag", 2, []string{"tag"}, false, false},
		{"trailing acronym", "parseXML", 0, []string{"parse", "XML"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []rune(tt.input)
			runs, err := e.runs(in)
			require.NoError(t, err)
			require.Greater(t, len(runs), tt.run)

			parts, start, end := e.apply(in, runs[tt.run])
			assert.Equal(t, tt.wantParts, parts)
			assert.Equal(t, tt.wantStart, start, "start")
			assert.Equal(t, tt.wantEnd, end, "end")
		})
	}
}

func TestSplitResolveMergesRuns(t *testing.T) {
	caseOnly, err := NewSplitEngine(resolutionOnly{rules.BoundStart(rules.CaseChange)})
	require.NoError(t, err)
	defaults, err := NewSplitEngine(rules.Default{})
	require.NoError(t, err)

	tests := []struct {
		name  string
		e     *SplitEngine
		input string
		want  []string
	}{
		{"runs without bounds join", caseOnly, "ab12cd", []string{"ab12cd"}},
		{"marker inside a joined run", caseOnly, "ab12cdEf", []string{"ab12cd", "ef"}},
		{"other run joins open word", caseOnly, "a_bC", []string{"a_b", "c"}},
		{"hash attaches forward", defaults, "hashtag#rust", []string{"hashtag", "#rust"}},
		{"percent attaches backward", defaults, "load%done", []string{"load%", "done"}},
		{"digits split letter runs", defaults, "utf8Decoder", []string{"utf", "8", "decoder"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.e.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRunRejectsMixedRuns(t *testing.T) {
	err := checkRun(RunDigits, []rune("12a"))
	assert.ErrorIs(t, err, ErrMixedNumericToken)

	err = checkRun(RunLetters, []rune("ab3"))
	assert.ErrorIs(t, err, ErrMixedNumericToken)

	assert.NoError(t, checkRun(RunOther, []rune("_")))
}

func TestPatternError(t *testing.T) {
	cause := errors.New("bad group")
	err := error(&PatternError{Engine: "pattern", Pattern: "(", Err: cause})

	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.ErrorIs(t, err, cause)

	var pe *PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "(", pe.Pattern)
	assert.Contains(t, err.Error(), "bad group")
}

func TestLoadPatternReportsInvalidPattern(t *testing.T) {
	_, err := loadPattern("test", "unbalanced", discardLogger(), func() (string, error) {
		return "(abc", nil
	})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	var pe *PatternError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "(abc", pe.Pattern)
}
