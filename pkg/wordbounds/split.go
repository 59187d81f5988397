package wordbounds

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
)

// CoarsePattern partitions input into maximal letter runs, maximal digit
// runs and single other characters.
const CoarsePattern = `\p{L}+|\d+|[\s\S]`

// RunType identifies the kind of a coarse run.
type RunType int

const (
	RunLetters RunType = iota
	RunDigits
	RunOther
)

func (t RunType) String() string {
	switch t {
	case RunLetters:
		return "letters"
	case RunDigits:
		return "digits"
	}
	return "other"
}

// Run is one coarse run. Start and End are rune offsets into the input.
type Run struct {
	Text  string
	Type  RunType
	Start int
	End   int
}

// SplitEngine resolves in two phases: a fixed pattern cuts the input into
// coarse runs, then the resolution rules decide per run whether it joins the
// open word, opens a new one, or closes it. Boundaries inside a run, such as
// case changes, become markers, and every word is finally exploded on its
// markers.
type SplitEngine struct {
	coarse compiledPattern
	table  ruleTable
}

// NewSplitEngine builds the split engine for the resolution pass of rs.
func NewSplitEngine(rs rules.RuleSet) (*SplitEngine, error) {
	return newSplitEngine(rs, discardLogger())
}

func newSplitEngine(rs rules.RuleSet, logger *slog.Logger) (*SplitEngine, error) {
	if err := rules.Validate(rs); err != nil {
		return nil, err
	}
	coarse, err := loadPattern(Split.String(), signature(rs), logger, func() (string, error) {
		return CoarsePattern, nil
	})
	if err != nil {
		return nil, err
	}
	return &SplitEngine{
		coarse: coarse,
		table:  compileRules(rs.ResolutionPassRules(), rules.Derive(rs)),
	}, nil
}

// Name implements Engine.
func (s *SplitEngine) Name() string { return Split.String() }

// Runs partitions input into its coarse runs.
func (s *SplitEngine) Runs(input string) ([]Run, error) {
	return s.runs([]rune(input))
}

func (s *SplitEngine) runs(in []rune) ([]Run, error) {
	var runs []Run
	m, err := s.coarse.re.FindRunesMatch(in)
	for ; err == nil && m != nil; m, err = s.coarse.re.FindNextMatch(m) {
		text := in[m.Index : m.Index+m.Length]
		t := getRunType(text[0])
		if err := checkRun(t, text); err != nil {
			return nil, err
		}
		runs = append(runs, Run{
			Text:  string(text),
			Type:  t,
			Start: m.Index,
			End:   m.Index + m.Length,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("partitioning %q: %w", string(in), err)
	}
	return runs, nil
}

// getRunType classifies a run by its first rune.
func getRunType(r rune) RunType {
	switch {
	case unicode.IsLetter(r):
		return RunLetters
	case unicode.IsDigit(r):
		return RunDigits
	}
	return RunOther
}

// checkRun verifies a run is homogeneous. The coarse pattern guarantees it,
// so a failure means the pattern and the classifier disagree.
func checkRun(t RunType, text []rune) error {
	for _, r := range text {
		ok := true
		switch t {
		case RunLetters:
			ok = unicode.IsLetter(r)
		case RunDigits:
			ok = unicode.IsDigit(r)
		case RunOther:
			ok = len(text) == 1
		}
		if !ok {
			return fmt.Errorf("%w: %s run %q", ErrMixedNumericToken, t, string(text))
		}
	}
	return nil
}

// Resolve implements Engine.
func (s *SplitEngine) Resolve(input string) ([]string, error) {
	in := []rune(input)
	runs, err := s.runs(in)
	if err != nil {
		return nil, err
	}

	// Each word is a list of parts separated by markers.
	var words [][]string
	open := false
	for _, run := range runs {
		parts, start, end := s.apply(in, run)
		if start {
			open = false
		}
		if open {
			w := words[len(words)-1]
			w[len(w)-1] += parts[0]
			words[len(words)-1] = append(w, parts[1:]...)
		} else {
			words = append(words, parts)
			open = true
		}
		if end {
			open = false
		}
	}

	var exploded []string
	for _, w := range words {
		exploded = append(exploded, w...)
	}
	return finish(exploded), nil
}

// apply runs the resolution rules over one run. It returns the kept text
// split at interior markers, and whether the run starts or ends a word.
// Deleted characters are dropped but their boundaries still count.
func (s *SplitEngine) apply(in []rune, run Run) (parts []string, start, end bool) {
	var cur strings.Builder
	prevEnd := false
	for i := run.Start; i < run.End; i++ {
		f := s.table.at(in, i)
		switch {
		case i == run.Start:
			start = f.start
		case f.start || prevEnd:
			parts = append(parts, cur.String())
			cur.Reset()
		}
		if !f.del {
			cur.WriteRune(in[i])
		}
		prevEnd = f.end
	}
	end = prevEnd
	return append(parts, cur.String()), start, end
}
