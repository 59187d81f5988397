package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/word-bounds/pkg/index"
	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

const (
	boxWidth = 62

	// ANSI color codes
	colorReset  = "\033[0m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

var line = strings.Repeat("─", boxWidth)

var benchInputs = []struct {
	name  string
	input string
}{
	{"camelCase", "getUserName"},
	{"acronym + digits", "HTTPResponse2XX"},
	{"snake_case", "max_retry_count"},
	{"mixed", "parseJSON_v2-final#tag 100%"},
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every engine on sample identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			iterations, _ := cmd.Flags().GetInt("iterations")
			warmup, _ := cmd.Flags().GetInt("warmup")
			noColor, _ := cmd.Flags().GetBool("no-color")

			b := &bencher{w: cmd.OutOrStdout(), iterations: iterations, warmup: warmup, color: !noColor}
			fmt.Fprintf(b.w, "Iterations: %d (warmup: %d)\n", iterations, warmup)
			fmt.Fprintln(b.w, "Reference: 1 second = 1,000,000,000 ns")
			fmt.Fprintln(b.w)

			for _, kind := range wordbounds.Kinds() {
				r, err := wordbounds.New(kind, env.rules, wordbounds.WithoutCache(), wordbounds.WithLogger(env.logger))
				if err != nil {
					return err
				}
				b.header(strings.ToUpper(kind.String()) + " ENGINE")
				for _, in := range benchInputs {
					err := b.run(in.name, func() error {
						_, err := r.Resolve(in.input)
						return err
					})
					if err != nil {
						return fmt.Errorf("%s engine: %w", kind, err)
					}
				}
				b.footer()
				fmt.Fprintln(b.w)
			}

			cached, err := env.resolver(wordbounds.WithCache(wordbounds.DefaultCacheSize))
			if err != nil {
				return err
			}
			sample := benchInputs[1].input
			norm := index.NewStemmingNormalizer()
			components := []struct {
				name string
				fn   func() error
			}{
				{"Resolve (cache hit)", func() error {
					_, err := cached.Resolve(sample)
					return err
				}},
				{"Resolve (cache miss)", func() error {
					cached.ClearCache()
					_, err := cached.Resolve(sample)
					return err
				}},
				{"Compile pattern", func() error {
					_, err := wordbounds.CompilePattern(env.rules)
					return err
				}},
				{"Normalize (stemming)", func() error {
					norm.Normalize("Connections")
					return nil
				}},
			}

			b.header("COMPONENT BREAKDOWN")
			if _, err := cached.Resolve(sample); err != nil {
				return err
			}
			for _, c := range components {
				if err := b.run(c.name, c.fn); err != nil {
					return err
				}
			}
			b.footer()
			return nil
		},
	}

	cmd.Flags().Int("iterations", 100000, "Timed iterations per benchmark")
	cmd.Flags().Int("warmup", 1000, "Untimed iterations before each benchmark")
	cmd.Flags().Bool("no-color", false, "Disable ANSI colors")
	return cmd
}

type bencher struct {
	w          io.Writer
	iterations int
	warmup     int
	color      bool
}

func (b *bencher) paint(code, s string) string {
	if !b.color {
		return s
	}
	return code + s + colorReset
}

// run times fn and prints one row. An error from the first call of fn is
// returned before anything is timed.
func (b *bencher) run(name string, fn func() error) error {
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for i := 0; i < b.warmup; i++ {
		_ = fn()
	}

	iterations := max(b.iterations, 1)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		_ = fn()
	}
	elapsed := time.Since(start)

	opsPerSec := float64(iterations) / elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(iterations)

	displayName := name
	if len(displayName) > 26 {
		displayName = displayName[:26]
	}

	// Pad the plain row, then colorize the same fields.
	plain := fmt.Sprintf("  %-26s %10.0f ops/sec %8.0f ns", displayName, opsPerSec, nsPerOp)
	padded := padLine(plain)

	colored := fmt.Sprintf("  %-26s %s ops/sec %s ns",
		displayName,
		b.paint(colorGreen, fmt.Sprintf("%10.0f", opsPerSec)),
		b.paint(colorYellow, fmt.Sprintf("%8.0f", nsPerOp)))
	if extraPad := len(padded) - len(plain); extraPad > 0 {
		colored += strings.Repeat(" ", extraPad)
	}

	fmt.Fprintln(b.w, b.paint(colorDim, "│")+colored+b.paint(colorDim, "│"))
	return nil
}

func (b *bencher) header(title string) {
	fmt.Fprintln(b.w, b.paint(colorDim, "┌"+line+"┐"))
	fmt.Fprintln(b.w, b.paint(colorDim, "│")+b.paint(colorCyan, padLine("  "+title))+b.paint(colorDim, "│"))
	fmt.Fprintln(b.w, b.paint(colorDim, "├"+line+"┤"))
}

func (b *bencher) footer() {
	fmt.Fprintln(b.w, b.paint(colorDim, "└"+line+"┘"))
}

func padLine(content string) string {
	if len(content) >= boxWidth {
		return content[:boxWidth]
	}
	return content + strings.Repeat(" ", boxWidth-len(content))
}
