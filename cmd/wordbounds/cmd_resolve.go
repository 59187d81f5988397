package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/word-bounds/internal/logging"
	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

type resolveResult struct {
	Input string   `json:"input"`
	Words []string `json:"words"`
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [identifier...]",
		Short: "Split identifiers into words",
		Long: `Resolve each identifier argument into its lowercase words and print
them as a JSON array, one line per identifier.

With no arguments, identifiers are read from stdin one per line. When stdin
is a terminal an interactive prompt is shown.`,
		Example: `  wordbounds resolve HTTPResponse2XX
  wordbounds resolve --engine pattern getUserID max_value
  cat identifiers.txt | wordbounds resolve --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			r, err := env.resolver()
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()

			emit := func(input string) error {
				words, err := r.Resolve(input)
				if err != nil {
					return err
				}
				env.logger.Log(cmd.Context(), logging.LevelTrace, "resolved",
					"input", input, "words", words)
				return printWords(out, input, words, jsonOut)
			}

			if len(args) > 0 {
				for _, arg := range args {
					if err := emit(arg); err != nil {
						return err
					}
				}
				return nil
			}

			in := cmd.InOrStdin()
			if isTerminal(in) {
				return interactive(in, out, r, emit)
			}
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if err := emit(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}

func printWords(w io.Writer, input string, words []string, jsonOut bool) error {
	var v any = words
	if jsonOut {
		v = resolveResult{Input: input, Words: words}
	}
	output, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func interactive(in io.Reader, out io.Writer, r *wordbounds.Resolver, emit func(string) error) error {
	fmt.Fprintln(out, "wordbounds (interactive mode)")
	fmt.Fprintf(out, "Engine: %s\n", r.Kind())
	fmt.Fprintln(out, "Type an identifier, press Enter to resolve. Ctrl+D to exit.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fmt.Fprint(out, "  ")
		if err := emit(text); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		fmt.Fprintln(out)
	}
	return scanner.Err()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
