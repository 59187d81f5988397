package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/word-bounds/pkg/index"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and query a word index over identifiers",
		Long: `Resolve identifiers into words and store the word counts in an FST
index that supports exact, prefix and fuzzy lookup.

The index file comes from --index or index.path in the config file. Lookups
must use the same --stem setting the index was built with.`,
	}

	cmd.PersistentFlags().String("index", "", "Index file (default index.path from config)")
	cmd.PersistentFlags().Bool("stem", false, "Stem English words (default index.stem from config)")
	cmd.PersistentFlags().Int("limit", 20, "Maximum results for prefix and fuzzy (0 = all)")

	cmd.AddCommand(
		newIndexBuildCmd(),
		newIndexLookupCmd(),
		newIndexPrefixCmd(),
		newIndexFuzzyCmd(),
		newIndexStatsCmd(),
	)
	return cmd
}

// indexSettings resolves the index path and normalizer from flags and config.
func indexSettings(cmd *cobra.Command, env *runtimeEnv) (string, *index.Normalizer, error) {
	path := env.cfg.Index.Path
	if cmd.Flags().Changed("index") {
		path, _ = cmd.Flags().GetString("index")
	}
	if path == "" {
		return "", nil, errors.New("no index file: pass --index or set index.path in the config")
	}

	stem := env.cfg.Index.Stem
	if cmd.Flags().Changed("stem") {
		stem, _ = cmd.Flags().GetBool("stem")
	}
	if stem {
		return path, index.NewStemmingNormalizer(), nil
	}
	return path, index.NewNormalizer(), nil
}

func openIndex(cmd *cobra.Command) (*index.Index, error) {
	env, err := loadEnv(cmd)
	if err != nil {
		return nil, err
	}
	path, n, err := indexSettings(cmd, env)
	if err != nil {
		return nil, err
	}
	env.logger.Debug("opening index", "path", path)
	return index.Open(path, n)
}

func newIndexBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [file...]",
		Short: "Index the identifiers in files (or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			path, n, err := indexSettings(cmd, env)
			if err != nil {
				return err
			}
			r, err := env.resolver()
			if err != nil {
				return err
			}

			b := index.NewBuilder(r, n)
			add := func(name string, rd io.Reader) error {
				added, err := b.AddReader(rd)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				env.logger.Debug("indexed file", "file", name, "identifiers", added)
				return nil
			}

			if len(args) == 0 {
				if err := add("stdin", cmd.InOrStdin()); err != nil {
					return err
				}
			}
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				err = add(name, f)
				f.Close()
				if err != nil {
					return err
				}
			}

			if err := b.WriteFile(path); err != nil {
				return fmt.Errorf("writing index: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(map[string]any{
					"path":        path,
					"identifiers": b.Identifiers(),
					"terms":       b.Len(),
				})
			}
			fmt.Fprintf(out, "Indexed %d identifiers, %d terms -> %s\n", b.Identifiers(), b.Len(), path)
			return nil
		},
	}
}

func newIndexLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word...>",
		Short: "Print how often each word occurs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd)
			if err != nil {
				return err
			}
			defer ix.Close()

			entries := make([]index.Entry, 0, len(args))
			for _, word := range args {
				entries = append(entries, index.Entry{Term: word, Count: ix.Count(word)})
			}
			return printEntries(cmd, entries)
		},
	}
}

func newIndexPrefixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefix <prefix>",
		Short: "List indexed words starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd)
			if err != nil {
				return err
			}
			defer ix.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			entries, err := ix.Prefix(args[0], limit)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		},
	}
}

func newIndexFuzzyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzzy <term>",
		Short: "List indexed words within an edit distance of a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd)
			if err != nil {
				return err
			}
			defer ix.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			distance, _ := cmd.Flags().GetUint8("distance")
			entries, err := ix.Fuzzy(args[0], distance, limit)
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		},
	}
	cmd.Flags().Uint8("distance", 1, fmt.Sprintf("Maximum edit distance (at most %d)", index.MaxEdits))
	return cmd
}

func newIndexStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := openIndex(cmd)
			if err != nil {
				return err
			}
			defer ix.Close()

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(map[string]int{"terms": ix.Len()})
			}
			fmt.Fprintf(out, "Terms: %d\n", ix.Len())
			return nil
		},
	}
}

func printEntries(cmd *cobra.Command, entries []index.Entry) error {
	out := cmd.OutOrStdout()
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if entries == nil {
			entries = []index.Entry{}
		}
		return json.NewEncoder(out).Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matches")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%-30s %d\n", e.Term, e.Count)
	}
	return nil
}
