package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerem-kaynak/word-bounds/pkg/rules"
	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Print the boundary pattern compiled from the rules",
		Long: `Print the single regular expression the pattern engine matches with.
With --engine split the coarse run pattern is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			kind := env.kind
			var pattern string
			switch kind {
			case wordbounds.Split:
				if err := rules.Validate(env.rules); err != nil {
					return err
				}
				pattern = wordbounds.CoarsePattern
			default:
				kind = wordbounds.Pattern
				pattern, err = wordbounds.CompilePattern(env.rules)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(map[string]string{
					"engine":  kind.String(),
					"pattern": pattern,
				})
			}
			fmt.Fprintln(out, pattern)
			return nil
		},
	}
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule set as YAML",
		Long: `Print the active rule set in the rule file format. The output can be
edited and passed back with --rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			if err := rules.Validate(env.rules); err != nil {
				return err
			}
			data, err := rules.Marshal(env.rules)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
