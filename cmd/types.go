package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/questions"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List question types and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, k := range questions.Builtin().Kinds() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s\n  %s\n", k.Name(), k.Explain())
				for _, opt := range k.Options() {
					flag := "--" + questions.FlagName(k.Name(), opt.Name)
					fmt.Fprintf(out, "  %-34s %s (default %v)\n", flag, opt.Help, opt.Default)
				}
			}
			return nil
		},
	}
}
