package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/store"
)

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset <learner>",
		Short: "Delete a learner's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			learner := args[0]
			if err := store.ValidateLearner(learner); err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete all history for %s? [y/N] ", learner)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			backend, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.HistoryRepo().Reset(cmd.Context(), learner); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History for %s deleted.\n", learner)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}
