package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/mastery"
	"github.com/abhisek/mathquiz/internal/present"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/store"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [learner]",
		Short: "Show learning statistics",
		Long: fmt.Sprintf("Show sessions, accuracy and per-type mastery for a learner. "+
			"A type is mastered when at least %.0f%% of its last %d answers are correct. "+
			"Without a learner, list everyone with stored history.",
			mastery.Threshold*100, mastery.WindowSize),
		Args: cobra.MaximumNArgs(1),
		RunE: runStats,
	}
	cmd.Flags().Bool("plain", false, "Unstyled output")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	repo := backend.HistoryRepo()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		learners, err := repo.Learners(ctx)
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		if len(learners) == 0 {
			fmt.Fprintln(out, "No learners yet.")
			return nil
		}
		for _, l := range learners {
			fmt.Fprintln(out, l)
		}
		return nil
	}

	learner := args[0]
	if err := store.ValidateLearner(learner); err != nil {
		return err
	}
	h, err := repo.LoadHistory(ctx, learner)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	report := mastery.BuildReport(questions.Builtin().Names(), h)
	present.WriteReport(out, learner, report, !cfg.Plain && isTerminal(out))
	return nil
}
