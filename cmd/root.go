package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/config"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/store"
)

// NewRootCmd builds the mathquiz command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mathquiz",
		Short: "Adaptive arithmetic practice",
		Long: "mathquiz asks arithmetic questions in the terminal and favours the " +
			"question types a learner has not mastered yet.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/mathquiz/config.yaml)")
	pf.String("data-dir", "", "Directory for learner data (overrides MATHQUIZ_DATA)")
	pf.String("backend", string(store.KindYAML), "Storage backend: yaml or sqlite")
	pf.BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newRunCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newTypesCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newLLMCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig layers flags, environment, config file and defaults. Kind
// option flags are bound when reg is not nil.
func loadConfig(cmd *cobra.Command, reg *questions.Registry) (*config.Config, error) {
	l := config.NewLoader()
	if err := l.BindFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if reg != nil {
		if err := l.BindKindFlags(cmd.Flags(), reg); err != nil {
			return nil, err
		}
	}

	file, _ := cmd.Flags().GetString("config")
	cfg, err := l.Load(file)
	if err != nil {
		return nil, err
	}
	setupLogging(cmd.ErrOrStderr(), cfg.Verbose)
	return cfg, nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func openStore(cfg *config.Config) (store.Backend, error) {
	b, err := store.OpenBackend(cfg.StoreKind(), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	slog.Debug("store opened", "backend", cfg.Backend, "dir", cfg.DataDir)
	return b, nil
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
