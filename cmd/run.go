package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/config"
	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/present"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/runner"
	"github.com/abhisek/mathquiz/internal/sampler"
	"github.com/abhisek/mathquiz/internal/tutor"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <learner>",
		Short: "Start a quiz session",
		Long: "Start a quiz session. Questions left unanswered last time are asked " +
			"first. Every question type option can be set with --<type>-<option>.",
		Args: cobra.ExactArgs(1),
		RunE: runQuiz,
	}

	f := cmd.Flags()
	f.IntP("num-questions", "n", 10, "Number of questions to ask")
	f.StringSliceP("include", "i", nil, "Only ask these question types (see `mathquiz types`)")
	f.Bool("adaptive", false, "Add two extra questions after every wrong answer")
	f.Bool("speak", false, "Read feedback aloud with the system speech command")
	f.Bool("plain", false, "Plain line-based input and output")
	f.Bool("tutor", false, "Explain wrong answers with the configured LLM provider")
	f.Uint64("seed", 0, "Random seed for reproducible sessions (0 picks one)")
	config.AddKindFlags(f, questions.Builtin())
	return cmd
}

func runQuiz(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	learner := args[0]

	reg := questions.Builtin()
	cfg, err := loadConfig(cmd, reg)
	if err != nil {
		return err
	}
	if err := cfg.CheckKinds(reg); err != nil {
		return err
	}
	if len(cfg.Include) > 0 {
		if reg, err = reg.Filter(cfg.Include); err != nil {
			return err
		}
	}

	backend, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	s := sampler.New()
	if cfg.Seed != 0 {
		s = sampler.NewSeeded(cfg.Seed)
	}

	warn := cmd.ErrOrStderr()
	popts := []present.Option{present.WithNames(s)}
	if cfg.Speak {
		sp, err := present.DetectSpeaker()
		if err != nil {
			fmt.Fprintln(warn, "warning:", err)
		} else {
			popts = append(popts, present.WithSpeaker(sp))
		}
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	var console *present.Console
	if cfg.Plain || !isTerminal(in) || !isTerminal(out) {
		console = present.NewPlain(in, out, popts...)
	} else {
		console = present.NewInteractive(in, out, popts...)
	}

	ropts := []runner.Option{runner.WithWarnings(warn)}
	if cfg.Tutor {
		if !cfg.LLM.Enabled() {
			fmt.Fprintln(warn, "warning: tutor disabled: no LLM provider configured")
		} else {
			provider, err := llm.NewProvider(ctx, cfg.LLM, backend.EventRepo())
			if err != nil {
				fmt.Fprintln(warn, "warning: tutor disabled:", err)
			} else {
				ropts = append(ropts, runner.WithTutor(tutor.New(provider, tutor.DefaultConfig())))
			}
		}
	}

	r := runner.New(backend.HistoryRepo(), reg, s, console, ropts...)
	_, err = r.Run(ctx, learner, runner.Options{
		NumQuestions: cfg.NumQuestions,
		Adaptive:     cfg.Adaptive,
		Settings:     cfg.Settings(),
	})
	return err
}
