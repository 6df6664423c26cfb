// Package config resolves mathquiz settings from flags, MATHQUIZ_*
// environment variables, an optional YAML config file, and defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/quiz"
	"github.com/abhisek/mathquiz/internal/store"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "MATHQUIZ"

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything a quiz run needs.
type Config struct {
	DataDir      string   `mapstructure:"data_dir"`
	Backend      string   `mapstructure:"backend" validate:"oneof=yaml sqlite"`
	NumQuestions int      `mapstructure:"num_questions" validate:"gte=1,lte=1000"`
	Include      []string `mapstructure:"include" validate:"dive,required"`
	Adaptive     bool     `mapstructure:"adaptive"`
	Speak        bool     `mapstructure:"speak"`
	Plain        bool     `mapstructure:"plain"`
	Tutor        bool     `mapstructure:"tutor"`
	Seed         uint64   `mapstructure:"seed"`
	Verbose      bool     `mapstructure:"verbose"`

	// Questions holds per-kind option overrides keyed kind → option → value.
	Questions map[string]map[string]any `mapstructure:"questions"`

	LLM llm.Config `mapstructure:"llm"`
}

// Settings returns the per-kind option overrides for quiz.New.
func (c *Config) Settings() quiz.Settings {
	s := quiz.Settings{}
	for kind, opts := range c.Questions {
		for name, v := range opts {
			s.Set(kind, name, v)
		}
	}
	return s
}

// StoreKind returns the configured backend.
func (c *Config) StoreKind() store.Kind {
	return store.Kind(c.Backend)
}

// Loader layers configuration sources on a viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with defaults and environment lookup set up.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault("backend", string(store.KindYAML))
	v.SetDefault("num_questions", 10)
	v.SetDefault("include", []string{})
	v.SetDefault("adaptive", false)
	v.SetDefault("speak", false)
	v.SetDefault("plain", false)
	v.SetDefault("tutor", false)
	v.SetDefault("seed", uint64(0))
	v.SetDefault("verbose", false)
	v.SetDefault("data_dir", "")

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	for name, pc := range map[string]llm.ProviderConfig{
		llm.ProviderAnthropic:  d.Anthropic,
		llm.ProviderOpenAI:     d.OpenAI,
		llm.ProviderGemini:     d.Gemini,
		llm.ProviderOpenRouter: d.OpenRouter,
	} {
		v.SetDefault("llm."+name+".api_key", pc.APIKey)
		v.SetDefault("llm."+name+".model", pc.Model)
		v.SetDefault("llm."+name+".base_url", pc.BaseURL)
	}
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("llm.timeout", d.Timeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"data-dir":      "data_dir",
	"backend":       "backend",
	"num-questions": "num_questions",
	"include":       "include",
	"adaptive":      "adaptive",
	"speak":         "speak",
	"plain":         "plain",
	"tutor":         "tutor",
	"seed":          "seed",
	"verbose":       "verbose",
}

// BindFlags binds every known flag present in fs.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// AddKindFlags registers --<kind>-<option> for every option of every kind
// in reg. The option part may also be spelled as in the config file, so
// --addition-max_val is the same flag as --addition-max-val.
func AddKindFlags(fs *pflag.FlagSet, reg *questions.Registry) {
	fs.SetNormalizeFunc(dashedFlagName)
	for _, k := range reg.Kinds() {
		for _, opt := range k.Options() {
			name := questions.FlagName(k.Name(), opt.Name)
			switch opt.Type {
			case questions.OptionInt:
				fs.Int(name, opt.Default.(int), opt.Help)
			default:
				fs.String(name, fmt.Sprint(opt.Default), opt.Help)
			}
		}
	}
}

func dashedFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// BindKindFlags binds the flags added by AddKindFlags to questions.<kind>.<option>.
func (l *Loader) BindKindFlags(fs *pflag.FlagSet, reg *questions.Registry) error {
	for _, k := range reg.Kinds() {
		for _, opt := range k.Options() {
			name := questions.FlagName(k.Name(), opt.Name)
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := l.v.BindPFlag(optionKey(k.Name(), opt.Name), f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	return nil
}

func optionKey(kind, option string) string {
	return "questions." + kind + "." + option
}

// Load reads file (or the default config file when file is empty and it
// exists), then decodes and validates the merged configuration. An LLM
// provider is discovered from standard API key variables when the tutor
// is on and none is configured.
func (l *Loader) Load(file string) (*Config, error) {
	if file == "" {
		file = defaultConfigFile()
		if _, err := os.Stat(file); err != nil {
			file = ""
		}
	}
	if file != "" {
		l.v.SetConfigFile(file)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.LLM.ApplyEnv()
	if cfg.Tutor && !cfg.LLM.Enabled() {
		cfg.LLM.Discover()
	}

	if cfg.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks struct constraints and the LLM provider settings.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// CheckKinds reports option overrides for kinds reg does not know.
func (c *Config) CheckKinds(reg *questions.Registry) error {
	for kind := range c.Questions {
		if _, ok := reg.Get(kind); !ok {
			return fmt.Errorf("%w: questions.%s: %w", ErrInvalidConfig, kind, questions.ErrUnknownKind)
		}
	}
	return nil
}

// defaultConfigFile returns $XDG_CONFIG_HOME/mathquiz/config.yaml, falling
// back to ~/.config/mathquiz/config.yaml.
func defaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathquiz", "config.yaml")
}
