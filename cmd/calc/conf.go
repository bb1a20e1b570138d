package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// envPrefix is the prefix of environment variables that set configuration
// keys, e.g. CALC_PLACES=2.
const envPrefix = "CALC_"

// config is the merged configuration of a run.
type config struct {
	Interactive bool     `json:"interactive"`
	In          string   `json:"in"`
	Fmt         string   `json:"fmt"`
	Places      int      `json:"places"`
	Echo        bool     `json:"echo"`
	History     bool     `json:"history"`
	MaxDepth    int      `json:"maxdepth"`
	LogLevel    string   `json:"loglevel"`
	Given       []string `json:"given"`
	// HistorySet is whether history was set by a flag or the environment
	// rather than left at its default.
	HistorySet bool `json:"-"`
}

// loadConfig merges configuration from the environment and flags. Flags that
// are set explicitly override the environment, which overrides flag
// defaults.
func loadConfig(flags *pflag.FlagSet) (*config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	historySet := k.Exists("history") || flags.Changed("history")
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("loading flags: %w", err)
	}
	conf := config{
		Interactive: k.Bool("interactive"),
		In:          k.String("in"),
		Fmt:         k.String("fmt"),
		Places:      k.Int("places"),
		Echo:        k.Bool("echo"),
		History:     k.Bool("history"),
		HistorySet:  historySet,
		MaxDepth:    k.Int("maxdepth"),
		LogLevel:    k.String("loglevel"),
	}
	if conf.Fmt == "" {
		conf.Fmt = "%g"
	}
	// CALC_GIVEN holds definitions separated by semicolons.
	for _, g := range strings.Split(k.String("given"), ";") {
		if g = strings.TrimSpace(g); g != "" {
			conf.Given = append(conf.Given, g)
		}
	}
	return &conf, nil
}

// newLogger creates a console logger at the given level. Unknown levels
// mean warn.
func newLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "calc").
		Logger()
}
