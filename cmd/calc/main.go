// Command calc evaluates arithmetic and boolean expressions.
//
// Each argument is run as one statement, in order, so that assignments made
// by earlier arguments are visible to later ones:
//
//	calc 'r = 2' 'pi * r^2'
//
// With no arguments, or with -i, calc reads statements interactively.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zephyrtronium/calc"
)

const version = "0.3"

// errFailed indicates that some statement failed. The failure has already
// been reported.
var errFailed = errors.New("some statements failed")

var rootCmd = &cobra.Command{
	Use:   "calc [flags] [statement...]",
	Short: "Evaluate arithmetic and boolean expressions",
	Long: `calc evaluates arithmetic, relational, and boolean expressions.

A statement is either an expression, like "2 + 3 * 4", or an assignment, like
"x = 10". Variables keep their values for the rest of the session. Boolean
results are 1 for true and 0 for false.

Operators, from least to most binding:

  or || nor    and && nand    == !=    < <= > >=
  + -    * / % mod    ^ **    - + not (prefix)    ! (postfix)
`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCalc,
}

func init() {
	addFlags(rootCmd.PersistentFlags())
	// given is read directly rather than through the config because
	// values may contain commas.
	rootCmd.Flags().StringArray("given", nil, "name=value variable definition (any number of times)")
}

// addFlags adds the flags that loadConfig reads.
func addFlags(flags *pflag.FlagSet) {
	flags.BoolP("interactive", "i", false, "run the interactive prompt after any statements")
	flags.String("in", "", "file of statements to run, one per line (- for stdin)")
	flags.String("fmt", "%g", "result formatting verb")
	flags.Int("places", -1, "round results to this many decimal places instead of using fmt")
	flags.Bool("echo", false, "print parse trees")
	flags.Bool("history", false, "keep results for the result function (default true at the prompt)")
	flags.Int("maxdepth", calc.DefaultMaxDepth, "limit on nesting of subexpressions (0 for none)")
	flags.String("loglevel", "warn", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "calc:", err)
		}
		os.Exit(1)
	}
}

func runCalc(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd.PersistentFlags())
	if err != nil {
		return err
	}
	given, err := cmd.Flags().GetStringArray("given")
	if err != nil {
		return err
	}
	conf.Given = append(conf.Given, given...)
	log := newLogger(conf.LogLevel, os.Stderr)
	log.Debug().Interface("config", conf).Msg("loaded configuration")

	interactive := usePrompt(conf, args)
	s := newSession(conf, log, os.Stdout, os.Stderr)
	for _, g := range conf.Given {
		if err := s.give(g); err != nil {
			return err
		}
	}
	ok := true
	if conf.In != "" {
		if err := s.runFile(conf.In); err != nil {
			if !errors.Is(err, errFailed) {
				return err
			}
			ok = false
		}
	}
	for _, arg := range args {
		ok = s.run(arg) && ok
	}
	if interactive {
		if err := s.prompt(); err != nil {
			return err
		}
	}
	if !ok {
		return errFailed
	}
	return nil
}

// usePrompt reports whether the run ends at the interactive prompt. History
// defaults to on when it does.
func usePrompt(conf *config, args []string) bool {
	p := conf.Interactive || (len(args) == 0 && conf.In == "")
	if p && !conf.HistorySet {
		conf.History = true
	}
	return p
}

// splitGiven splits a name=value definition.
func splitGiven(def string) (name, value string, err error) {
	d := strings.SplitN(def, "=", 2)
	if len(d) != 2 {
		return "", "", fmt.Errorf(`variable definitions must be "name=value", not %q`, def)
	}
	name, value = strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
	if name == "" || value == "" {
		return "", "", fmt.Errorf(`variable definitions must be "name=value", not %q`, def)
	}
	return name, value, nil
}
