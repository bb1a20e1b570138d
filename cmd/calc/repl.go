package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
)

var (
	welcomeMessage = "Welcome to calc [V%s]"
	stdprompt      = prtxt.FgGreen.Sprint("calc> ")
)

// Completer-tree for the REPL's own commands.
var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("bye"),
	readline.PcItem("vars"),
	readline.PcItem("funcs"),
)

// prompt reads and runs statements interactively until bye or end of input.
func (s *session) prompt() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              stdprompt,
		HistoryFile:         filepath.Join(os.TempDir(), "calc-repl-history.tmp"),
		AutoComplete:        replCompleter,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterReplInput,
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	stdout, stderr := s.stdout, s.stderr
	s.stdout, s.stderr = rl.Stdout(), rl.Stderr()
	defer func() { s.stdout, s.stderr = stdout, stderr }()
	s.color, s.numbered = true, true
	defer func() { s.color, s.numbered = false, false }()

	fmt.Fprintf(s.stderr, welcomeMessage+"\n", version)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if s.execute(strings.TrimSpace(line)) {
			break
		}
	}
	return nil
}

// execute runs a REPL command or statement. If it returns true, the REPL
// should terminate.
func (s *session) execute(line string) bool {
	switch line {
	case "":
		// do nothing
	case "help":
		s.displayCommands(s.stderr)
	case "bye":
		fmt.Fprintln(s.stderr, "> goodbye!")
		return true
	case "vars":
		s.vars(s.stdout)
	case "funcs":
		s.funcs(s.stdout)
	default:
		s.log.Debug().Str("line", line).Msg("run statement")
		s.run(line)
	}
	return false
}

func (s *session) displayCommands(out io.Writer) {
	fmt.Fprintf(out, welcomeMessage, version)
	io.WriteString(out, "\n\nThe following commands are available:\n\n")
	io.WriteString(out, "  help   : print this message\n")
	io.WriteString(out, "  bye    : quit\n")
	io.WriteString(out, "  vars   : list variables\n")
	io.WriteString(out, "  funcs  : list functions and constants\n")
	io.WriteString(out, "\nAnything else is run as a statement, e.g. \"x = 10\" or \"x * 2\".\n")
}

// Input filter for the REPL. Blocks ctrl-z.
func filterReplInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
