package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/printer"
)

const shellHelp = `Type an action, optionally followed by a JSON options object:
  ping
  getDocumentInfo
  exportPDF {"outputPath": "/tmp/a.pdf", "preset": "High Quality Print"}
Built-ins: help, actions, exit, quit`

var errExitShell = errors.New("exit requested")

type shellOptions struct {
	session *command.Session
}

// newCmdShell starts an interactive prompt that sends one command per line
func newCmdShell(session *command.Session) *cobra.Command {
	ops := &shellOptions{session: session}
	return &cobra.Command{
		Use:               "shell",
		Short:             "Interactive prompt sending one command per line",
		Long:              "Interactive prompt sending one command per line.\n\n" + shellHelp,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if session.Interactive() {
				return ops.interactive(cmd.Context())
			}
			return ops.script(cmd.Context(), session.In)
		},
	}
}

func (o *shellOptions) interactive(ctx context.Context) error {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("help"),
		readline.PcItem("actions"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	}
	for _, a := range bridge.KnownActions() {
		items = append(items, readline.PcItem(a))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "idctl> ",
		HistoryFile:     o.session.Settings.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize the prompt: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(o.session.Out, "Connected to", o.session.Settings.ProxyURL+". Type 'help' for usage.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(o.session.Out, "Use 'exit' or 'quit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := o.execute(ctx, line); errors.Is(err, errExitShell) {
			return nil
		}
	}
}

// script runs lines read from a pipe or file, without a prompt.
func (o *shellOptions) script(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if err := o.execute(ctx, scanner.Text()); errors.Is(err, errExitShell) {
			return nil
		}
	}
	return scanner.Err()
}

// execute runs one line. Failures are printed and the shell carries on;
// only exit and quit return an error.
func (o *shellOptions) execute(ctx context.Context, line string) error {
	out := o.session.Out
	action, options, err := parseShellLine(line)
	if err != nil {
		printer.Fail(out, "%v", err)
		return nil
	}
	switch action {
	case "":
		return nil
	case "exit", "quit":
		return errExitShell
	case "help":
		fmt.Fprintln(out, shellHelp)
		return nil
	case "actions":
		for _, a := range bridge.KnownActions() {
			fmt.Fprintln(out, " ", a)
		}
		return nil
	}
	if !bridge.IsKnownAction(action) {
		log.Warnf("%q is not an action idctl knows, sending it anyway", action)
	}
	if _, err := o.session.Exchange(ctx, action, options); err != nil {
		var exit *command.ExitError
		if !errors.As(err, &exit) {
			printer.Fail(out, "%s: %v", action, err)
		}
	}
	return nil
}

// parseShellLine splits a line into the action and its optional JSON options.
func parseShellLine(line string) (string, bridge.Options, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil, nil
	}
	action, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return action, nil, nil
	}
	options := bridge.Options{}
	if err := json.Unmarshal([]byte(rest), &options); err != nil {
		return "", nil, fmt.Errorf("options for %s must be a JSON object: %w", action, err)
	}
	return action, options, nil
}
