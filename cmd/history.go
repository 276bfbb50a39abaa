package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/journal"
	"github.com/teei/idctl/pkg/printer"
)

type historyOptions struct {
	session *command.Session
	filter  journal.Filter
}

// newCmdHistory lists the journal
func newCmdHistory(session *command.Session) *cobra.Command {
	ops := &historyOptions{session: session}
	historyCmd := &cobra.Command{
		Use:               "history",
		Short:             "List the most recent commands sent to the proxy",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ops.run(cmd)
		},
	}
	historyCmd.Flags().StringVar(&ops.filter.Action, "action", "", "Only list this action")
	historyCmd.Flags().IntVar(&ops.filter.Limit, "limit", journal.DefaultLimit, "Number of entries to list")

	return historyCmd
}

func (o *historyOptions) run(cmd *cobra.Command) error {
	store := o.session.Journal()
	if store == nil {
		return fmt.Errorf("the journal is disabled")
	}
	entries, err := store.List(cmd.Context(), o.filter)
	if err != nil {
		return err
	}
	if format := o.session.Output(); format != printer.FormatText {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return printer.Structured(o.session.Out, format, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(o.session.Out, "No commands recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Time.Local().Format(time.DateTime),
			e.Action,
			e.Status,
			e.Duration.Round(time.Millisecond).String(),
			e.Message,
		})
	}
	printer.RenderTable(o.session.Out, []string{"Time", "Action", "Status", "Duration", "Message"}, rows)
	return nil
}
