package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teei/idctl/cmd/colors"
	"github.com/teei/idctl/cmd/document"
	"github.com/teei/idctl/cmd/export"
	"github.com/teei/idctl/cmd/job"
	"github.com/teei/idctl/cmd/mcp"
	"github.com/teei/idctl/cmd/script"
	idio "github.com/teei/idctl/internal/io"
	"github.com/teei/idctl/internal/utils/globalflags"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

// NewCmdRoot represents the base command when called without any subcommands
func NewCmdRoot(streams idio.IOStreams) *cobra.Command {
	session := command.NewSession(streams)
	rootCmd := &cobra.Command{
		Use:   "idctl",
		Short: "InDesign automation CLI",
		Long: `CLI tool that drives InDesign through the automation proxy.

Every subcommand sends {application, action, options} commands to the proxy
(http://localhost:8013 by default) and reports the {status, response, message}
reply.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			return session.Load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			session.Close()
		},
		Run: help,
	}
	rootCmd.SetIn(streams.In)
	rootCmd.SetOut(streams.Out)
	rootCmd.SetErr(streams.ErrOut)

	globalflags.AddGlobalFlags(rootCmd, session.Global)
	globalflags.AddBridgeFlags(rootCmd, session.Viper)

	// add sub commands
	rootCmd.AddCommand(newCmdPing(session))
	rootCmd.AddCommand(newCmdHealth(session))
	rootCmd.AddCommand(newCmdSend(session))
	rootCmd.AddCommand(document.NewCmdDocument(session))
	rootCmd.AddCommand(colors.NewCmdColors(session))
	rootCmd.AddCommand(export.NewCmdExport(session))
	rootCmd.AddCommand(script.NewCmdScript(session))
	rootCmd.AddCommand(job.NewCmdJob(session))
	rootCmd.AddCommand(newCmdShell(session))
	rootCmd.AddCommand(newCmdHistory(session))
	rootCmd.AddCommand(mcp.NewCmdMCP(session))

	// add docs command
	rootCmd.AddCommand(newCmdDocs(streams))

	// add completion command
	rootCmd.AddCommand(newCmdCompletion(streams))

	// add options command to list global flags
	rootCmd.AddCommand(newCmdOptions(streams))

	rootCmd.AddCommand(newCmdVersion(session))

	return rootCmd
}

func help(cmd *cobra.Command, _ []string) {
	err := cmd.Help()
	if err != nil {
		fmt.Println("Error while printing help: ", err.Error())
	}
}

// skipsConfig reports whether cmd runs without loading the settings first.
// health loads them itself.
func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "docs", "completion", "options", "help", "version", "health":
		return true
	}
	return cmd == cmd.Root()
}
