package globalflags

import (
	"flag"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teei/idctl/pkg/idctlConfig"
)

// Defines a set of Global Options available to all commands
type GlobalOptions struct {
	Output     string
	Verbose    bool
	ConfigFile string
	NoJournal  bool
}

// AddGlobalFlags adds the Global Flags to the root command
func AddGlobalFlags(cmd *cobra.Command, opts *GlobalOptions) {
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "", "Valid formats are ['', 'json', 'yaml']")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every request and reply")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Config file (default ~/.config/idctl)")
	cmd.PersistentFlags().BoolVar(&opts.NoJournal, "no-journal", false, "Do not record commands in the journal")
}

// AddBridgeFlags adds the connection flags and binds them to their config keys,
// so a flag beats IDCTL_* which beats the config file.
func AddBridgeFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("proxy-url", "", "Automation proxy URL (default http://localhost:8013)")
	flags.String("application", "", "Target application (default indesign)")
	flags.String("timeout", "", "Per-command timeout, a duration like 45s or a number of seconds (default 60s)")
	flags.String("journal", "", "Journal database path")
	flags.String("export-dir", "", "Directory relative export paths resolve against")
	flags.String("allowed-root", "", "Reject export paths outside this directory")

	_ = v.BindPFlag(idctlConfig.ProxyURLKey, flags.Lookup("proxy-url"))
	_ = v.BindPFlag(idctlConfig.ApplicationKey, flags.Lookup("application"))
	_ = v.BindPFlag(idctlConfig.TimeoutKey, flags.Lookup("timeout"))
	_ = v.BindPFlag(idctlConfig.JournalKey, flags.Lookup("journal"))
	_ = v.BindPFlag(idctlConfig.ExportDirKey, flags.Lookup("export-dir"))
	_ = v.BindPFlag(idctlConfig.AllowedRootKey, flags.Lookup("allowed-root"))
}
