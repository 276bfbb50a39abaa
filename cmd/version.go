package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

var (
	// GitCommit is the short git commit hash from the environment
	// Will be set during build process via GoReleaser
	// See also: https://pkg.go.dev/cmd/link
	GitCommit string

	// Version is the tag version from the environment
	// Will be set during build process via GoReleaser
	// See also: https://pkg.go.dev/cmd/link
	Version string
)

// versionResponse is necessary for the JSON version response. It uses the
// variables set during the build, plus the plugin version when asked for.
type versionResponse struct {
	Commit  string `json:"commit"`
	Version string `json:"version"`
	Plugin  string `json:"plugin,omitempty"`
}

// newCmdVersion is the subcommand "idctl version" for cobra.
func newCmdVersion(session *command.Session) *cobra.Command {
	var withPlugin bool
	versionCmd := &cobra.Command{
		Use:               "version",
		Short:             "Display the version",
		Long:              "Display version of idctl, and of the InDesign plugin with --plugin",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := versionResponse{Commit: GitCommit, Version: Version}
			if withPlugin {
				resp.Plugin = pluginVersion(cmd.Context(), session)
			}
			ver, err := json.MarshalIndent(&resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(session.Out, string(ver))
			return nil
		},
	}
	versionCmd.Flags().BoolVar(&withPlugin, "plugin", false, "Also ask the plugin for its version")

	return versionCmd
}

// pluginVersion asks the plugin for its version. Errors are logged so the
// local version is still printed without a proxy.
func pluginVersion(ctx context.Context, session *command.Session) string {
	client, err := session.Client()
	if err != nil {
		log.Warnf("Cannot query the plugin version: %v", err)
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := client.Do(ctx, bridge.ActionPing, nil)
	if err != nil {
		log.Warnf("Cannot query the plugin version: %v", err)
		return ""
	}
	v, _ := resp.Field("version")
	return v
}
