package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teei/idctl/pkg/bridge"
	command "github.com/teei/idctl/pkg/idctlCommand"
)

type sendOptions struct {
	session *command.Session

	action  string
	params  []string
	rawJSON string
}

// newCmdSend sends an arbitrary action, for plugin commands idctl has no
// dedicated subcommand for
func newCmdSend(session *command.Session) *cobra.Command {
	ops := &sendOptions{session: session}
	sendCmd := &cobra.Command{
		Use:   "send ACTION",
		Short: "Send any action with the given options",
		Example: `  # Ping with no options
  idctl send ping

  # Place text, options as key/value pairs
  idctl send placeText -p text="Together for Ukraine" -p fontSize=24

  # Start from a JSON object and override one key
  idctl send exportPDF --json '{"outputPath":"/tmp/a.pdf","preset":"High Quality Print"}' -p includeBleed=true`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops.action = args[0]
			options, err := ops.options()
			if err != nil {
				return err
			}
			_, err = session.Exchange(cmd.Context(), ops.action, options)
			return err
		},
	}
	sendCmd.Flags().StringArrayVarP(&ops.params, "param", "p", nil, "Set an option (eg. -p outputPath=/tmp/a.pdf). Values are parsed as JSON when they can be")
	sendCmd.Flags().StringVar(&ops.rawJSON, "json", "", "Options as a JSON object; -p values override its keys")

	return sendCmd
}

// options merges --json and every -p into one mapping.
func (o *sendOptions) options() (bridge.Options, error) {
	if !bridge.IsKnownAction(o.action) {
		log.Warnf("%q is not an action idctl knows, sending it anyway", o.action)
	}
	options := bridge.Options{}
	if strings.TrimSpace(o.rawJSON) != "" {
		if err := json.Unmarshal([]byte(o.rawJSON), &options); err != nil {
			return nil, fmt.Errorf("--json must be a JSON object: %w", err)
		}
	}
	params, err := parseParams(o.params)
	if err != nil {
		return nil, err
	}
	for k, v := range params {
		options[k] = v
	}
	return options, nil
}

// parseParams parses 'KEY=VALUE' pairs. A value that is valid JSON keeps its
// type, anything else is sent as a string.
func parseParams(params []string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, p := range params {
		key, raw, found := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("wrong format of the parameter %q: use KEY=VALUE", p)
		}
		out[key] = parseValue(raw)
	}
	return out, nil
}

func parseValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
