package version_check

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
)

// MinPluginVersion is the oldest UXP plugin release that answers every
// action idctl sends.
const MinPluginVersion = "1.0.0"

// OutdatedError is returned when the plugin reports a version older than
// the required one.
type OutdatedError struct {
	Current  string
	Required string
}

func (e *OutdatedError) Error() string {
	return fmt.Sprintf("plugin version %s is older than the required %s", e.Current, e.Required)
}

// Check compares the version a plugin reports against minimum. An empty
// reported version is accepted, older plugins do not send one.
func Check(reported, minimum string) error {
	if strings.TrimSpace(reported) == "" {
		return nil
	}
	current, err := semver.NewVersion(trimVersionString(reported))
	if err != nil {
		return fmt.Errorf("plugin reported an invalid version %q: %w", reported, err)
	}
	required, err := semver.NewVersion(trimVersionString(minimum))
	if err != nil {
		return fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}
	if current.LessThan(*required) {
		return &OutdatedError{Current: current.String(), Required: required.String()}
	}
	return nil
}

func trimVersionString(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	version, _, _ = strings.Cut(version, "-")
	return version
}
