package idctlConfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/teei/idctl/internal/utils"
	"github.com/teei/idctl/pkg/bridge"
)

const (
	ConfigFileName = "idctl"
	EnvPrefix      = "IDCTL"
)

// Configuration keys, shared by the config file, IDCTL_* variables and flags.
const (
	ProxyURLKey    = "proxy_url"
	ApplicationKey = "application"
	TimeoutKey     = "timeout"
	ExportDirKey   = "export_dir"
	AllowedRootKey = "allowed_root"
	JournalKey     = "journal"
	PaletteFileKey = "palette_file"
	HistoryFileKey = "history_file"
)

// Settings is the resolved configuration every command runs with.
type Settings struct {
	ProxyURL    string
	Application string
	Timeout     time.Duration
	ExportDir   string
	AllowedRoot string
	Journal     string
	PaletteFile string
	HistoryFile string
}

// ConfigDir is where the config file, journal and shell history live.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// SetDefaults registers defaults and environment lookups on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(ProxyURLKey, bridge.DefaultProxyURL)
	v.SetDefault(ApplicationKey, bridge.DefaultApplication)
	v.SetDefault(TimeoutKey, bridge.DefaultTimeout.String())
	v.SetDefault(ExportDirKey, "exports")
	v.SetDefault(AllowedRootKey, "")
	v.SetDefault(PaletteFileKey, "")
	if dir, err := ConfigDir(); err == nil {
		v.SetDefault(JournalKey, filepath.Join(dir, ConfigFileName+"-journal.db"))
		v.SetDefault(HistoryFileKey, filepath.Join(dir, ConfigFileName+"-history"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// EnsureConfigFile creates the config file at path (or ~/.config/idctl when
// path is empty) if it does not exist yet, and reads it into v.
func EnsureConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, ConfigFileName)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		_ = f.Close()
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	log.Debugf("Reading config file from %s", path)
	return nil
}

// Load resolves Settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		ProxyURL:    strings.TrimSpace(v.GetString(ProxyURLKey)),
		Application: strings.TrimSpace(v.GetString(ApplicationKey)),
		ExportDir:   strings.TrimSpace(v.GetString(ExportDirKey)),
		AllowedRoot: strings.TrimSpace(v.GetString(AllowedRootKey)),
		Journal:     strings.TrimSpace(v.GetString(JournalKey)),
		PaletteFile: strings.TrimSpace(v.GetString(PaletteFileKey)),
		HistoryFile: strings.TrimSpace(v.GetString(HistoryFileKey)),
	}

	timeout, err := ParseTimeout(v.GetString(TimeoutKey))
	if err != nil {
		return Settings{}, err
	}
	s.Timeout = timeout

	if !utils.IsHTTPUrl(s.ProxyURL) {
		return Settings{}, fmt.Errorf("%s %q is not an http(s) URL", ProxyURLKey, s.ProxyURL)
	}
	if s.Application == "" {
		return Settings{}, fmt.Errorf("%s cannot be empty", ApplicationKey)
	}
	if s.Timeout <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %s", TimeoutKey, s.Timeout)
	}

	for _, p := range []*string{&s.ExportDir, &s.AllowedRoot, &s.Journal, &s.PaletteFile, &s.HistoryFile} {
		if *p, err = utils.ExpandHome(*p); err != nil {
			return Settings{}, err
		}
	}
	if s.AllowedRoot != "" {
		if s.AllowedRoot, err = filepath.Abs(s.AllowedRoot); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// Client builds a bridge client from the settings.
func (s Settings) Client() (*bridge.Client, error) {
	return bridge.NewClient().
		WithURL(s.ProxyURL).
		WithApplication(s.Application).
		WithTimeout(s.Timeout).
		Init()
}

// ParseTimeout reads a duration such as "45s" or "2m". A bare number is a
// count of seconds.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q is neither a duration like 45s nor a number of seconds", TimeoutKey, raw)
	}
	return d, nil
}
