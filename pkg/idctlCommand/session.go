package command

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"golang.org/x/term"

	idio "github.com/teei/idctl/internal/io"
	"github.com/teei/idctl/internal/utils"
	"github.com/teei/idctl/internal/utils/globalflags"
	"github.com/teei/idctl/pkg/bridge"
	"github.com/teei/idctl/pkg/idctlConfig"
	"github.com/teei/idctl/pkg/journal"
	"github.com/teei/idctl/pkg/palette"
	"github.com/teei/idctl/pkg/printer"
)

// LogLevelEnv overrides the default log level.
const LogLevelEnv = "IDCTL_LOG_LEVEL"

// Session is the state shared by every command of one invocation: streams,
// resolved settings and the lazily built bridge client.
type Session struct {
	idio.IOStreams

	Viper    *viper.Viper
	Global   *globalflags.GlobalOptions
	Fs       afero.Fs
	Settings idctlConfig.Settings

	loaded  bool
	client  *bridge.Client
	journal *journal.Store
}

func NewSession(streams idio.IOStreams) *Session {
	v := viper.New()
	idctlConfig.SetDefaults(v)
	return &Session{
		IOStreams: streams,
		Viper:     v,
		Global:    &globalflags.GlobalOptions{},
		Fs:        afero.NewOsFs(),
	}
}

// Output is the -o format.
func (s *Session) Output() string {
	return s.Global.Output
}

// Load configures logging, reads the config file and resolves settings. It
// runs once per invocation.
func (s *Session) Load() error {
	if s.loaded {
		return nil
	}
	s.configureLogging()
	if err := printer.ValidateFormat(s.Global.Output); err != nil {
		return err
	}
	if err := idctlConfig.EnsureConfigFile(s.Viper, s.Global.ConfigFile); err != nil {
		return err
	}
	settings, err := idctlConfig.Load(s.Viper)
	if err != nil {
		return err
	}
	s.Settings = settings
	s.loaded = true
	log.Debugf("Using proxy %s for application %s (timeout %s)", settings.ProxyURL, settings.Application, settings.Timeout)
	return nil
}

func (s *Session) configureLogging() {
	log.SetOutput(s.ErrOut)
	level := log.WarnLevel
	if raw, err := utils.GetEnv(LogLevelEnv); err == nil {
		if l, ok := utils.ParseLogLevel(raw); ok {
			level = l
		} else {
			log.Warnf("Ignoring invalid %s %q", LogLevelEnv, raw)
		}
	}
	if s.Global.Verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// Client returns the bridge client, building it on first use. Every command
// it sends is recorded in the journal unless the journal is disabled.
func (s *Session) Client() (*bridge.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	client, err := s.Settings.Client()
	if err != nil {
		return nil, err
	}
	if j := s.Journal(); j != nil {
		client.WithObserver(j.Observer())
	}
	if s.Global.Verbose {
		client.WithObserver(logExchange)
	}
	s.client = client
	return client, nil
}

// Journal opens the journal on first use. It returns nil when the journal is
// disabled or cannot be opened.
func (s *Session) Journal() *journal.Store {
	if s.journal != nil {
		return s.journal
	}
	if s.Global.NoJournal || s.Settings.Journal == "" {
		return nil
	}
	store, err := journal.Open(s.Settings.Journal)
	if err != nil {
		log.Warnf("Journal disabled: %v", err)
		return nil
	}
	s.journal = store
	return store
}

// Palette loads the brand palette, with the configured override file if any.
func (s *Session) Palette() (*palette.Palette, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return palette.Load(s.Fs, s.Settings.PaletteFile)
}

// Close releases the journal.
func (s *Session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Debugf("Closing journal: %v", err)
		}
		s.journal = nil
	}
}

func logExchange(cmd bridge.Command, resp *bridge.Response, err error, elapsed time.Duration) {
	switch {
	case err != nil:
		log.Debugf("%s %s failed after %s: %v", cmd.Application, cmd.Action, elapsed, err)
	default:
		log.Debugf("%s %s -> %s in %s", cmd.Application, cmd.Action, resp.Status, elapsed)
	}
}

// Fail wraps a non-SUCCESS reply so the command exits 1 after the reply has
// been printed.
func Fail(action string, resp *bridge.Response) error {
	return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s failed: %s", action, resp.Failure())}
}

// Exchange sends action with options, prints the reply in the selected
// output format and turns a non-SUCCESS reply into an exit error.
func (s *Session) Exchange(ctx context.Context, action string, options bridge.Options) (*bridge.Response, error) {
	client, err := s.Client()
	if err != nil {
		return nil, err
	}
	resp, err := client.Send(ctx, bridge.NewCommand(action, options))
	if err != nil {
		return nil, err
	}
	if err := printer.Response(s.Out, s.Output(), action, resp); err != nil {
		return resp, err
	}
	if !resp.OK() {
		return resp, Fail(action, resp)
	}
	return resp, nil
}

// Report prints the reply carried by a *bridge.StatusError the same way
// Exchange prints a failed reply. Other errors are returned unchanged.
func (s *Session) Report(err error) error {
	se, ok := bridge.IsStatusError(err)
	if !ok || se.Response == nil {
		return err
	}
	if perr := printer.Response(s.Out, s.Output(), se.Action, se.Response); perr != nil {
		return perr
	}
	return Fail(se.Action, se.Response)
}

// Interactive reports whether stdin is a terminal a prompt can be shown on.
func (s *Session) Interactive() bool {
	f, ok := s.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
