// Package clitest builds CLI sessions and root commands wired to a fake
// proxy, with output captured.
package clitest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	idio "github.com/teei/idctl/internal/io"
	command "github.com/teei/idctl/pkg/idctlCommand"
	"github.com/teei/idctl/pkg/idctlConfig"
)

// Streams holds the captured output of a command.
type Streams struct {
	idio.IOStreams
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewStreams returns streams reading stdin from in.
func NewStreams(in string) *Streams {
	s := &Streams{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}
	s.IOStreams = idio.IOStreams{In: strings.NewReader(in), Out: s.Out, ErrOut: s.ErrOut}
	return s
}

// NewSession returns a session against proxyURL. The config file and the
// export directory live in a temp dir; the journal is disabled.
func NewSession(t testing.TB, proxyURL string) (*command.Session, *Streams) {
	t.Helper()
	streams := NewStreams("")
	session := command.NewSession(streams.IOStreams)
	dir := t.TempDir()
	session.Global.ConfigFile = filepath.Join(dir, "idctl")
	session.Global.NoJournal = true
	session.Viper.Set(idctlConfig.ProxyURLKey, proxyURL)
	session.Viper.Set(idctlConfig.ExportDirKey, filepath.Join(dir, "exports"))
	if err := session.Load(); err != nil {
		t.Fatalf("load session: %v", err)
	}
	t.Cleanup(session.Close)
	return session, streams
}

// Args prefixes args with the flags pointing a root command at proxyURL and
// at a config file in a temp dir.
func Args(t testing.TB, proxyURL string, args ...string) []string {
	t.Helper()
	dir := t.TempDir()
	return append([]string{
		"--proxy-url", proxyURL,
		"--config", filepath.Join(dir, "idctl"),
		"--export-dir", filepath.Join(dir, "exports"),
		"--no-journal",
	}, args...)
}
