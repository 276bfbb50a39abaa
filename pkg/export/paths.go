package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/teei/idctl/internal/utils"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatJPEG Format = "jpeg"
)

// Extension is the file extension written for the format.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".pdf"
}

func (f Format) accepts(ext string) bool {
	ext = strings.ToLower(ext)
	if f == FormatJPEG {
		return ext == ".jpg" || ext == ".jpeg"
	}
	return ext == ".pdf"
}

// DefaultName is used when no output path is given.
const DefaultName = "document"

// ErrOverwriteDeclined is returned when the user refuses to replace an
// existing file.
var ErrOverwriteDeclined = errors.New("overwrite declined")

// Confirmer asks whether an existing file may be replaced.
type Confirmer func(path string) (bool, error)

// Resolver turns the output path a user typed into an absolute path that is
// safe to export to.
type Resolver struct {
	fs          afero.Fs
	exportDir   string
	allowedRoot string
	force       bool
	confirm     Confirmer
}

func NewResolver(fs afero.Fs, exportDir, allowedRoot string) *Resolver {
	return &Resolver{fs: fs, exportDir: exportDir, allowedRoot: allowedRoot}
}

// WithForce replaces existing files without asking.
func (r *Resolver) WithForce(force bool) *Resolver {
	r.force = force
	return r
}

// WithConfirm sets how an overwrite is confirmed. Without one, an existing
// file is an error unless force is set.
func (r *Resolver) WithConfirm(c Confirmer) *Resolver {
	r.confirm = c
	return r
}

// Resolve expands ~, anchors relative paths in the export directory, fixes
// the extension for format, enforces the allowed root, creates the parent
// directory and settles what happens to an existing file.
func (r *Resolver) Resolve(path string, format Format) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultName
	}
	path, err := utils.ExpandHome(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		dir, err := utils.ExpandHome(r.exportDir)
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, path)
	}
	if path, err = filepath.Abs(path); err != nil {
		return "", err
	}
	path = FixExtension(path, format)

	if err := utils.CheckWithinRoot(path, r.allowedRoot); err != nil {
		return "", err
	}
	if err := utils.EnsureParentDir(r.fs, path); err != nil {
		return "", err
	}
	if utils.FileExists(r.fs, path) {
		if err := r.settleOverwrite(path); err != nil {
			return "", err
		}
	}
	log.Debugf("Export path resolved to %s", path)
	return path, nil
}

// settleOverwrite removes path once replacing it is approved. After a
// successful Resolve the target does not exist.
func (r *Resolver) settleOverwrite(path string) error {
	if !r.force {
		if r.confirm == nil {
			return fmt.Errorf("%s already exists, use --force to replace it", path)
		}
		ok, err := r.confirm(path)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOverwriteDeclined
		}
	}
	log.Debugf("Removing %s before overwriting it", path)
	if err := r.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove existing %s: %w", path, err)
	}
	return nil
}

// FixExtension appends or replaces the extension so it matches format.
func FixExtension(path string, format Format) string {
	ext := filepath.Ext(path)
	if format.accepts(ext) {
		return path
	}
	if ext != "" && !strings.ContainsAny(ext, " ") {
		path = strings.TrimSuffix(path, ext)
	}
	return path + format.Extension()
}

// PromptOverwrite asks on the terminal before replacing path.
func PromptOverwrite(path string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s already exists. Overwrite", path),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
