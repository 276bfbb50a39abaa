package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/phpdave11/gofpdi"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var (
	pdfMagic  = []byte("%PDF-")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// File describes one exported file as found on disk.
type File struct {
	Path  string `json:"path" yaml:"path"`
	Size  int64  `json:"size" yaml:"size"`
	Pages int    `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// PageCounter reads the number of pages of a PDF.
type PageCounter func(data []byte) (int, error)

// pageCountTimeout bounds how long CountPages may spend in the parser.
const pageCountTimeout = 5 * time.Second

// trailerWindow is how far from the end the parser looks for startxref.
const trailerWindow = 1500

var (
	trailerPattern = regexp.MustCompile(`startxref\s+\d+\s+%%EOF\s*$`)

	// ErrNoTrailer is returned for data without a startxref/%%EOF trailer,
	// such as a file still being written.
	ErrNoTrailer = errors.New("no startxref trailer, the PDF looks truncated")

	ErrPageCountTimeout = errors.New("timed out counting pages")
)

// CountPages reads the page count of a PDF with gofpdi. Data without a
// trailer is rejected before parsing and a parse that outlives
// pageCountTimeout is abandoned.
func CountPages(data []byte) (int, error) {
	if err := checkTrailer(data); err != nil {
		return 0, err
	}
	return countWithin(data, pageCountTimeout, importPages)
}

func checkTrailer(data []byte) error {
	tail := data
	if len(tail) > trailerWindow {
		tail = tail[len(tail)-trailerWindow:]
	}
	if !trailerPattern.Match(tail) {
		return ErrNoTrailer
	}
	return nil
}

// countWithin runs parse in its own goroutine. On timeout the goroutine is
// left behind; it only holds data.
func countWithin(data []byte, timeout time.Duration, parse PageCounter) (int, error) {
	type result struct {
		pages int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		pages, err := parse(data)
		done <- result{pages, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.pages, r.err
	case <-timer.C:
		return 0, ErrPageCountTimeout
	}
}

// importPages panics on malformed input, which is returned as an error.
func importPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot parse PDF: %v", r)
		}
	}()
	rs := io.ReadSeeker(bytes.NewReader(data))
	imp := gofpdi.NewImporter()
	imp.SetSourceStream(&rs)
	return imp.GetNumPages(), nil
}

// Verifier checks that an export actually produced a usable file.
type Verifier struct {
	fs      afero.Fs
	counter PageCounter
}

func NewVerifier(fs afero.Fs) *Verifier {
	return &Verifier{fs: fs, counter: CountPages}
}

// WithPageCounter replaces the PDF page counter.
func (v *Verifier) WithPageCounter(c PageCounter) *Verifier {
	v.counter = c
	return v
}

// PDF requires path to exist, be non-empty and start with a PDF header. An
// unreadable page count is logged and leaves Pages at zero.
func (v *Verifier) PDF(path string) (*File, error) {
	data, err := v.read(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%s is not a PDF file", path)
	}
	f := &File{Path: path, Size: int64(len(data))}
	if v.counter != nil {
		if f.Pages, err = v.counter(data); err != nil {
			log.Warnf("Pages of %s unknown: %v", path, err)
			f.Pages = 0
		}
	}
	return f, nil
}

// JPEG requires path to exist, be non-empty and start with a JPEG marker.
func (v *Verifier) JPEG(path string) (*File, error) {
	data, err := v.read(path)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, jpegMagic) {
		return nil, fmt.Errorf("%s is not a JPEG file", path)
	}
	return &File{Path: path, Size: int64(len(data))}, nil
}

func (v *Verifier) read(path string) ([]byte, error) {
	info, err := v.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("export reported success but %s was not written: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("export reported success but %s is empty", path)
	}
	return afero.ReadFile(v.fs, path)
}
