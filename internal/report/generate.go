package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/renameio/v2"

	"github.com/cleared-dev/coa/internal/model"
)

// Report formats.
const (
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// forbidden are characters that would break a path on some platform.
const forbidden = `<>:"/\|?*`

// SanitizeName validates a caller-supplied report name (without extension).
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &model.ValidationError{Field: "report name", Reason: "must not be empty"}
	}
	if name == "." || name == ".." {
		return "", &model.ValidationError{Field: "report name", Reason: fmt.Sprintf("%q is reserved", name)}
	}
	if strings.ContainsAny(name, forbidden) {
		return "", &model.ValidationError{Field: "report name", Reason: fmt.Sprintf("must not contain any of %s", forbidden)}
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", &model.ValidationError{Field: "report name", Reason: "must not contain control characters"}
	}
	return name, nil
}

// Generator writes report files into Dir, creating it on first use.
type Generator struct {
	Dir    string
	Format string
}

// Generate writes the report for acct to <Dir>/<name>.<ext> and returns the path.
func (g Generator) Generate(acct model.Account, name string) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}

	var (
		ext   string
		write func(io.Writer, model.Account) error
	)
	switch g.Format {
	case FormatText, "":
		ext, write = ".txt", WriteText
	case FormatXLSX:
		ext, write = ".xlsx", WriteSpreadsheet
	default:
		return "", &model.ValidationError{Field: "report format", Reason: fmt.Sprintf("unknown format %q", g.Format)}
	}

	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", &model.IOError{Op: "mkdir", Path: g.Dir, Err: err}
	}

	path := filepath.Join(g.Dir, clean+ext)
	var buf bytes.Buffer
	if err := write(&buf, acct); err != nil {
		return "", &model.IOError{Op: "render", Path: path, Err: err}
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", &model.IOError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
