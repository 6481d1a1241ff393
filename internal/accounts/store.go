package accounts

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/cleared-dev/coa/internal/model"
)

// Load reads the accounts file at path. A missing file is not an error: it
// yields no accounts, which is how a new chart starts out.
func Load(path string) ([]model.Account, []*model.ParseError, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &model.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	accts, skipped, err := ReadAccounts(f)
	if err != nil {
		return nil, nil, &model.IOError{Op: "read", Path: path, Err: err}
	}
	return accts, skipped, nil
}

// Save replaces the accounts file with the given accounts. The previous file
// stays intact if writing fails.
func Save(path string, accounts []model.Account) error {
	var buf bytes.Buffer
	if err := WriteAccounts(&buf, accounts); err != nil {
		return &model.IOError{Op: "encode", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
