package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/hackbot/internal/apperr"
)

// writeOutput copies r to path, or to stdout when path is "-". Files are
// written to a temp file in the same directory and renamed into place, so a
// failed write never leaves a partial file behind.
func writeOutput(cmd *cobra.Command, path string, r io.Reader) error {
	if path == "-" {
		_, err := io.Copy(cmd.OutOrStdout(), r)
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(apperr.ErrIO, "create %s: %v", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return errors.Wrapf(apperr.ErrIO, "write %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(apperr.ErrIO, "write %s: %v", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(apperr.ErrIO, "chmod %s: %v", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(apperr.ErrIO, "rename %s: %v", path, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
