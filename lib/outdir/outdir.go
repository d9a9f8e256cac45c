// Package outdir prepares the directory merged catalogues are written to.
package outdir

import (
	"fmt"
	"io"
	"os"

	fslock "github.com/ipfs/go-fs-lock"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/catalogue"
)

var log = logging.Logger("outdir")

// LockFile is held inside the output directory while a run writes to it.
const LockFile = "tsmerge.lock"

// OutputConflictError is returned when the destination exists and writing
// into it was not forced.
type OutputConflictError struct {
	Path string
	// InPlace is set when the destination is the target itself.
	InPlace bool
}

func (e *OutputConflictError) Error() string {
	if e.InPlace {
		return fmt.Sprintf("use --force to overwrite the original target files (%q)", e.Path)
	}
	return fmt.Sprintf("output directory exists: %q (use --force to overwrite)", e.Path)
}

// Prepare resolves the output directory and locks it. Without an output the
// target directory is modified in place, which needs force. An existing
// output directory needs force as well, a missing one is created.
//
// The returned closer releases the lock.
func Prepare(output, targetDir string, force bool) (string, io.Closer, error) {
	dir := output
	switch {
	case output == "":
		if !force {
			return "", nil, &OutputConflictError{Path: targetDir, InPlace: true}
		}
		st, err := os.Stat(targetDir)
		if err != nil || !st.IsDir() {
			return "", nil, &catalogue.PathNotFoundError{Path: targetDir}
		}
		dir = targetDir
	default:
		if _, err := os.Stat(output); err == nil {
			if !force {
				return "", nil, &OutputConflictError{Path: output}
			}
		} else if !os.IsNotExist(err) {
			return "", nil, xerrors.Errorf("checking output directory: %w", err)
		}
		if err := os.MkdirAll(output, 0755); err != nil {
			return "", nil, xerrors.Errorf("creating output directory: %w", err)
		}
	}

	lk, err := fslock.Lock(dir, LockFile)
	if err != nil {
		return "", nil, xerrors.Errorf("locking output directory %s: %w", dir, err)
	}
	log.Debugw("locked output directory", "path", dir)

	return dir, lk, nil
}
