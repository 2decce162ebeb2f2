// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress is returned when another run holds the lock of the same
// tree.
var ErrRunInProgress = errors.New("another presubmit run is in progress")

// Lock takes an exclusive lock for runs on root without waiting. The lock
// file lives in the temporary directory, named after a hash of the absolute
// path of root with symlinks evaluated, so every path to the same tree
// shares one lock.
func Lock(root string) (unlock func() error, err error) {
	canonical, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(canonical); err == nil {
		canonical = resolved
	}
	sum := sha256.Sum256([]byte(canonical))
	path := filepath.Join(os.TempDir(), "presubmit-"+hex.EncodeToString(sum[:8])+".lock")

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w in %s (lock file %s)", ErrRunInProgress, root, path)
	}
	return fl.Unlock, nil
}
