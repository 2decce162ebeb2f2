// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CoverMode is the coverage mode used for all profiles.
const CoverMode = "count"

// MergeProfiles writes one "mode:" header followed by the records of every
// profile in paths, in order. The first line of each profile, its own mode
// header, is dropped. Profiles that do not exist, because the test run that
// should have written them failed, are skipped.
func MergeProfiles(w io.Writer, paths []string) error {
	if _, err := io.WriteString(w, "mode: "+CoverMode+"\n"); err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		_, rest, _ := bytes.Cut(data, []byte("\n"))
		if len(rest) == 0 {
			continue
		}
		if rest[len(rest)-1] != '\n' {
			rest = append(rest, '\n')
		}
		if _, err := w.Write(rest); err != nil {
			return err
		}
	}
	return nil
}

// coverage owns the temporary directory holding the profiles of one run.
type coverage struct {
	dir      string
	profiles []string
}

func newCoverage(parent string) (*coverage, error) {
	dir, err := os.MkdirTemp(parent, "presubmit_coverage")
	if err != nil {
		return nil, fmt.Errorf("creating coverage directory: %w", err)
	}
	return &coverage{dir: dir}, nil
}

// next returns the path of a new numbered profile.
func (c *coverage) next() string {
	p := filepath.Join(c.dir, fmt.Sprintf("test%d.cov", len(c.profiles)))
	c.profiles = append(c.profiles, p)
	return p
}

// merge merges all profiles into profile.cov and returns its path.
func (c *coverage) merge() (path string, err error) {
	path = filepath.Join(c.dir, "profile.cov")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return path, MergeProfiles(f, c.profiles)
}

// Close removes the directory and every profile in it.
func (c *coverage) Close() error { return os.RemoveAll(c.dir) }
