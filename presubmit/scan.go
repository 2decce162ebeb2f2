// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tree lists the directories of a source tree that the checks operate on.
type Tree struct {
	// Root is the absolute path of the scanned tree, with symlinks evaluated.
	Root string
	// BuildDirs are directories with at least one non-test .go file, in
	// discovery order.
	BuildDirs []string
	// TestDirs are directories with at least one _test.go file, in discovery
	// order.
	TestDirs []string
	// Skipped are directories that could not be read.
	Skipped []string
}

// Scan walks the tree rooted at root top-down. Directories whose name starts
// with "." or "_", and directories named "testdata", are not descended into,
// the same as the go command ignores them. Unreadable directories are recorded
// in Tree.Skipped and do not stop the scan.
func Scan(root string) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	t := &Tree{Root: abs}
	t.walk(abs)
	return t, nil
}

func (t *Tree) walk(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Skipped = append(t.Skipped, dir)
		return
	}

	var hasSource, hasTests bool
	var subdirs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if !pruned(name) {
				subdirs = append(subdirs, filepath.Join(dir, name))
			}
			continue
		}
		switch {
		case strings.HasSuffix(name, "_test.go"):
			hasTests = true
		case strings.HasSuffix(name, ".go"):
			hasSource = true
		}
	}

	if hasSource {
		t.BuildDirs = append(t.BuildDirs, dir)
	}
	if hasTests {
		t.TestDirs = append(t.TestDirs, dir)
	}
	for _, sub := range subdirs {
		t.walk(sub)
	}
}

func pruned(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}
