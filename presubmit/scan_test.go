// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.astrophena.name/presubmit/testutil"
)

const scanTree = `
-- go.mod --
module example.com/tree
-- main.go --
package main
-- lib/lib.go --
package lib
-- lib/lib_test.go --
package lib
-- lib/nested/only_test.go --
package nested
-- docs/README.md --
Not Go.
-- .hidden/h.go --
package hidden
-- .hidden/h_test.go --
package hidden
-- _private/p.go --
package private
-- lib/testdata/fixture.go --
package fixture
-- vendorish/v.go --
package vendorish
`

func TestScan(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, []byte(scanTree), dir)

	tree, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan(%q): %v", dir, err)
	}

	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, tree.Root, root)
	testutil.AssertEqual(t, tree.BuildDirs, []string{
		root,
		filepath.Join(root, "lib"),
		filepath.Join(root, "vendorish"),
	})
	testutil.AssertEqual(t, tree.TestDirs, []string{
		filepath.Join(root, "lib"),
		filepath.Join(root, "lib", "nested"),
	})
	testutil.AssertEqual(t, len(tree.Skipped), 0)
}

func TestScanNeverEntersPrunedDirs(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, []byte(scanTree), dir)

	tree, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	check := func(dirs []string, match func(name string) bool) {
		t.Helper()
		for _, d := range dirs {
			rel, err := filepath.Rel(tree.Root, d)
			if err != nil {
				t.Fatal(err)
			}
			for _, elem := range strings.Split(rel, string(filepath.Separator)) {
				if elem != "." && pruned(elem) {
					t.Errorf("%s is inside a pruned directory", d)
				}
			}
			entries, err := os.ReadDir(d)
			if err != nil {
				t.Fatalf("returned directory %s is not readable: %v", d, err)
			}
			found := false
			for _, e := range entries {
				if !e.IsDir() && match(e.Name()) {
					found = true
				}
			}
			if !found {
				t.Errorf("%s has no matching file", d)
			}
		}
	}
	check(tree.BuildDirs, func(name string) bool {
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	})
	check(tree.TestDirs, func(name string) bool { return strings.HasSuffix(name, "_test.go") })
}

func TestScanSkipsUnreadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions work differently on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}

	dir := t.TempDir()
	testutil.ExtractTxtar(t, []byte(`
-- a/a.go --
package a
-- locked/l.go --
package locked
`), dir)
	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	tree, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan must not fail on unreadable directories: %v", err)
	}
	testutil.AssertEqual(t, tree.BuildDirs, []string{filepath.Join(tree.Root, "a")})
	testutil.AssertEqual(t, tree.Skipped, []string{filepath.Join(tree.Root, "locked")})
}

func TestScanErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.go")
	if err := os.WriteFile(file, []byte("package file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"missing root": filepath.Join(dir, "missing"),
		"root is file": file,
	}
	for name, root := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Scan(root); err == nil {
				t.Fatalf("Scan(%q) succeeded, want error", root)
			}
		})
	}
}
