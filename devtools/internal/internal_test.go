// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/presubmit/testutil"
)

func TestFindRoot(t *testing.T) {
	dir := t.TempDir()
	testutil.ExtractTxtar(t, []byte(`
-- mod/go.mod --
module example.com/mod
-- mod/a/b/b.go --
package b
`), dir)

	root := filepath.Join(dir, "mod")
	cases := map[string]string{
		"module root": root,
		"nested":      filepath.Join(root, "a", "b"),
	}
	for name, start := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := FindRoot(start)
			if err != nil {
				t.Fatalf("FindRoot(%q): %v", start, err)
			}
			testutil.AssertEqual(t, got, root)
		})
	}
}

func TestFindRootNoModule(t *testing.T) {
	dir := t.TempDir()
	if _, err := os.Stat("/go.mod"); err == nil {
		t.Skip("a go.mod exists at the filesystem root")
	}
	_, err := FindRoot(dir)
	if !errors.Is(err, ErrNoModule) {
		t.Fatalf("FindRoot(%q) = %v, want %v", dir, err, ErrNoModule)
	}
}
