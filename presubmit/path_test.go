// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/presubmit/testutil"
)

func TestResolvePath(t *testing.T) {
	ws := filepath.FromSlash("/home/user/go/src")

	cases := map[string]struct {
		root string
		dir  string
		want string
	}{
		"inside workspace": {
			root: ws,
			dir:  filepath.Join(ws, "github.com", "user", "repo", "pkg"),
			want: "github.com/user/repo/pkg",
		},
		"no workspace": {
			root: "",
			dir:  filepath.FromSlash("/src/repo/pkg"),
			want: filepath.FromSlash("/src/repo/pkg"),
		},
		"outside workspace": {
			root: ws,
			dir:  filepath.FromSlash("/srv/repo/pkg"),
			want: filepath.FromSlash("/srv/repo/pkg"),
		},
		"workspace itself": {
			root: ws,
			dir:  ws,
			want: ws,
		},
		"sibling with common prefix": {
			root: ws,
			dir:  filepath.FromSlash("/home/user/go/src2/pkg"),
			want: filepath.FromSlash("/home/user/go/src2/pkg"),
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, ResolvePath(tc.root, tc.dir), tc.want)
		})
	}
}

func TestWorkspaceRootFromGOPATH(t *testing.T) {
	withSrc := t.TempDir()
	if err := os.Mkdir(filepath.Join(withSrc, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	withoutSrc := t.TempDir()
	src, err := filepath.EvalSymlinks(filepath.Join(withSrc, "src"))
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]struct {
		gopath string
		want   string
	}{
		"empty":               {gopath: "", want: ""},
		"no src":              {gopath: withoutSrc, want: ""},
		"single":              {gopath: withSrc, want: src},
		"first with src wins": {gopath: withoutSrc + string(filepath.ListSeparator) + withSrc, want: src},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, WorkspaceRootFromGOPATH(tc.gopath), tc.want)
		})
	}
}
