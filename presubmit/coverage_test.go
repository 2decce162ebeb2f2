// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/presubmit/testutil"
)

func TestMergeProfiles(t *testing.T) {
	cases := map[string]struct {
		profiles []string // "" means the file is not written
		want     string
	}{
		"no profiles": {
			want: "mode: count\n",
		},
		"in order": {
			profiles: []string{
				"mode: count\na.go:1.1,2.2 1 1\n",
				"mode: count\nb.go:1.1,2.2 1 0\nb.go:3.1,4.2 1 2\n",
			},
			want: "mode: count\na.go:1.1,2.2 1 1\nb.go:1.1,2.2 1 0\nb.go:3.1,4.2 1 2\n",
		},
		"missing profile is skipped": {
			profiles: []string{
				"",
				"mode: count\nb.go:1.1,2.2 1 0\n",
			},
			want: "mode: count\nb.go:1.1,2.2 1 0\n",
		},
		"no trailing newline": {
			profiles: []string{
				"mode: count\na.go:1.1,2.2 1 1",
				"mode: count\nb.go:1.1,2.2 1 0",
			},
			want: "mode: count\na.go:1.1,2.2 1 1\nb.go:1.1,2.2 1 0\n",
		},
		"header only": {
			profiles: []string{"mode: count\n", "mode: count"},
			want:     "mode: count\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			var paths []string
			for i, p := range tc.profiles {
				path := filepath.Join(dir, fmt.Sprintf("test%d.cov", i))
				paths = append(paths, path)
				if p == "" {
					continue
				}
				if err := os.WriteFile(path, []byte(p), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			var sb strings.Builder
			if err := MergeProfiles(&sb, paths); err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, sb.String(), tc.want)
		})
	}
}

func TestCoverageLifecycle(t *testing.T) {
	parent := t.TempDir()
	cov, err := newCoverage(parent)
	if err != nil {
		t.Fatal(err)
	}

	p0, p1 := cov.next(), cov.next()
	testutil.AssertEqual(t, filepath.Base(p0), "test0.cov")
	testutil.AssertEqual(t, filepath.Base(p1), "test1.cov")
	if err := os.WriteFile(p1, []byte("mode: count\na.go:1.1,2.2 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	merged, err := cov.merge()
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(merged)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(b), "mode: count\na.go:1.1,2.2 1 1\n")

	if err := cov.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cov.dir); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("coverage directory still exists: %v", err)
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, len(entries), 0)
}
