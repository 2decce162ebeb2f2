// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"strings"
	"testing"

	"go.astrophena.name/presubmit/testutil"
)

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		spec       *CheckSpec
		out        string
		exitCode   int
		wantFailed bool
		wantText   string
	}{
		"exit code success hides output": {
			spec:       TestCheck(nil, "/r", "pkg"),
			out:        "ok  \tpkg\t0.1s\n",
			exitCode:   0,
			wantFailed: false,
			wantText:   "",
		},
		"exit code failure keeps output": {
			spec:       TestCheck(nil, "/r", "pkg"),
			out:        "--- FAIL: TestX\n",
			exitCode:   1,
			wantFailed: true,
			wantText:   "--- FAIL: TestX\n",
		},
		"gofmt output is failure despite zero exit": {
			spec:       GofmtCheck(nil, "/r"),
			out:        "a.go\n",
			exitCode:   0,
			wantFailed: true,
			wantText:   "These files are improperly formatted. Please run: gofmt -w -s .\na.go\n",
		},
		"gofmt no output passes": {
			spec:       GofmtCheck(nil, "/r"),
			out:        "",
			exitCode:   0,
			wantFailed: false,
		},
		"goimports whitespace only passes": {
			spec:       GoimportsCheck(nil, "/r"),
			out:        "\n\n",
			exitCode:   0,
			wantFailed: false,
		},
		"lint ignores exit code": {
			spec:       LintCheck(nil, "/r", []string{"/r"}),
			out:        "",
			exitCode:   3,
			wantFailed: false,
		},
		"lint output is failure": {
			spec:       LintCheck(nil, "/r", []string{"/r"}),
			out:        "a.go:1:1: exported F should have comment\n",
			exitCode:   0,
			wantFailed: true,
			wantText:   "These files are not golint free.\na.go:1:1: exported F should have comment\n",
		},
		"vet noise only passes": {
			spec:       VetCheck(nil, "/r"),
			out:        "# example.com/a\na.go:3:9: example.com/b.T struct literal uses unkeyed fields\n",
			exitCode:   1,
			wantFailed: false,
		},
		"vet old noise only passes": {
			spec:       VetCheck(nil, "/r"),
			out:        "a.go:3:9: composite literal uses unkeyed fields\n",
			exitCode:   1,
			wantFailed: false,
		},
		"vet real report fails": {
			spec:       VetCheck(nil, "/r"),
			out:        "# example.com/a\na.go:3:9: composite literal uses unkeyed fields\na.go:5:2: unreachable code\n",
			exitCode:   1,
			wantFailed: true,
			wantText:   "# example.com/a\na.go:5:2: unreachable code\n",
		},
		"verbose keeps output on success": {
			spec:       CoverFuncCheck(nil, "/r", "p.cov"),
			out:        "total:\t(statements)\t50.0%\n",
			exitCode:   0,
			wantFailed: false,
			wantText:   "total:\t(statements)\t50.0%\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			failed, text := tc.spec.classify(tc.out, tc.exitCode)
			testutil.AssertEqual(t, failed, tc.wantFailed)
			testutil.AssertEqual(t, text, tc.wantText)
		})
	}
}

func TestFilterOutputIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"a.go:1:1: composite literal uses unkeyed fields\n",
		"# a\n# [a]\na.go:1:1: composite literal uses unkeyed fields\nb.go:2:2: bad\n",
		"# a\n# b\n# c\nx\n",
		"no trailing newline",
	}
	filters := map[string]LineFilter{
		"vet":  vetFilter,
		"drop": DropLines(func(l string) bool { return strings.HasPrefix(l, "#") }),
	}

	for name, f := range filters {
		for _, in := range inputs {
			once := FilterOutput(in, f)
			twice := FilterOutput(once, f)
			if once != twice {
				t.Errorf("%s filter on %q: once = %q, twice = %q", name, in, once, twice)
			}
		}
	}
}

func TestCheckArgs(t *testing.T) {
	tools := Tools{KindLint: {"go", "tool", "staticcheck"}}

	cases := map[string]struct {
		spec *CheckSpec
		want []string
	}{
		"build": {
			spec: BuildCheck(tools, "/r", nil),
			want: []string{"go", "build", "./..."},
		},
		"build with tags": {
			spec: BuildCheck(tools, "/r", []string{"integration", "linux"}),
			want: []string{"go", "build", "-tags", "integration,linux", "./..."},
		},
		"errcheck": {
			spec: ErrcheckCheck(tools, "/r", []string{"a", "b"}),
			want: []string{"errcheck", "a", "b"},
		},
		"gofmt": {
			spec: GofmtCheck(tools, "/r"),
			want: []string{"gofmt", "-l", "-s", "."},
		},
		"goimports": {
			spec: GoimportsCheck(tools, "/r"),
			want: []string{"goimports", "-l", "."},
		},
		"lint override": {
			spec: LintCheck(tools, "/r", []string{"/r/a"}),
			want: []string{"go", "tool", "staticcheck", "/r/a"},
		},
		"vet": {
			spec: VetCheck(tools, "/r"),
			want: []string{"go", "vet", "./..."},
		},
		"test": {
			spec: TestCheck(tools, "/r", "example.com/a"),
			want: []string{"go", "test", "-race", "example.com/a"},
		},
		"cover": {
			spec: CoverCheck(tools, "/r", "example.com/a", "/tmp/test0.cov"),
			want: []string{"go", "test", "-covermode=count", "-coverpkg", "./...", "-coverprofile=/tmp/test0.cov", "example.com/a"},
		},
		"upload": {
			spec: UploadCheck(tools, "/r", "/tmp/profile.cov"),
			want: []string{"goveralls", "-coverprofile=/tmp/profile.cov"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, tc.spec.Args, tc.want)
			testutil.AssertEqual(t, tc.spec.Dir, "/r")
		})
	}
}

func TestToolsOverrideDoesNotAlias(t *testing.T) {
	tools := Tools{KindTest: {"gotest"}}
	a := TestCheck(tools, "/r", "a")
	b := TestCheck(tools, "/r", "b")
	testutil.AssertEqual(t, a.Args, []string{"gotest", "-race", "a"})
	testutil.AssertEqual(t, b.Args, []string{"gotest", "-race", "b"})
	testutil.AssertEqual(t, tools[KindTest], []string{"gotest"})
}
