// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Presubmit runs the Go toolchain checks of a repository and prints a single
verdict.

Without flags it runs the full suite on the Go module enclosing the current
directory: go build, errcheck, goimports, gofmt, go test -race for every
package with tests, golint and go vet. All checks run at the same time, each
in its own process. The output of every failed check is printed, followed by
one summary line with the elapsed time. The exit status is 1 if any check
failed.

When the CI environment variable is "true", or TRAVIS_JOB_ID is set, the tests
are also run with coverage, the profiles are merged and uploaded with
goveralls. The -cover flag collects coverage locally and prints a per-function
summary instead.

Each of -build, -errcheck, -goimports, -gofmt, -golint, -govet and -test runs
only that check. They cannot be combined.

The suite is configured through a .devtools.txtar file in the repository root.
This file is a txtar archive and can contain a presubmit.json file with the
following fields:

  - errcheck, golint, govet: Booleans that disable the corresponding check
    when false.
  - tags: Build tags for the build check.
  - workspace_root: Directory that package arguments are made relative to.
    Defaults to the src directory of the first GOPATH entry.
  - tools: An object mapping a check name to the command replacing its
    program, for example {"golint": ["go", "tool", "staticcheck"]}.
  - install: A boolean that, if true, installs missing tools before running.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/presubmit/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
