// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package presubmit runs the Go toolchain checks of a repository and reduces
// their results into a single verdict.
//
// Every check is an external process. A [Runner] launches all of them before
// draining any, so the total run time approaches the slowest check rather
// than the sum of all checks. Each process writes into its own buffer, and a
// failing check never affects the output of another one.
//
// The checks are:
//
//   - build: go build ./... with optional build tags;
//   - errcheck: unchecked errors in every directory with Go source;
//   - goimports and gofmt: any listed file is a failure;
//   - test: go test -race, one process per directory with tests;
//   - golint: any output is a failure;
//   - govet: go vet ./..., ignoring unkeyed composite literal reports;
//   - coverage: go test -coverprofile per test directory, merged into one
//     profile and uploaded under CI.
package presubmit
