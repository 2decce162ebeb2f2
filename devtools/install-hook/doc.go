// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Install-hook installs a Git pre-commit hook that runs 'go tool presubmit'.

It first checks that the tools the presubmit checks need are installed, and
installs the missing ones with 'go install'. Then it finds the Git directory of
the repository containing the current directory and creates hooks/pre-commit
in it.

An existing pre-commit hook is never overwritten: install-hook prints an error
and exits with status 1 instead.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/presubmit/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
