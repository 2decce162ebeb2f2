// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.astrophena.name/presubmit/cli"
	"go.astrophena.name/presubmit/githook"
	"go.astrophena.name/presubmit/presubmit"
)

const hookShellScript = `#!/bin/sh
echo "==> Running presubmit checks..."
exec go tool presubmit
`

func main() { cli.Main(new(app)) }

type app struct {
	dir       string
	skipTools bool
	update    bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.dir, "dir", "", "Install the hook into the repository containing `dir` instead of the current directory.")
	fs.BoolVar(&a.skipTools, "skip-tools", false, "Don't check for and install prerequisite tools.")
	fs.BoolVar(&a.update, "u", false, "Reinstall all prerequisite tools.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	dir := a.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
	}

	if !a.skipTools {
		if err := presubmit.EnsureTools(ctx, presubmit.DefaultTools, presubmit.InstallOptions{
			Update: a.update,
			Dir:    dir,
			Stdout: env.Stdout,
		}); err != nil {
			return err
		}
	}

	dest, err := githook.Install(ctx, dir, []byte(hookShellScript))
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stdout, "Installed %s\n", dest)
	return nil
}
