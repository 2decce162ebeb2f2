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
	"go.astrophena.name/presubmit/devtools/internal"
	"go.astrophena.name/presubmit/presubmit"
)

func main() { cli.Main(new(app)) }

type app struct {
	root    string
	tags    []string
	only    map[presubmit.Kind]*bool
	cover   bool
	install bool
	update  bool
	html    string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.root, "root", "", "Check the tree at `dir` instead of the enclosing Go module.")
	fs.Func("tag", "Build `tag` passed to the build check. Can be repeated.", func(s string) error {
		a.tags = append(a.tags, s)
		return nil
	})
	a.only = make(map[presubmit.Kind]*bool)
	for _, k := range presubmit.Selectable {
		a.only[k] = fs.Bool(string(k), false, fmt.Sprintf("Run only the %s check.", k))
	}
	fs.BoolVar(&a.cover, "cover", false, "Collect coverage and print a per-function summary.")
	fs.BoolVar(&a.install, "install", false, "Install missing tools before running the checks.")
	fs.BoolVar(&a.update, "u", false, "With -install, reinstall all tools.")
	fs.StringVar(&a.html, "html", "", "Write an HTML report of the full suite to `file`.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	var selected []presubmit.Kind
	for _, k := range presubmit.Selectable {
		if *a.only[k] {
			selected = append(selected, k)
		}
	}
	if len(selected) > 1 {
		return fmt.Errorf("%w: -%s and -%s are mutually exclusive", cli.ErrInvalidArgs, selected[0], selected[1])
	}

	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if root, err = internal.FindRoot(wd); err != nil {
			return err
		}
	}

	fc, err := presubmit.LoadConfig(root)
	if err != nil {
		return err
	}
	cfg := presubmit.Config{
		Root:          root,
		WorkspaceRoot: presubmit.WorkspaceRootFromGOPATH(env.Getenv("GOPATH")),
		CI:            env.Getenv("CI") == "true" || env.Getenv("TRAVIS_JOB_ID") != "",
		Coverage:      a.cover,
		Tags:          a.tags,
		InstallTools:  a.install,
		Update:        a.update,
		HTMLReport:    a.html,
		Color:         cli.IsTerminalWriter(env.Stdout),
		Stdout:        env.Stdout,
	}
	fc.Apply(&cfg)

	r := presubmit.New(cfg)
	var v *presubmit.Verdict
	if len(selected) == 1 {
		v, err = r.RunOne(ctx, selected[0])
	} else {
		v, err = r.Run(ctx)
	}
	if err != nil {
		return err
	}
	if v.Failed {
		// Everything has been printed already.
		return cli.Silent(presubmit.ErrChecksFailed)
	}
	return nil
}
