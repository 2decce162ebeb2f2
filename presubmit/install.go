// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/go4org/hashtriemap"
	"golang.org/x/sync/errgroup"

	"go.astrophena.name/presubmit/logger"
)

// Tool is a prerequisite program of the checks.
type Tool struct {
	// Name identifies the tool.
	Name string
	// Probe is run to detect whether the tool is installed.
	Probe []string
	// Present lists the exit codes of Probe that mean the tool is installed.
	// Many tools exit with a non-zero code when asked for help, and which one
	// depends on the tool and on the Go version it was built with.
	Present []int
	// Package is the import path passed to go install.
	Package string
}

// DefaultTools are the tools the checks and the coverage upload need beyond
// the go command itself.
var DefaultTools = []Tool{
	{Name: "errcheck", Probe: []string{"errcheck", "-h"}, Present: []int{0, 2}, Package: "github.com/kisielk/errcheck"},
	{Name: "gocov", Probe: []string{"gocov", "-h"}, Present: []int{0, 2}, Package: "github.com/axw/gocov/gocov"},
	{Name: "goimports", Probe: []string{"goimports", "-h"}, Present: []int{0, 2}, Package: "golang.org/x/tools/cmd/goimports"},
	{Name: "golint", Probe: []string{"golint", "-h"}, Present: []int{0, 2}, Package: "golang.org/x/lint/golint"},
	{Name: "goveralls", Probe: []string{"goveralls", "-h"}, Present: []int{0, 2}, Package: "github.com/mattn/goveralls"},
}

// ErrInstallFailed is returned by [EnsureTools] when a tool could not be
// installed.
var ErrInstallFailed = errors.New("prerequisites installation failed")

// InstallOptions configure [EnsureTools].
type InstallOptions struct {
	// Update reinstalls every tool, even the ones that are present.
	Update bool
	// Tools overrides the install command, see [Tools].
	Tools Tools
	// Dir is the working directory of the install commands.
	Dir string
	// Stdout receives progress messages.
	Stdout io.Writer
}

// EnsureTools probes every tool concurrently and installs the missing ones.
func EnsureTools(ctx context.Context, tools []Tool, opts InstallOptions) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}

	var missing hashtriemap.HashTrieMap[string, bool]
	g, gctx := errgroup.WithContext(ctx)
	for _, tool := range tools {
		g.Go(func() error {
			if opts.Update || !probe(gctx, tool) {
				missing.LoadOrStore(tool.Package, true)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var pkgs []string
	for pkg := range missing.All() {
		pkgs = append(pkgs, pkg)
	}
	slices.Sort(pkgs)

	failed := false
	if len(pkgs) > 0 {
		fmt.Fprintln(stdout, "Installing:")
		for _, pkg := range pkgs {
			fmt.Fprintf(stdout, "  %s\n", pkg)
		}
		running := make([]*RunningCheck, len(pkgs))
		for i, pkg := range pkgs {
			running[i] = Launch(ctx, &CheckSpec{
				Kind: KindInstall,
				Args: opts.Tools.command(KindInstall, pkg+"@latest"),
				Dir:  opts.Dir,
			})
		}
		for _, rc := range running {
			if res := rc.Drain(); res.Failed {
				failed = true
				printFailure(stdout, res)
			}
		}
	}

	if failed {
		fmt.Fprintln(stdout, "Prerequisites installation failed.")
		return ErrInstallFailed
	}
	fmt.Fprintln(stdout, "Prerequisites check completed.")
	return nil
}

func probe(ctx context.Context, tool Tool) bool {
	res := Run(ctx, &CheckSpec{Kind: KindInstall, Args: tool.Probe, IgnoreExitCode: true})
	present := slices.Contains(tool.Present, res.ExitCode)
	logger.Debug(ctx, "probed tool",
		slog.String("tool", tool.Name),
		slog.Int("exit_code", res.ExitCode),
		slog.Bool("present", present),
	)
	return present
}

// printFailure prints the command line of a failed check followed by its
// output, indented.
func printFailure(w io.Writer, res CheckResult) {
	fmt.Fprintln(w, res.Command)
	for l := range strings.SplitSeq(strings.TrimRight(res.Output, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", l)
	}
}
