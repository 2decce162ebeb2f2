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
	"time"

	"github.com/fatih/color"

	"go.astrophena.name/presubmit/logger"
)

// ErrChecksFailed is returned by callers of [Runner] when the verdict is a
// failure.
var ErrChecksFailed = errors.New("presubmit checks failed")

// Config configures a [Runner].
type Config struct {
	// Root is the directory of the tree to check.
	Root string
	// WorkspaceRoot, if set, makes package arguments relative to it, see
	// [ResolvePath].
	WorkspaceRoot string
	// CI enables coverage and uploads the merged profile.
	CI bool
	// Coverage enables coverage outside of CI. The merged profile is
	// summarized per function instead of uploaded.
	Coverage bool
	// Errcheck, Lint and Vet enable the corresponding checks in the full suite.
	Errcheck bool
	Lint     bool
	Vet      bool
	// Tags are build tags for the build check.
	Tags []string
	// InstallTools installs missing tools before running the checks.
	InstallTools bool
	// Update reinstalls every tool when InstallTools is set.
	Update bool
	// Tools overrides the commands run for each kind.
	Tools Tools
	// TempDir is where the coverage directory is created. Defaults to the
	// system temporary directory.
	TempDir string
	// HTMLReport, if set, is the path an HTML report of the run is written to.
	HTMLReport string
	// Color enables colored output.
	Color bool
	// Stdout receives the report. Defaults to io.Discard.
	Stdout io.Writer
}

// Verdict is the outcome of a run.
type Verdict struct {
	Failed  bool
	Elapsed time.Duration
	// Results are in launch order.
	Results []CheckResult
	// Coverage is the per-function coverage summary, if one was made.
	Coverage string
}

// ExitCode returns the process exit code for v.
func (v *Verdict) ExitCode() int {
	if v.Failed {
		return 1
	}
	return 0
}

// Runner runs presubmit checks.
type Runner struct {
	cfg    Config
	stdout io.Writer
}

// New returns a Runner for cfg.
func New(cfg Config) *Runner {
	r := &Runner{cfg: cfg, stdout: cfg.Stdout}
	if r.stdout == nil {
		r.stdout = io.Discard
	}
	return r
}

// Run runs the full suite and prints the output of every failed check
// followed by a summary line. It returns an error only when the run could not
// be set up; failed checks are reported in the Verdict.
func (r *Runner) Run(ctx context.Context) (*Verdict, error) {
	start := time.Now()

	unlock, err := Lock(r.cfg.Root)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if r.cfg.InstallTools {
		// Missing tools surface again as failed checks.
		if err := EnsureTools(ctx, DefaultTools, InstallOptions{
			Update: r.cfg.Update,
			Tools:  r.cfg.Tools,
			Dir:    r.cfg.Root,
			Stdout: r.stdout,
		}); err != nil {
			logger.Warn(ctx, "installing prerequisites", slog.Any("err", err))
		}
	}

	tree, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	specs := r.suite(tree)

	var cov *coverage
	if r.cfg.CI || r.cfg.Coverage {
		cov, err = newCoverage(r.cfg.TempDir)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := cov.Close(); err != nil {
				logger.Error(ctx, "removing coverage directory", slog.String("dir", cov.dir), slog.Any("err", err))
			}
		}()
		for _, dir := range tree.TestDirs {
			specs = append(specs, CoverCheck(r.cfg.Tools, tree.Root, r.pkg(dir), cov.next()))
		}
	}

	v := r.launchAndDrain(ctx, specs)
	if cov != nil {
		r.finishCoverage(ctx, tree.Root, cov, v)
	}
	v.Elapsed = time.Since(start)

	r.summarize(v)

	if r.cfg.HTMLReport != "" {
		if err := WriteReport(ctx, r.cfg.HTMLReport, v); err != nil {
			return v, fmt.Errorf("writing HTML report: %w", err)
		}
	}
	return v, nil
}

// RunOne runs the checks of a single kind and prints the output of the failed
// ones, without a summary line.
func (r *Runner) RunOne(ctx context.Context, kind Kind) (*Verdict, error) {
	if !slices.Contains(Selectable, kind) {
		return nil, fmt.Errorf("unknown check %q", kind)
	}
	start := time.Now()

	tree, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	var specs []*CheckSpec
	switch kind {
	case KindBuild:
		specs = append(specs, BuildCheck(r.cfg.Tools, tree.Root, r.cfg.Tags))
	case KindErrcheck:
		specs = append(specs, ErrcheckCheck(r.cfg.Tools, tree.Root, r.pkgs(tree.BuildDirs)))
	case KindGoimports:
		specs = append(specs, GoimportsCheck(r.cfg.Tools, tree.Root))
	case KindGofmt:
		specs = append(specs, GofmtCheck(r.cfg.Tools, tree.Root))
	case KindTest:
		specs = append(specs, r.tests(tree)...)
	case KindLint:
		specs = append(specs, LintCheck(r.cfg.Tools, tree.Root, tree.BuildDirs))
	case KindVet:
		specs = append(specs, VetCheck(r.cfg.Tools, tree.Root))
	}

	v := r.launchAndDrain(ctx, specs)
	v.Elapsed = time.Since(start)
	return v, nil
}

func (r *Runner) scan(ctx context.Context) (*Tree, error) {
	tree, err := Scan(r.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", r.cfg.Root, err)
	}
	for _, dir := range tree.Skipped {
		logger.Warn(ctx, "skipped unreadable directory", slog.String("dir", dir))
	}
	logger.Debug(ctx, "scanned tree",
		slog.String("root", tree.Root),
		slog.Int("build_dirs", len(tree.BuildDirs)),
		slog.Int("test_dirs", len(tree.TestDirs)),
	)
	return tree, nil
}

// suite returns the checks of a full run in launch order.
func (r *Runner) suite(tree *Tree) []*CheckSpec {
	specs := []*CheckSpec{BuildCheck(r.cfg.Tools, tree.Root, r.cfg.Tags)}
	if r.cfg.Errcheck {
		specs = append(specs, ErrcheckCheck(r.cfg.Tools, tree.Root, r.pkgs(tree.BuildDirs)))
	}
	specs = append(specs,
		GoimportsCheck(r.cfg.Tools, tree.Root),
		GofmtCheck(r.cfg.Tools, tree.Root),
	)
	// One process per package instead of ./... lets the tests of all
	// packages run at the same time.
	specs = append(specs, r.tests(tree)...)
	if r.cfg.Lint {
		specs = append(specs, LintCheck(r.cfg.Tools, tree.Root, tree.BuildDirs))
	}
	if r.cfg.Vet {
		specs = append(specs, VetCheck(r.cfg.Tools, tree.Root))
	}
	return specs
}

func (r *Runner) tests(tree *Tree) []*CheckSpec {
	specs := make([]*CheckSpec, 0, len(tree.TestDirs))
	for _, dir := range tree.TestDirs {
		specs = append(specs, TestCheck(r.cfg.Tools, tree.Root, r.pkg(dir)))
	}
	return specs
}

func (r *Runner) pkg(dir string) string { return ResolvePath(r.cfg.WorkspaceRoot, dir) }

func (r *Runner) pkgs(dirs []string) []string {
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		out[i] = r.pkg(dir)
	}
	return out
}

// launchAndDrain starts every check before waiting for any of them, then
// drains them in launch order.
func (r *Runner) launchAndDrain(ctx context.Context, specs []*CheckSpec) *Verdict {
	running := make([]*RunningCheck, len(specs))
	for i, spec := range specs {
		running[i] = Launch(ctx, spec)
	}

	v := &Verdict{Results: make([]CheckResult, 0, len(running))}
	for _, rc := range running {
		res := rc.Drain()
		logger.Debug(ctx, "drained check",
			slog.String("cmd", res.Command),
			slog.Bool("failed", res.Failed),
			slog.Duration("duration", res.Duration),
		)
		v.Results = append(v.Results, res)
		if res.Failed {
			v.Failed = true
			printFailure(r.stdout, res)
		}
	}
	return v
}

func (r *Runner) finishCoverage(ctx context.Context, root string, cov *coverage, v *Verdict) {
	profile, err := cov.merge()
	if err != nil {
		v.Failed = true
		fmt.Fprintf(r.stdout, "Merging coverage profiles failed: %v\n", err)
		return
	}

	if r.cfg.CI {
		res := Run(ctx, UploadCheck(r.cfg.Tools, root, profile))
		v.Results = append(v.Results, res)
		if res.Failed {
			v.Failed = true
			printFailure(r.stdout, res)
		}
		return
	}

	res := Run(ctx, CoverFuncCheck(r.cfg.Tools, root, profile))
	if res.Failed {
		logger.Warn(ctx, "summarizing coverage", slog.String("cmd", res.Command), slog.String("output", res.Output))
		return
	}
	v.Coverage = res.Output
	fmt.Fprint(r.stdout, res.Output)
}

func (r *Runner) summarize(v *Verdict) {
	c, word := color.New(color.FgGreen, color.Bold), "succeeded"
	if v.Failed {
		c, word = color.New(color.FgRed, color.Bold), "failed"
	}
	if r.cfg.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprintf(r.stdout, "Presubmit checks %s in %1.3fs!\n", word, v.Elapsed.Seconds())
}
