// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"slices"
	"strings"
)

// Kind identifies a check, or an auxiliary command run by the presubmit.
type Kind string

// Known kinds.
const (
	KindBuild     Kind = "build"
	KindErrcheck  Kind = "errcheck"
	KindGoimports Kind = "goimports"
	KindGofmt     Kind = "gofmt"
	KindTest      Kind = "test"
	KindLint      Kind = "golint"
	KindVet       Kind = "govet"
	KindCover     Kind = "cover"
	KindUpload    Kind = "upload"
	KindCoverFunc Kind = "coverfunc"
	KindInstall   Kind = "install"
)

// Selectable are the kinds that can be run on their own.
var Selectable = []Kind{KindBuild, KindErrcheck, KindGoimports, KindGofmt, KindTest, KindLint, KindVet}

// Tools overrides the program part of a command per kind, for example
// {"golint": ["go", "tool", "staticcheck"]}. Check specific arguments are
// appended to the program.
type Tools map[Kind][]string

var defaultPrograms = Tools{
	KindBuild:     {"go", "build"},
	KindErrcheck:  {"errcheck"},
	KindGoimports: {"goimports"},
	KindGofmt:     {"gofmt"},
	KindTest:      {"go", "test"},
	KindLint:      {"golint"},
	KindVet:       {"go", "vet"},
	KindCover:     {"go", "test"},
	KindUpload:    {"goveralls"},
	KindCoverFunc: {"go", "tool", "cover"},
	KindInstall:   {"go", "install"},
}

func (t Tools) command(kind Kind, args ...string) []string {
	prog := t[kind]
	if len(prog) == 0 {
		prog = defaultPrograms[kind]
	}
	return append(slices.Clone(prog), args...)
}

// CheckSpec describes how to run one checker and how to judge its output.
type CheckSpec struct {
	// Kind is the kind of the check.
	Kind Kind
	// Args is the full command line; Args[0] is the program.
	Args []string
	// Dir is the working directory.
	Dir string
	// FailOnOutput makes any output left after filtering a failure.
	FailOnOutput bool
	// IgnoreExitCode is set for tools whose exit code carries no meaning.
	IgnoreExitCode bool
	// Verbose keeps the output of a successful run.
	Verbose bool
	// Filter, if set, rewrites the output lines before judging them.
	Filter LineFilter
	// Hint is printed before the output of a failed run.
	Hint string
}

// String returns the command line.
func (s *CheckSpec) String() string { return strings.Join(s.Args, " ") }

// classify decides whether a run failed and returns the text to report.
func (s *CheckSpec) classify(out string, exitCode int) (failed bool, text string) {
	if s.Filter != nil {
		out = FilterOutput(out, s.Filter)
	}
	failed = exitCode != 0 && !s.IgnoreExitCode
	if s.FailOnOutput && strings.TrimSpace(out) != "" {
		failed = true
	}
	if !failed {
		if s.Verbose {
			return false, out
		}
		return false, ""
	}
	if s.Hint != "" {
		out = s.Hint + "\n" + out
	}
	return true, out
}

// LineFilter rewrites the lines of a check's output.
type LineFilter func(lines []string) []string

// DropLines returns a LineFilter removing every line for which drop is true.
func DropLines(drop func(line string) bool) LineFilter {
	return func(lines []string) []string {
		return slices.DeleteFunc(lines, drop)
	}
}

// FilterOutput applies f to the lines of out. Applying it twice gives the
// same result as applying it once for any filter that only removes lines.
func FilterOutput(out string, f LineFilter) string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return ""
	}
	lines := f(strings.Split(out, "\n"))
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// VetNoise is the suffix of vet reports about unkeyed fields in composite
// literals. They cannot be turned off and are not considered actionable.
const VetNoise = " literal uses unkeyed fields"

// vetFilter drops VetNoise lines, then "# package" headers left without any
// report below them.
func vetFilter(lines []string) []string {
	lines = slices.DeleteFunc(lines, func(l string) bool { return strings.HasSuffix(l, VetNoise) })
	var out []string
	for i, l := range lines {
		if strings.HasPrefix(l, "# ") && (i+1 == len(lines) || strings.HasPrefix(lines[i+1], "# ")) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// BuildCheck builds every package of the tree. Tags are passed as one -tags
// flag, since the go command only honors the last one given.
func BuildCheck(tools Tools, root string, tags []string) *CheckSpec {
	var args []string
	if len(tags) > 0 {
		args = append(args, "-tags", strings.Join(tags, ","))
	}
	args = append(args, "./...")
	return &CheckSpec{Kind: KindBuild, Args: tools.command(KindBuild, args...), Dir: root}
}

// ErrcheckCheck looks for unchecked errors in dirs.
func ErrcheckCheck(tools Tools, root string, dirs []string) *CheckSpec {
	return &CheckSpec{Kind: KindErrcheck, Args: tools.command(KindErrcheck, dirs...), Dir: root}
}

// GofmtCheck lists files gofmt -s would change. gofmt exits with zero even
// when it lists files, so any output is a failure.
func GofmtCheck(tools Tools, root string) *CheckSpec {
	return &CheckSpec{
		Kind:         KindGofmt,
		Args:         tools.command(KindGofmt, "-l", "-s", "."),
		Dir:          root,
		FailOnOutput: true,
		Hint:         "These files are improperly formatted. Please run: gofmt -w -s .",
	}
}

// GoimportsCheck lists files goimports would change.
func GoimportsCheck(tools Tools, root string) *CheckSpec {
	return &CheckSpec{
		Kind:         KindGoimports,
		Args:         tools.command(KindGoimports, "-l", "."),
		Dir:          root,
		FailOnOutput: true,
		Hint:         "These files are improperly formatted. Please run: goimports -w .",
	}
}

// LintCheck lints dirs. The linter never signals problems through its exit
// code, only by printing them.
func LintCheck(tools Tools, root string, dirs []string) *CheckSpec {
	return &CheckSpec{
		Kind:           KindLint,
		Args:           tools.command(KindLint, dirs...),
		Dir:            root,
		FailOnOutput:   true,
		IgnoreExitCode: true,
		Hint:           "These files are not golint free.",
	}
}

// VetCheck vets every package of the tree, ignoring [VetNoise] reports.
func VetCheck(tools Tools, root string) *CheckSpec {
	return &CheckSpec{
		Kind:           KindVet,
		Args:           tools.command(KindVet, "./..."),
		Dir:            root,
		FailOnOutput:   true,
		IgnoreExitCode: true,
		Filter:         vetFilter,
	}
}

// TestCheck runs the tests of a single package with the race detector.
func TestCheck(tools Tools, root, pkg string) *CheckSpec {
	return &CheckSpec{Kind: KindTest, Args: tools.command(KindTest, "-race", pkg), Dir: root}
}

// CoverCheck runs the tests of a single package and writes a coverage profile
// for all packages of the tree to profile.
func CoverCheck(tools Tools, root, pkg, profile string) *CheckSpec {
	return &CheckSpec{
		Kind: KindCover,
		Args: tools.command(KindCover, "-covermode="+CoverMode, "-coverpkg", "./...", "-coverprofile="+profile, pkg),
		Dir:  root,
	}
}

// UploadCheck uploads a merged coverage profile.
func UploadCheck(tools Tools, root, profile string) *CheckSpec {
	return &CheckSpec{Kind: KindUpload, Args: tools.command(KindUpload, "-coverprofile="+profile), Dir: root}
}

// CoverFuncCheck prints per-function coverage of a profile.
func CoverFuncCheck(tools Tools, root, profile string) *CheckSpec {
	return &CheckSpec{Kind: KindCoverFunc, Args: tools.command(KindCoverFunc, "-func", profile), Dir: root, Verbose: true}
}
