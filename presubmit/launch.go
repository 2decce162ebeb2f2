// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"go.astrophena.name/presubmit/logger"
	"go.astrophena.name/presubmit/syncx"
)

// CheckResult is the outcome of a drained check.
type CheckResult struct {
	Kind    Kind
	Command string
	Dir     string
	Failed  bool
	// ExitCode is -1 if the process did not start or was killed by a signal.
	ExitCode int
	// Output is the filtered, merged output of a failed run, or of a
	// successful run of a verbose check. Empty otherwise.
	Output   string
	Duration time.Duration
}

// RunningCheck is a started check process.
type RunningCheck struct {
	spec   *CheckSpec
	cmd    *exec.Cmd
	out    bytes.Buffer
	start  time.Time
	err    error // start error
	result syncx.Lazy[CheckResult]
}

// waitDelay bounds how long Drain waits for the output of a canceled process
// to be closed by its children.
const waitDelay = 5 * time.Second

// Launch starts the process described by spec with stdout and stderr merged
// into one buffer. It does not wait for the process to exit.
//
// The process and, on Unix, every process it started are killed if ctx is
// canceled. There is no timeout: a tool that hangs keeps the check running.
func Launch(ctx context.Context, spec *CheckSpec) *RunningCheck {
	logger.Debug(ctx, "launching check",
		slog.String("cwd", spec.Dir),
		slog.String("cmd", spec.String()),
	)

	rc := &RunningCheck{spec: spec, start: time.Now()}
	if len(spec.Args) == 0 {
		rc.err = errors.New("empty command")
		return rc
	}

	cmd := exec.CommandContext(ctx, spec.Args[0], spec.Args[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = &rc.out
	cmd.Stderr = &rc.out
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)
	if err := cmd.Start(); err != nil {
		rc.err = err
		return rc
	}
	rc.cmd = cmd
	return rc
}

// Drain waits for the process to exit and classifies its output. Calling
// Drain again returns the same result. A nil RunningCheck drains to a
// failure.
func (rc *RunningCheck) Drain() CheckResult {
	if rc == nil {
		return CheckResult{Failed: true, ExitCode: -1, Output: "process failed to start\n"}
	}
	return rc.result.Get(rc.wait)
}

func (rc *RunningCheck) wait() CheckResult {
	res := CheckResult{
		Kind:    rc.spec.Kind,
		Command: rc.spec.String(),
		Dir:     rc.spec.Dir,
	}

	if rc.err != nil {
		res.Failed = true
		res.ExitCode = -1
		res.Output = fmt.Sprintf("process failed to start: %v\n", rc.err)
		res.Duration = time.Since(rc.start)
		return res
	}

	// Wait returns after the copying goroutine has consumed all output, so
	// the buffer is complete here.
	err := rc.cmd.Wait()
	res.Duration = time.Since(rc.start)

	out := rc.out.String()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		out += err.Error() + "\n"
	}

	res.Failed, res.Output = rc.spec.classify(out, res.ExitCode)
	if res.ExitCode == -1 && !res.Failed {
		// Killed or not waited for; never a success.
		res.Failed = true
		res.Output = out
	}
	return res
}

// Run launches spec and drains it.
func Run(ctx context.Context, spec *CheckSpec) CheckResult {
	return Launch(ctx, spec).Drain()
}
