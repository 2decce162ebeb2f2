// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

//go:generate go tool templ generate -f report.templ

import (
	"context"
	"fmt"
	"os"
	"time"
)

func status(v *Verdict) string {
	if v.Failed {
		return "failed"
	}
	return "succeeded"
}

func seconds(d time.Duration) string { return fmt.Sprintf("%1.3fs", d.Seconds()) }

func duration(d time.Duration) string { return d.Round(time.Millisecond).String() }

func resultText(res CheckResult) string {
	if res.Failed {
		return fmt.Sprintf("failed (exit code %d)", res.ExitCode)
	}
	return "ok"
}

// WriteReport writes the HTML report of v, rendered by [Report], to path.
func WriteReport(ctx context.Context, path string, v *Verdict) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Report(v).Render(ctx, f)
}
