// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.astrophena.name/presubmit/testutil"
)

func TestReport(t *testing.T) {
	v := &Verdict{
		Failed:  true,
		Elapsed: 1500 * time.Millisecond,
		Results: []CheckResult{
			{Kind: KindBuild, Command: "go build ./...", Duration: time.Second},
			{Kind: KindTest, Command: "go test -race ./b", Failed: true, ExitCode: 1, Output: "want <nil> & got \"x\"\n"},
		},
		Coverage: "total:\t(statements)\t42.0%\n",
	}

	var sb strings.Builder
	if err := Report(v).Render(context.Background(), &sb); err != nil {
		t.Fatal(err)
	}
	got := sb.String()

	for _, want := range []string{
		"<title>Presubmit checks failed</title>",
		"Presubmit checks failed in 1.500s",
		"<td><code>go build ./...</code></td><td>ok</td>",
		"failed (exit code 1)",
		"<tr class=\"passed\"><td>build</td>",
		"<tr class=\"failed\"><td>test</td>",
		"want &lt;nil&gt; &amp; got &#34;x&#34;",
		"42.0%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<nil>") {
		t.Errorf("report contains unescaped output:\n%s", got)
	}
}

func TestReportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var sb strings.Builder
	if err := Report(&Verdict{}).Render(ctx, &sb); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render: got %v, want %v", err, context.Canceled)
	}
	testutil.AssertEqual(t, sb.String(), "")
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteReport(context.Background(), path, &Verdict{}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Presubmit checks succeeded") {
		t.Errorf("unexpected report:\n%s", b)
	}
}
