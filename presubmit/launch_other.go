// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build !unix

package presubmit

import "os/exec"

// killGroupOnCancel leaves the default cancellation in place. Children of the
// process are cut loose by [waitDelay].
func killGroupOnCancel(*exec.Cmd) {}
