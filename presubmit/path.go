// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath returns dir as an import-style path relative to workspaceRoot,
// which is what the go tool expects for packages in a GOPATH workspace.
//
// If workspaceRoot is empty, or dir is not inside it, dir is returned
// unchanged. The go tool accepts absolute directory paths too, so a missing
// workspace never aborts a run.
func ResolvePath(workspaceRoot, dir string) string {
	if workspaceRoot == "" {
		return dir
	}
	rel, err := filepath.Rel(workspaceRoot, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	return filepath.ToSlash(rel)
}

// WorkspaceRootFromGOPATH returns the src directory of the first GOPATH entry
// that has one, or an empty string.
func WorkspaceRootFromGOPATH(gopath string) string {
	for _, p := range filepath.SplitList(gopath) {
		if p == "" {
			continue
		}
		src := filepath.Join(p, "src")
		if fi, err := os.Stat(src); err == nil && fi.IsDir() {
			if real, err := filepath.EvalSymlinks(src); err == nil {
				return real
			}
			return src
		}
	}
	return ""
}
