// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package internal contains helpers shared by the development tools.
package internal

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNoModule is returned by [FindRoot] when no go.mod is found.
var ErrNoModule = errors.New("not inside a Go module (no go.mod found)")

// FindRoot returns the closest directory at or above dir that contains a
// go.mod file.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoModule
		}
		dir = parent
	}
}
