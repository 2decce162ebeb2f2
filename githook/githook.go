// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package githook installs Git hooks.
package githook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.astrophena.name/presubmit/logger"
)

var (
	// ErrNoGitDir is returned when dir is not inside a Git repository.
	ErrNoGitDir = errors.New("failed to find parent git repository root")
	// ErrHookExists is returned when the hook is already installed. The
	// existing hook is never overwritten.
	ErrHookExists = errors.New("already exists, aborting")
)

// GitDir returns the absolute path of the Git directory of the repository
// containing dir.
func GitDir(ctx context.Context, dir string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		logger.Debug(ctx, "git rev-parse failed", slog.String("dir", dir), slog.String("stderr", stderr.String()))
		return "", fmt.Errorf("%w: %v", ErrNoGitDir, err)
	}
	gitDir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}
	return filepath.Clean(gitDir), nil
}

// Install writes script as the pre-commit hook of the repository containing
// dir and returns the path of the hook.
func Install(ctx context.Context, dir string, script []byte) (string, error) {
	gitDir, err := GitDir(ctx, dir)
	if err != nil {
		return "", err
	}

	hooks := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooks, 0o755); err != nil {
		return "", err
	}

	dest := filepath.Join(hooks, "pre-commit")
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return dest, fmt.Errorf("%s %w", dest, ErrHookExists)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(script); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	logger.Debug(ctx, "installed hook", slog.String("path", dest))
	return dest, nil
}
