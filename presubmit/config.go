// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package presubmit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/tools/txtar"
)

// ConfigArchive is the name of the repository configuration archive, relative
// to the repository root.
const ConfigArchive = ".devtools.txtar"

// configMember is the archive member holding the presubmit configuration.
const configMember = "presubmit.json"

// FileConfig is the repository configuration stored in [ConfigArchive].
type FileConfig struct {
	Errcheck      *bool    `json:"errcheck"`
	Lint          *bool    `json:"golint"`
	Vet           *bool    `json:"govet"`
	Tags          []string `json:"tags"`
	WorkspaceRoot string   `json:"workspace_root"`
	Tools         Tools    `json:"tools"`
	Install       bool     `json:"install"`
}

// LoadConfig reads the configuration of the repository at root. A missing
// archive or member gives the zero FileConfig.
func LoadConfig(root string) (FileConfig, error) {
	var fc FileConfig
	path := filepath.Join(root, ConfigArchive)
	ar, err := txtar.ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}
	for _, f := range ar.Files {
		if f.Name != configMember {
			continue
		}
		if err := json.Unmarshal(f.Data, &fc); err != nil {
			return fc, fmt.Errorf("%s: %s: %w", path, configMember, err)
		}
	}
	return fc, nil
}

// Apply merges fc into cfg. Errcheck, golint and govet are enabled unless
// the file disables them. A relative workspace root is resolved against the
// repository root.
func (fc FileConfig) Apply(cfg *Config) {
	cfg.Errcheck = enabled(fc.Errcheck)
	cfg.Lint = enabled(fc.Lint)
	cfg.Vet = enabled(fc.Vet)
	cfg.Tags = append(cfg.Tags, fc.Tags...)
	if fc.WorkspaceRoot != "" {
		cfg.WorkspaceRoot = fc.WorkspaceRoot
		if !filepath.IsAbs(cfg.WorkspaceRoot) {
			cfg.WorkspaceRoot = filepath.Join(cfg.Root, cfg.WorkspaceRoot)
		}
	}
	if len(fc.Tools) > 0 {
		if cfg.Tools == nil {
			cfg.Tools = make(Tools)
		}
		for k, v := range fc.Tools {
			cfg.Tools[k] = v
		}
	}
	cfg.InstallTools = cfg.InstallTools || fc.Install
}

func enabled(b *bool) bool { return b == nil || *b }
