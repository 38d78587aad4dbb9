package session

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Directories excluded from project scans.
var pruneDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	".idea":        true,
	"dist":         true,
	"build":        true,
}

// Scans stop collecting after this many files to keep manifests bounded.
const maxScanFiles = 2000

// FileInfo captures the metadata the scan keeps per file.
type FileInfo struct {
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Project describes the workspace an agent operates in.
type Project struct {
	Root  string              `json:"root"`
	Name  string              `json:"name"`
	Files map[string]FileInfo `json:"files"`
}

// ScanProject walks root and records visible files, pruning dependency and
// VCS directories. The scan is best-effort: unreadable entries are skipped.
func ScanProject(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	p := &Project{
		Root:  abs,
		Name:  filepath.Base(abs),
		Files: make(map[string]FileInfo),
	}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != abs && (pruneDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(abs, path)
		if relErr != nil {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}

		p.Files[filepath.ToSlash(rel)] = FileInfo{Size: info.Size(), ModTime: info.ModTime()}

		if len(p.Files) >= maxScanFiles {
			return filepath.SkipAll
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan project %s: %w", abs, err)
	}

	return p, nil
}

// Manifest renders a compact file listing suitable for inclusion in a system
// prompt.
func (p *Project) Manifest() string {
	if p == nil || len(p.Files) == 0 {
		return ""
	}

	paths := make([]string, 0, len(p.Files))
	for path := range p.Files {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	var sb strings.Builder

	fmt.Fprintf(&sb, "Project: %s (%d files)\n", p.Name, len(p.Files))

	for _, path := range paths {
		fmt.Fprintf(&sb, "  %s (%d bytes)\n", path, p.Files[path].Size)
	}

	return strings.TrimRight(sb.String(), "\n")
}
