package tool

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hupe1980/agentcore/core"
)

const maxGrepMatches = 100

// Directories skipped by Glob and Grep traversal.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
}

// LSTool lists directory entries.
type LSTool struct{}

// NewLSTool creates the directory listing tool.
func NewLSTool() *LSTool { return &LSTool{} }

// Name implements Tool.
func (t *LSTool) Name() string { return "LS" }

// Description implements Tool.
func (t *LSTool) Description() string {
	return "List the entries of a directory. Directories are suffixed with a slash."
}

// Parameters implements Tool.
func (t *LSTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "Directory to list (defaults to the working directory).",
			},
		},
	}
}

// Call implements Tool.
func (t *LSTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	path, _ := args["path"].(string)
	if path == "" {
		path = tc.WorkDir()
	} else {
		path = resolvePath(tc, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("list %s: %v", path, err), CodeExecution)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}

		names = append(names, name)
	}

	sort.Strings(names)

	if len(names) == 0 {
		return "(empty directory)", nil
	}

	return strings.Join(names, "\n"), nil
}

// GlobTool finds files matching a glob pattern, with support for the **
// recursive wildcard.
type GlobTool struct{}

// NewGlobTool creates the file pattern matching tool.
func NewGlobTool() *GlobTool { return &GlobTool{} }

// Name implements Tool.
func (t *GlobTool) Name() string { return "Glob" }

// Description implements Tool.
func (t *GlobTool) Description() string {
	return "Find files matching a glob pattern such as '*.go' or 'src/**/*.ts'. Returns matching paths sorted alphabetically."
}

// Parameters implements Tool.
func (t *GlobTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{
				"type":        "string",
				"description": "Glob pattern to match files against.",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Directory to search in (defaults to the working directory).",
			},
		},
		"required": []string{"pattern"},
	}
}

// Call implements Tool.
func (t *GlobTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	pattern, _ := args["pattern"].(string)
	if pattern == "" {
		return nil, NewToolError(t.Name(), "pattern is required", CodeValidation)
	}

	root, _ := args["path"].(string)
	if root == "" {
		root = tc.WorkDir()
	} else {
		root = resolvePath(tc, root)
	}

	matches, err := globFiles(root, pattern)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("glob %q: %v", pattern, err), CodeExecution)
	}

	if len(matches) == 0 {
		return "No files matched.", nil
	}

	sort.Strings(matches)

	return strings.Join(matches, "\n"), nil
}

// globFiles walks root and returns files whose root-relative path matches
// pattern. A "**/" segment matches any number of directories, including
// none.
func globFiles(root, pattern string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		ok, matchErr := matchGlob(pattern, rel)
		if matchErr != nil {
			return matchErr
		}

		if ok {
			matches = append(matches, path)
		}

		return nil
	})

	return matches, err
}

// matchGlob matches a slash-separated relative path against a glob pattern
// where "**" spans path separators.
func matchGlob(pattern, rel string) (bool, error) {
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "**") {
		return filepath.Match(pattern, rel)
	}

	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" {
		if !strings.HasPrefix(rel, prefix+"/") && rel != prefix {
			return false, nil
		}

		rel = strings.TrimPrefix(strings.TrimPrefix(rel, prefix), "/")
	}

	if suffix == "" {
		return true, nil
	}

	// The suffix may match at any directory depth under the prefix.
	segments := strings.Split(rel, "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")

		ok, err := matchGlob(suffix, candidate)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}

// GrepTool searches file contents with a regular expression.
type GrepTool struct{}

// NewGrepTool creates the content search tool.
func NewGrepTool() *GrepTool { return &GrepTool{} }

// Name implements Tool.
func (t *GrepTool) Name() string { return "Grep" }

// Description implements Tool.
func (t *GrepTool) Description() string {
	return "Search file contents with a regular expression. Returns 'path:line: text' matches, capped at 100."
}

// Parameters implements Tool.
func (t *GrepTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pattern": map[string]any{
				"type":        "string",
				"description": "Regular expression to search for.",
			},
			"path": map[string]any{
				"type":        "string",
				"description": "Directory or file to search (defaults to the working directory).",
			},
			"include": map[string]any{
				"type":        "string",
				"description": "Glob filter on file names, e.g. '*.go'.",
			},
		},
		"required": []string{"pattern"},
	}
}

// Call implements Tool.
func (t *GrepTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	pattern, _ := args["pattern"].(string)
	if pattern == "" {
		return nil, NewToolError(t.Name(), "pattern is required", CodeValidation)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("invalid pattern: %v", err), CodeValidation)
	}

	root, _ := args["path"].(string)
	if root == "" {
		root = tc.WorkDir()
	} else {
		root = resolvePath(tc, root)
	}

	include, _ := args["include"].(string)

	var (
		matches   []string
		truncated bool
	)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}

			return nil
		}

		if include != "" {
			ok, _ := filepath.Match(include, d.Name())
			if !ok {
				return nil
			}
		}

		found, scanErr := grepFile(re, path)
		if scanErr != nil {
			return nil
		}

		matches = append(matches, found...)
		if len(matches) >= maxGrepMatches {
			matches = matches[:maxGrepMatches]
			truncated = true

			return filepath.SkipAll
		}

		return nil
	})
	if walkErr != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("search %s: %v", root, walkErr), CodeExecution)
	}

	if len(matches) == 0 {
		return "No matches found.", nil
	}

	out := strings.Join(matches, "\n")
	if truncated {
		out += fmt.Sprintf("\n... (results capped at %d matches)", maxGrepMatches)
	}

	return out, nil
}

func grepFile(re *regexp.Regexp, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, fmt.Sprintf("%s:%d: %s", path, lineNo, line))
		}
	}

	return matches, scanner.Err()
}
