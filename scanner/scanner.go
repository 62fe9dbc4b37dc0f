// Package scanner lists the source files below a directory.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skippedDirs are never descended into. Hidden directories (.git, .venv,
// .tox and so on) are skipped as well.
var skippedDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the root directory and returns the target files sorted by
// path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != s.rootDir && isSkippedDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isTargetFile(path) {
			files = append(files, FileInfo{
				Path: path,
				Size: info.Size(),
			})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Paths is Scan without the sizes.
func (s *Scanner) Paths() ([]string, error) {
	files, err := s.Scan()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}

func isSkippedDir(name string) bool {
	return skippedDirs[name] || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}
