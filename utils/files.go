package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultExtensions are the source files linted when walking directories.
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":             true,
	".hg":              true,
	".svn":             true,
	"node_modules":     true,
	"bower_components": true,
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// HasExtension reports whether path ends in one of exts. An empty list
// accepts everything.
func HasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := GetFileExtension(path)
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// CollectFiles expands paths into a sorted, de-duplicated file list.
// Directories are walked and filtered by extension; files named explicitly
// are always kept.
func CollectFiles(paths []string, exts []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		key := p
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, filepath.Clean(p))
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, NewError(IOError, "cannot access "+root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skippedDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && HasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, NewError(IOError, "walking "+root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsBinaryContent sniffs content and reports whether it is not text.
func IsBinaryContent(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	return !isText(mimetype.Detect(content))
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
