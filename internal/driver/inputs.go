package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// documentExts lists the extensions picked up when a directory is given.
var documentExts = []string{".yaml", ".yml", ".json"}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range documentExts {
		if ext == e {
			return true
		}
	}
	return false
}

// listDocuments возвращает отсортированный список AST-документов в директории
func listDocuments(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, .cache) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CollectInputs expands directories into the AST documents they contain.
// Explicit file arguments are kept whatever their extension. The result is
// free of duplicates and keeps the argument order, directory contents sorted.
func CollectInputs(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	add := func(p string) {
		key := filepath.Clean(p)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", p, err)
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		files, err := listDocuments(p)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInputs
	}
	return out, nil
}
