package pipeline

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
)

// candidatePattern matches presentation file names (.ppt and .pptx, any
// case).
var candidatePattern = regexp.MustCompile(`^.*\.[pP][pP][tT][xX]?$`)

// discoverDocuments expands file and directory arguments into candidate
// document paths. Files passed explicitly are taken as-is; directories are
// walked recursively and filtered by name pattern. All returned paths are
// absolute. Unreadable arguments and subtrees are logged and skipped - they
// never abort discovery.
func discoverDocuments(args []string, log *slog.Logger) []string {
	var files []string

	appendPath := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			log.Warn("skipping path", "path", p, "error", err)
			return
		}
		files = append(files, abs)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Warn("skipping argument", "path", arg, "error", err)
			continue
		}

		if !info.IsDir() {
			appendPath(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("skipping unreadable entry", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !candidatePattern.MatchString(d.Name()) {
				return nil
			}
			appendPath(path)
			return nil
		})
		if err != nil {
			log.Warn("directory walk failed", "path", arg, "error", err)
		}
	}

	return files
}
