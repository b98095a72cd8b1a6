package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CaseFileSuffixes are the file name endings recognised as case definitions.
var CaseFileSuffixes = []string{".case.yaml", ".case.yml"}

// Scanner scans for case files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all case files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var caseFiles []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cases path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cases path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if isCaseFile(d.Name()) {
			caseFiles = append(caseFiles, path)
		}
		return nil
	})

	return caseFiles, err
}

func isCaseFile(name string) bool {
	for _, suffix := range CaseFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
