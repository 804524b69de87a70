package indexer

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const sniffLimit = 8192

// IsText is the text-detection predicate spec.md §1 treats as an
// external collaborator, given a concrete default here: a file is text
// if its first 8KiB contains no NUL byte and decodes as valid UTF-8.
func IsText(path string, data []byte) bool {
	sniff := data
	if len(sniff) > sniffLimit {
		sniff = sniff[:sniffLimit]
	}
	for _, b := range sniff {
		if b == 0 {
			return false
		}
	}
	return utf8.Valid(sniff)
}

var extIcons = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "javascript",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".rs":   "rust",
	".java": "java",
	".md":   "text",
	".json": "text",
	".kdl":  "text",
	".html": "html",
	".css":  "css",
}

// iconFor derives the stable icon name spec.md §3 requires for a File
// record from the path's extension, falling back to a generic icon for
// extensions outside the known set.
func iconFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if icon, ok := extIcons[ext]; ok {
		return icon
	}
	return "unknown"
}
