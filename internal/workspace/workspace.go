package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"reqsynth/internal/logger"
)

// MaxMatches bounds every file search. Large legacy trees routinely hold
// tens of thousands of sources; a lookup that needs more than this many
// candidates is not going to resolve anything useful anyway.
const MaxMatches = 50

// MaxFileSize is the read cap for class files consulted during body
// synthesis. Generated or malformed files above this are treated as
// unresolvable rather than parsed.
const MaxFileSize = 512 * 1024

// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
var ErrFileTooLarge = fmt.Errorf("file exceeds %d byte read cap", MaxFileSize)

// Workspace provides bounded file search and encoding-tolerant reads over
// one project tree.
type Workspace struct {
	Root        string
	ExcludeDirs []string
}

// New creates a Workspace rooted at the given directory.
func New(root string, excludeDirs []string) *Workspace {
	return &Workspace{Root: root, ExcludeDirs: excludeDirs}
}

// FindFiles walks the tree and returns up to max paths whose base name
// matches the given pattern ("*" wildcard at start/end, or exact name).
// max <= 0 uses MaxMatches. Directories matching ExcludeDirs are skipped.
func (w *Workspace) FindFiles(namePattern string, max int) []string {
	if max <= 0 || max > MaxMatches {
		max = MaxMatches
	}

	var files []string
	filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if len(files) >= max {
			return filepath.SkipAll
		}

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			rel, _ := filepath.Rel(w.Root, path)
			rel = filepath.ToSlash(rel)
			for _, pat := range w.ExcludeDirs {
				if matchGlob(rel, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if matchName(d.Name(), namePattern) {
			files = append(files, path)
		}
		return nil
	})

	return files
}

// SourceFiles returns every file under the root with the given suffix,
// honoring the exclude list. Unlike FindFiles it is not match-capped: the
// endpoint scan has to see the whole tree, not the first N hits.
func (w *Workspace) SourceFiles(suffix string) []string {
	var files []string
	filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			rel, _ := filepath.Rel(w.Root, path)
			rel = filepath.ToSlash(rel)
			for _, pat := range w.ExcludeDirs {
				if matchGlob(rel, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if strings.HasSuffix(strings.ToLower(d.Name()), suffix) {
			files = append(files, path)
		}
		return nil
	})

	return files
}

// FindClassFile locates the source file defining the named Java type.
// The first match wins; absence is normal and reported as ok=false.
func (w *Workspace) FindClassFile(typeName string) (string, bool) {
	matches := w.FindFiles(typeName+".java", 1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// ReadFile reads a source file with automatic encoding detection (UTF-8,
// then EUC-KR/CP949 for legacy codebases) and a hard size cap. Java sources
// have their comments stripped so annotation regexes cannot match inside
// commented-out code.
func (w *Workspace) ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxFileSize {
		logger.Debug("[WORKSPACE] Skipping oversized file %s (%d bytes)", path, info.Size())
		return "", ErrFileTooLarge
	}

	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	content := string(rawBytes)
	if !utf8.Valid(rawBytes) {
		decoder := korean.EUCKR.NewDecoder()
		decodedBytes, _, derr := transform.Bytes(decoder, rawBytes)
		if derr == nil {
			content = string(decodedBytes)
		}
		// On decode failure fall through with the raw content; the regex
		// heuristics still work on the ASCII subset.
	}

	if isJavaFile(path) {
		return removeComments(content), nil
	}
	return content, nil
}

var (
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
)

// removeComments strips Java comments to prevent regex false positives.
func removeComments(content string) string {
	content = blockCommentRegex.ReplaceAllString(content, "")
	return lineCommentRegex.ReplaceAllString(content, "")
}

func isJavaFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".java")
}

// matchName checks a base name against a simple glob ('*' at start or end).
func matchName(name, pattern string) bool {
	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}
	return name == pattern
}

// matchGlob checks a relative path against an exclude pattern. Patterns with
// ** match anywhere in the path.
func matchGlob(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		clean := strings.ReplaceAll(pattern, "**", "")
		clean = strings.Trim(clean, "/")
		return clean != "" && strings.Contains(path, clean)
	}
	clean := strings.Trim(pattern, "*/")
	return clean != "" && strings.Contains(path, clean)
}
