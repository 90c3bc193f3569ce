package upload

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ParseDroppedPaths extracts file paths from text a terminal pastes when
// files are dragged onto it. Terminals differ: some paste file:// URIs one
// per line, some paste quoted paths, and some escape spaces with
// backslashes and separate paths with spaces. Text that does not look like
// a path yields nothing.
func ParseDroppedPaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		for _, tok := range splitShellWords(strings.TrimSpace(line)) {
			if p, ok := normalizePath(tok); ok {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// splitShellWords splits on unescaped, unquoted spaces and removes the
// quoting and escapes. Backslashes in a word that starts with a drive
// letter ("C:\") are path separators, not escapes.
func splitShellWords(line string) []string {
	var (
		words   []string
		cur     strings.Builder
		quote   rune
		esc     bool
		have    bool
		literal bool
	)
	for i, r := range line {
		if !have && quote == 0 && !esc {
			literal = hasDrivePrefix(line[i:])
		}
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && quote == 0 && !literal:
			esc = true
			have = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			have = true
		case r == ' ' || r == '\t':
			if have {
				words = append(words, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if have {
		words = append(words, cur.String())
	}
	return words
}

func hasDrivePrefix(s string) bool {
	return len(s) >= 3 && s[1] == ':' && s[2] == '\\' && isDriveLetter(s[0])
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func normalizePath(tok string) (string, bool) {
	if strings.HasPrefix(tok, "file://") {
		u, err := url.Parse(tok)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	if strings.HasPrefix(tok, "/") || strings.HasPrefix(tok, "~/") || isWindowsPath(tok) {
		return tok, true
	}
	return "", false
}

func isWindowsPath(s string) bool {
	return len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') && isDriveLetter(s[0])
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
