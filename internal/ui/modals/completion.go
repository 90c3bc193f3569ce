package modals

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zhubert/sheetchat/internal/upload"
)

// PathCompleter completes filesystem paths for the open-file modal.
// Only directories and Excel workbooks are offered.
type PathCompleter struct {
	completions []string
	index       int // -1 means nothing selected yet
	prefix      string
}

// NewPathCompleter creates a new path completer.
func NewPathCompleter() *PathCompleter {
	return &PathCompleter{index: -1}
}

// Complete attempts to complete the given path.
// The first call completes to the common prefix; repeated calls with the
// same input cycle through the matches.
func (pc *PathCompleter) Complete(path string) (string, bool) {
	expanded := upload.ExpandHome(path)

	if expanded != pc.prefix || pc.completions == nil {
		pc.generateCompletions(expanded)
		pc.prefix = expanded
	}

	switch len(pc.completions) {
	case 0:
		return path, false
	case 1:
		return pc.completions[0], true
	}

	if pc.index == -1 {
		common := commonPrefix(pc.completions)
		if common != expanded && common != "" {
			pc.prefix = common
			return common, true
		}
		pc.index = 0
		return pc.completions[0], true
	}

	pc.index = (pc.index + 1) % len(pc.completions)
	return pc.completions[pc.index], true
}

// Reset clears the completion state. Call it when the input changes by typing.
func (pc *PathCompleter) Reset() {
	pc.completions = nil
	pc.index = -1
	pc.prefix = ""
}

// GetCompletions returns the current list of completions.
func (pc *PathCompleter) GetCompletions() []string {
	return pc.completions
}

// GenerateCompletions populates the completions for path.
func (pc *PathCompleter) GenerateCompletions(path string) {
	expanded := upload.ExpandHome(path)
	pc.generateCompletions(expanded)
	pc.prefix = expanded
}

// GetCommonPrefix returns the longest common prefix of all completions.
func (pc *PathCompleter) GetCommonPrefix() string {
	return commonPrefix(pc.completions)
}

func (pc *PathCompleter) generateCompletions(path string) {
	pc.completions = nil
	pc.index = -1

	if path == "" {
		path = "." + string(filepath.Separator)
	}

	sep := string(filepath.Separator)
	var dir, prefix string
	switch info, err := os.Stat(path); {
	case strings.HasSuffix(path, sep):
		dir = path
	case err == nil && info.IsDir() && !strings.HasPrefix(filepath.Base(path), "."):
		pc.completions = []string{path + sep}
		return
	default:
		dir = filepath.Dir(path)
		prefix = filepath.Base(path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}

		full := filepath.Join(dir, name)
		switch {
		case entry.IsDir():
			pc.completions = append(pc.completions, full+sep)
		case upload.IsSpreadsheet(name, ""):
			pc.completions = append(pc.completions, full)
		}
	}

	sort.Strings(pc.completions)
}

// commonPrefix finds the longest common prefix among all strings.
func commonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}

	shortest := strs[0]
	for _, s := range strs[1:] {
		if len(s) < len(shortest) {
			shortest = s
		}
	}

	for i := 0; i < len(shortest); i++ {
		for _, s := range strs {
			if s[i] != shortest[i] {
				return shortest[:i]
			}
		}
	}
	return shortest
}
