package components

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathCompleter cycles through filesystem completions across repeated Tab
// presses. Directories always match so the user can descend into them;
// files match only when accepted by the filter.
type PathCompleter struct {
	accept     func(name string) bool
	matches    []string
	cycleIndex int
	lastParent string
}

// NewPathCompleter creates a completer. A nil accept matches every file.
func NewPathCompleter(accept func(name string) bool) *PathCompleter {
	return &PathCompleter{accept: accept}
}

// WithSuffixes returns a filter accepting file names ending in any suffix,
// compared case-insensitively.
func WithSuffixes(suffixes ...string) func(string) bool {
	return func(name string) bool {
		lower := strings.ToLower(name)
		for _, s := range suffixes {
			if strings.HasSuffix(lower, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}

// Next returns the next completion for input. The first call after the
// parent directory changes extends to the longest common prefix; later calls
// cycle.
func (c *PathCompleter) Next(input string) string {
	parent, prefix := splitPath(input)

	if parent != c.lastParent || c.matches == nil {
		c.matches = c.findMatches(parent, prefix)
		c.cycleIndex = 0
		c.lastParent = parent

		if len(c.matches) == 0 {
			return input
		}

		if len(c.matches) > 1 {
			candidate := filepath.Join(parent, longestCommonPrefix(c.matches))
			if len(candidate) > len(input) {
				return candidate
			}
		}
		return c.formatMatch(parent, c.matches[0])
	}

	if len(c.matches) == 0 {
		return input
	}
	c.cycleIndex = (c.cycleIndex + 1) % len(c.matches)
	return c.formatMatch(parent, c.matches[c.cycleIndex])
}

// Reset clears the cycle state.
func (c *PathCompleter) Reset() {
	c.matches = nil
	c.cycleIndex = 0
	c.lastParent = ""
}

func (c *PathCompleter) findMatches(parent, prefix string) []string {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil
	}

	lowPrefix := strings.ToLower(prefix)
	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), lowPrefix) {
			continue
		}
		if !entry.IsDir() && c.accept != nil && !c.accept(name) {
			continue
		}
		matches = append(matches, name)
	}

	sort.Strings(matches)
	return matches
}

func (c *PathCompleter) formatMatch(parent, name string) string {
	result := filepath.Join(parent, name)
	if info, err := os.Stat(result); err == nil && info.IsDir() {
		result += string(filepath.Separator)
	}
	return result
}

// splitPath splits input into a parent directory and a name prefix.
//
//	"data/yel" -> ("data", "yel")
//	"data/"    -> ("data", "")
//	"trip"     -> (".", "trip")
//	""         -> (".", "")
func splitPath(input string) (parent, prefix string) {
	if input == "" || input == "." {
		return ".", ""
	}
	if strings.HasSuffix(input, "/") || strings.HasSuffix(input, string(filepath.Separator)) {
		trimmed := strings.TrimRight(input, `/\`)
		if trimmed == "" {
			return string(filepath.Separator), ""
		}
		return trimmed, ""
	}
	return filepath.Dir(input), filepath.Base(input)
}

func longestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	first := strings.ToLower(strs[0])
	for i := 0; i < len(first); i++ {
		for _, s := range strs[1:] {
			if i >= len(s) || strings.ToLower(s)[i] != first[i] {
				return strs[0][:i]
			}
		}
	}
	return strs[0]
}
