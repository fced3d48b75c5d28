// Package signature reduces blocks of Vyper source text to a canonical,
// sorted list of function declarations with argument names removed.
package signature

import (
	"sort"
	"strings"
)

const (
	// declMarker selects the lines kept by Normalize.
	declMarker = "def"
	// defKeyword marks lines whose argument lists are rewritten.
	defKeyword = "def "
)

// Set is a normalized list of declaration lines.
type Set struct {
	lines []string
}

// Normalize filters text down to declaration lines, sorts them and strips
// argument names so that only argument types remain.
func Normalize(text string) Set {
	var kept []string
	for _, line := range SplitLines(text) {
		if strings.Contains(line, declMarker) {
			kept = append(kept, line)
		}
	}
	sort.Strings(kept)

	for i, line := range kept {
		kept[i] = StripArgNames(line)
	}
	return Set{lines: kept}
}

// Lines returns a copy of the normalized lines in sorted order.
func (s Set) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of declaration lines.
func (s Set) Len() int {
	return len(s.lines)
}

// Text returns the set as newline-terminated lines.
func (s Set) Text() string {
	var b strings.Builder
	for _, line := range s.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Contains reports whether fragment occurs anywhere in the set's text.
// Matching is textual, so a fragment may span the end of one line.
func (s Set) Contains(fragment string) bool {
	return strings.Contains(s.Text(), fragment)
}

// StripArgNames rewrites "def f(a: address, b: uint256) -> bool:" to
// "def f(address,uint256) -> bool:". Lines without "def " or without a
// closed argument list are returned unchanged.
func StripArgNames(line string) string {
	if !strings.Contains(line, defKeyword) {
		return line
	}

	open := strings.Index(line, "(")
	if open < 0 {
		return line
	}
	rel := strings.Index(line[open+1:], ")")
	if rel < 0 {
		return line
	}
	closeIdx := open + 1 + rel

	args := line[open+1 : closeIdx]
	if args == "" {
		return line
	}

	parts := strings.Split(args, ",")
	for i, part := range parts {
		// A leading ':' is not a name/type separator.
		if idx := strings.Index(part, ":"); idx > 0 {
			parts[i] = strings.TrimSpace(part[idx+1:])
		}
	}
	return line[:open+1] + strings.Join(parts, ",") + line[closeIdx:]
}

// Head returns the line up to and including its first '('. It returns the
// empty string when the line has no '('.
func Head(line string) string {
	idx := strings.Index(line, "(")
	if idx < 0 {
		return ""
	}
	return line[:idx+1]
}

// FunctionName returns the text between "def " and the following '(',
// untrimmed. Extra spacing after "def" stays part of the name.
func FunctionName(line string) string {
	start := strings.Index(line, defKeyword)
	if start < 0 {
		return ""
	}
	rest := line[start+len(defKeyword):]
	if end := strings.Index(rest, "("); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// SplitLines splits text on '\n' and drops a trailing '\r' from each line.
// A final newline does not produce an empty trailing line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
