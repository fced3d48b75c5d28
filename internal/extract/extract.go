// Package extract isolates a named interface declaration inside Vyper source.
package extract

import (
	"errors"
	"strings"

	"github.com/pendergraft/ifacecheck/internal/signature"
)

// Extraction errors
var (
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrEndNotFound       = errors.New("end of interface block not found")
)

// Block is an interface declaration split from the code that follows it.
type Block struct {
	// Interface runs from the "interface <Name>:" marker up to the end line.
	Interface string
	// Remainder runs from the end line to the end of the source.
	Remainder string
	// EndLine is the first line that is not part of the declaration.
	EndLine string
}

// Marker returns the declaration header searched for in caller source.
func Marker(name string) string {
	return "interface " + name + ":"
}

// Extract finds "interface <name>:" in source and splits the text starting
// at it into the declaration block and the remaining code.
func Extract(source, name string) (*Block, error) {
	marker := Marker(name)
	start := strings.Index(source, marker)
	if start < 0 {
		return nil, ErrInterfaceNotFound
	}
	truncated := source[start:]

	endLine, ok := findEndLine(signature.SplitLines(truncated), marker)
	if !ok {
		return nil, ErrEndNotFound
	}

	cut := strings.Index(truncated, endLine)
	return &Block{
		Interface: truncated[:cut],
		Remainder: truncated[cut:],
		EndLine:   endLine,
	}, nil
}

// findEndLine returns the first line that ends the declaration block.
func findEndLine(lines []string, marker string) (string, bool) {
	var last string
	multiline := false

	for _, line := range lines {
		if multiline || insideBlock(line, marker) {
			if multiline && strings.Contains(line, "->") {
				multiline = false
			}
			last = line
			continue
		}

		// A declaration without "->" may wrap onto the following lines. The
		// wrapped line may itself be the closing one.
		if strings.Contains(last, "def") && !strings.Contains(last, "->") {
			multiline = !strings.Contains(line, "->")
			last = line
			continue
		}
		return line, true
	}
	return "", false
}

func insideBlock(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.Contains(line, marker) ||
		strings.Contains(line, "def") ||
		strings.HasPrefix(trimmed, "#") ||
		trimmed == ""
}
