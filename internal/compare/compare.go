// Package compare checks a caller's interface declarations against the
// called contract's compiler-reported interface.
package compare

import (
	"strings"

	"github.com/pendergraft/ifacecheck/internal/signature"
)

// MatchType describes how a caller declaration was found in the called set.
type MatchType string

const (
	// MatchFull means the normalized line appears verbatim.
	MatchFull MatchType = "full"
	// MatchPartial means only the head ("def name(") appears. Argument type
	// spellings or mutability annotations differ.
	MatchPartial MatchType = "partial"
	// MatchNone means the function head is absent.
	MatchNone MatchType = "none"
)

// Kind classifies a finding
type Kind string

const (
	KindMismatch              Kind = "mismatch"
	KindPossibleFalsePositive Kind = "possible-false-positive"
	KindUnused                Kind = "unused"
)

// Finding is one reported problem with a caller declaration.
type Finding struct {
	Kind     Kind      `json:"kind" yaml:"kind"`
	Line     string    `json:"line" yaml:"line"`
	Function string    `json:"function" yaml:"function"`
	Match    MatchType `json:"match,omitempty" yaml:"match,omitempty"`
}

// Options controls which findings are produced.
type Options struct {
	// Strict drops possible false positives.
	Strict bool
	// SkipUnused disables the unused-declaration check.
	SkipUnused bool
}

// Target identifies what was compared.
type Target struct {
	CalledPath string `json:"called" yaml:"called"`
	CallerPath string `json:"caller" yaml:"caller"`
	Interface  string `json:"interface" yaml:"interface"`
}

// Result holds the findings of one comparison in report order.
type Result struct {
	Target   Target    `json:"target" yaml:"target"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// HasProblems reports whether a mismatch or unused declaration was found.
func (r *Result) HasProblems() bool {
	for _, f := range r.Findings {
		if f.Kind == KindMismatch || f.Kind == KindUnused {
			return true
		}
	}
	return false
}

// Count returns the number of findings of the given kind.
func (r *Result) Count(kind Kind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Match looks a normalized caller line up in the called set. The exact line
// is tried first, then its head.
func Match(line string, called signature.Set) MatchType {
	if called.Contains(line) {
		return MatchFull
	}
	if called.Contains(signature.Head(line)) {
		return MatchPartial
	}
	return MatchNone
}

// Compare runs the mismatch check and, unless skipped, the unused check.
// Mismatch findings come first, each group in caller order.
func Compare(target Target, caller, called signature.Set, remainder string, opts Options) *Result {
	result := &Result{Target: target, Findings: []Finding{}}

	for _, line := range caller.Lines() {
		match := Match(line, called)
		switch match {
		case MatchNone:
			result.Findings = append(result.Findings, Finding{
				Kind:     KindMismatch,
				Line:     line,
				Function: signature.FunctionName(line),
				Match:    match,
			})
		case MatchPartial:
			if !opts.Strict {
				result.Findings = append(result.Findings, Finding{
					Kind:     KindPossibleFalsePositive,
					Line:     line,
					Function: signature.FunctionName(line),
					Match:    match,
				})
			}
		}
	}

	if opts.SkipUnused {
		return result
	}

	for _, line := range caller.Lines() {
		name := signature.FunctionName(line)
		if !IsCalled(name, remainder) {
			result.Findings = append(result.Findings, Finding{
				Kind:     KindUnused,
				Line:     line,
				Function: name,
			})
		}
	}

	return result
}

// IsCalled reports whether code contains a method call ".name(".
func IsCalled(name, code string) bool {
	return strings.Contains(code, "."+name+"(")
}
