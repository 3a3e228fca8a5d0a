// Package idcheck validates identifiers against an alphabet and length.
package idcheck

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// Reasons an ID is rejected
const (
	ReasonWrongLength = "wrong length"
	ReasonBadSymbol   = "symbol not in alphabet"
	ReasonDuplicate   = "duplicate"
)

// Finding describes one rejected line
type Finding struct {
	// Line is the trimmed line content
	Line string
	// LineNumber is the line number in the input (1-indexed)
	LineNumber int
	// Reason is one of the Reason constants
	Reason string
}

// Result contains the results of checking IDs from a source
type Result struct {
	// Valid is the count of accepted IDs
	Valid int
	// Invalid lists every rejected line
	Invalid []Finding
	// SkippedLines is the count of blank and comment lines
	SkippedLines int
}

// OK reports whether every checked line was accepted
func (r *Result) OK() bool {
	return len(r.Invalid) == 0
}

// Check reads one ID per line from r and validates each against alphabet
// and length. A length of 0 accepts any non-empty length.
// It applies these rules:
// - Lines are trimmed of surrounding whitespace, unless the alphabet holds
//   whitespace, in which case only a trailing \r is removed
// - Empty lines are skipped
// - Lines starting with # are skipped, unless # is part of the alphabet
// - A line repeating an earlier accepted ID is rejected as a duplicate
func Check(r io.Reader, alphabet string, length int) (*Result, error) {
	result := &Result{
		Invalid: make([]Finding, 0),
	}

	comments := !strings.Contains(alphabet, "#")
	trim := strings.TrimSpace
	if strings.ContainsFunc(alphabet, unicode.IsSpace) {
		trim = func(s string) string { return strings.TrimSuffix(s, "\r") }
	}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := trim(scanner.Text())

		if line == "" || (comments && strings.HasPrefix(line, "#")) {
			result.SkippedLines++
			continue
		}

		reason := invalidReason(line, alphabet, length)
		if reason == "" && seen[line] {
			reason = ReasonDuplicate
		}
		if reason != "" {
			result.Invalid = append(result.Invalid, Finding{
				Line:       line,
				LineNumber: lineNumber,
				Reason:     reason,
			})
			continue
		}

		seen[line] = true
		result.Valid++
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// CheckString is a convenience function to check IDs from a string
func CheckString(content, alphabet string, length int) (*Result, error) {
	return Check(strings.NewReader(content), alphabet, length)
}

// IsValid reports whether id has the given length (any, when 0) and
// consists only of alphabet symbols
func IsValid(id, alphabet string, length int) bool {
	return id != "" && invalidReason(id, alphabet, length) == ""
}

func invalidReason(id, alphabet string, length int) string {
	if length > 0 && len(id) != length {
		return ReasonWrongLength
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return ReasonBadSymbol
		}
	}
	return ""
}
