// Package marker recognizes the sealing marker lines that delimit protected
// blocks in a plain-text document.
package marker

import (
	"regexp"
	"strings"

	"sealbox/pkg/lines"
)

// Kind distinguishes the opening marker of a block from the closing one.
type Kind int

const (
	Start Kind = iota
	End
)

// Marker is a single line recognized as a sealing comment.
type Marker struct {
	Line   int    // 0-based line index in the scanned sequence
	Kind   Kind
	Prefix string // the matched marker text, including leading indentation
	Suffix string // the trimmed fingerprint token; empty when absent
}

// Regexes for the marker lines.
// Group 1: the prefix up to and including the on/off keyword.
// Group 2: the optional fingerprint suffix, untrimmed.
var (
	startRe = regexp.MustCompile(`^(\s*#\s*(?:sealed|Sealed|SEALED)\s*(?::|\s)\s*(?:on|On|ON))(\s*|\s+.*)?$`)
	endRe   = regexp.MustCompile(`^(\s*#\s*(?:sealed|Sealed|SEALED)\s*(?::|\s)\s*(?:off|Off|OFF))(\s*|\s+.*)?$`)
)

// IsStart reports whether line is a start-of-seal marker.
func IsStart(line string) bool {
	return startRe.MatchString(line)
}

// IsEnd reports whether line is an end-of-seal marker.
func IsEnd(line string) bool {
	return endRe.MatchString(line)
}

// Extract scans the lines and returns the markers in line order. Lines that
// match neither pattern contribute nothing, so the result never has more
// elements than the input.
func Extract(ls lines.Lines) []Marker {
	var result []Marker

	for i, line := range ls {
		if m := startRe.FindStringSubmatch(line); m != nil {
			result = append(result, Marker{
				Line:   i,
				Kind:   Start,
				Prefix: m[1],
				Suffix: strings.TrimSpace(m[2]),
			})
			continue
		}

		if m := endRe.FindStringSubmatch(line); m != nil {
			result = append(result, Marker{
				Line:   i,
				Kind:   End,
				Prefix: m[1],
				Suffix: strings.TrimSpace(m[2]),
			})
		}
	}

	return result
}
