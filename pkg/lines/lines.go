package lines

import "strings"

// Lines is an immutable sequence of text lines. No element contains a
// newline character; every transformation produces a new sequence rather
// than mutating in place.
type Lines []string

// Split breaks content into lines. The trailing newline, if any, does not
// produce an extra empty line, and Windows line endings are normalized.
func Split(content string) Lines {
	if content == "" {
		return Lines{}
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return Lines(strings.Split(content, "\n"))
}

// Join concatenates the lines with newline separators. No trailing newline
// is appended; callers that need one (e.g. to preserve a file's final
// newline) add it themselves.
func (l Lines) Join() string {
	return strings.Join([]string(l), "\n")
}
