// Package region projects validated sealed blocks onto a live text buffer as
// tagged ranges and guards insertions and deletions against them.
package region

// Position addresses a character in a Buffer. Line is 1-based, Col is the
// 0-based offset within the line; the newline terminating a line sits at
// Col == len(line). Positions are produced by the buffer and become stale as
// soon as the buffer is mutated.
type Position struct {
	Line, Col int
}

// Range is a half-open position interval: Start inclusive, End exclusive.
type Range struct {
	Start, End Position
}

// TagName is the tag under which sealed ranges are registered on a buffer.
const TagName = "sealed"

// Buffer is the text-buffer capability this package consumes. The buffer
// owns the content and the tag set; a tag range shifts with surrounding
// edits, the way an editor mark does.
//
// Compare returns a negative, zero or positive value as a sorts before,
// equal to or after b. Advance moves a position by delta characters,
// clamped to the buffer bounds. Get returns the single character at p, or
// the empty string at the end of the buffer.
//
// PrevTagRange returns the last range of the tag whose start lies strictly
// before p; NextTagRange returns the first range whose start lies at or
// after p.
type Buffer interface {
	Start() Position
	End() Position

	Compare(a, b Position) int
	Advance(p Position, delta int) Position

	Get(p Position) string
	GetRange(a, b Position) string
	LineStart(p Position) Position
	LineEnd(p Position) Position

	Insert(p Position, text string)
	Delete(a, b Position)

	AddTag(name string, a, b Position)
	RemoveTag(name string)
	TagRanges(name string) []Range
	PrevTagRange(name string, p Position) (Range, bool)
	NextTagRange(name string, p Position) (Range, bool)
}
