// Package textbuf provides an in-memory text buffer implementing the
// region.Buffer capability, with tag ranges that shift under edits the way
// editor marks do.
package textbuf

import (
	"sort"
	"strings"

	"sealbox/internal/region"
)

// span is a half-open byte-offset interval into the buffer content.
type span struct {
	start, end int
}

// Buffer holds the content as a flat byte slice and the tags as offset
// intervals. Columns count bytes within a line. The content always ends
// with a newline; New appends one if the input lacks it, matching the
// implicit final newline of editor widgets.
type Buffer struct {
	content []byte
	tags    map[string][]span
}

// New returns a buffer over content, normalized to end with a newline.
func New(content string) *Buffer {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return &Buffer{
		content: []byte(content),
		tags:    make(map[string][]span),
	}
}

// Contents returns the full buffer content.
func (b *Buffer) Contents() string {
	return string(b.content)
}

// lineOffsets returns the byte offset where each line begins.
func (b *Buffer) lineOffsets() []int {
	offsets := []int{0}
	for i, c := range b.content {
		if c == '\n' && i+1 < len(b.content) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// OffsetOf converts a position to a byte offset, clamped to the content.
func (b *Buffer) OffsetOf(p region.Position) int {
	offsets := b.lineOffsets()
	if p.Line < 1 {
		return 0
	}
	if p.Line-1 >= len(offsets) {
		return len(b.content)
	}
	off := offsets[p.Line-1] + p.Col
	if off > len(b.content) {
		off = len(b.content)
	}
	return off
}

// PosAtOffset converts a byte offset to a position. The offset just past
// the final newline maps to the first column of a line past the content.
func (b *Buffer) PosAtOffset(off int) region.Position {
	offsets := b.lineOffsets()
	if off >= len(b.content) {
		return region.Position{Line: len(offsets) + 1, Col: 0}
	}
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] > off })
	return region.Position{Line: i, Col: off - offsets[i-1]}
}

func (b *Buffer) Start() region.Position {
	return region.Position{Line: 1, Col: 0}
}

func (b *Buffer) End() region.Position {
	return b.PosAtOffset(len(b.content))
}

func (b *Buffer) Compare(a, c region.Position) int {
	if a.Line != c.Line {
		return a.Line - c.Line
	}
	return a.Col - c.Col
}

func (b *Buffer) Advance(p region.Position, delta int) region.Position {
	off := b.OffsetOf(p) + delta
	if off < 0 {
		off = 0
	}
	if off > len(b.content) {
		off = len(b.content)
	}
	return b.PosAtOffset(off)
}

func (b *Buffer) Get(p region.Position) string {
	off := b.OffsetOf(p)
	if off >= len(b.content) {
		return ""
	}
	return string(b.content[off : off+1])
}

func (b *Buffer) GetRange(a, c region.Position) string {
	ao, co := b.OffsetOf(a), b.OffsetOf(c)
	if ao >= co {
		return ""
	}
	return string(b.content[ao:co])
}

func (b *Buffer) LineStart(p region.Position) region.Position {
	return region.Position{Line: p.Line, Col: 0}
}

func (b *Buffer) LineEnd(p region.Position) region.Position {
	offsets := b.lineOffsets()
	if p.Line < 1 || p.Line-1 >= len(offsets) {
		return b.End()
	}
	start := offsets[p.Line-1]
	end := start
	for end < len(b.content) && b.content[end] != '\n' {
		end++
	}
	return region.Position{Line: p.Line, Col: end - start}
}

// Insert splices text in at p. Tags starting at or after the insertion
// point shift right; a tag spanning the point grows.
func (b *Buffer) Insert(p region.Position, text string) {
	off := b.OffsetOf(p)
	n := len(text)
	if n == 0 {
		return
	}

	updated := make([]byte, 0, len(b.content)+n)
	updated = append(updated, b.content[:off]...)
	updated = append(updated, text...)
	updated = append(updated, b.content[off:]...)
	b.content = updated

	for name, spans := range b.tags {
		for i := range spans {
			if off <= spans[i].start {
				spans[i].start += n
				spans[i].end += n
			} else if off < spans[i].end {
				spans[i].end += n
			}
		}
		b.tags[name] = spans
	}
}

// Delete removes [a, c). Tag boundaries inside the deleted interval collapse
// onto its start; tags that become empty are dropped.
func (b *Buffer) Delete(a, c region.Position) {
	ao, co := b.OffsetOf(a), b.OffsetOf(c)
	if ao >= co {
		return
	}

	b.content = append(b.content[:ao], b.content[co:]...)

	shift := func(x int) int {
		switch {
		case x <= ao:
			return x
		case x >= co:
			return x - (co - ao)
		default:
			return ao
		}
	}

	for name, spans := range b.tags {
		kept := spans[:0]
		for _, s := range spans {
			s.start = shift(s.start)
			s.end = shift(s.end)
			if s.start < s.end {
				kept = append(kept, s)
			}
		}
		b.tags[name] = kept
	}
}

func (b *Buffer) AddTag(name string, a, c region.Position) {
	ao, co := b.OffsetOf(a), b.OffsetOf(c)
	if ao >= co {
		return
	}
	spans := append(b.tags[name], span{start: ao, end: co})
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	b.tags[name] = spans
}

func (b *Buffer) RemoveTag(name string) {
	delete(b.tags, name)
}

func (b *Buffer) TagRanges(name string) []region.Range {
	var result []region.Range
	for _, s := range b.tags[name] {
		result = append(result, region.Range{
			Start: b.PosAtOffset(s.start),
			End:   b.PosAtOffset(s.end),
		})
	}
	return result
}

// PrevTagRange returns the last range of the tag whose start lies strictly
// before p.
func (b *Buffer) PrevTagRange(name string, p region.Position) (region.Range, bool) {
	off := b.OffsetOf(p)
	spans := b.tags[name]
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].start < off {
			return region.Range{
				Start: b.PosAtOffset(spans[i].start),
				End:   b.PosAtOffset(spans[i].end),
			}, true
		}
	}
	return region.Range{}, false
}

// NextTagRange returns the first range of the tag whose start lies at or
// after p.
func (b *Buffer) NextTagRange(name string, p region.Position) (region.Range, bool) {
	off := b.OffsetOf(p)
	for _, s := range b.tags[name] {
		if s.start >= off {
			return region.Range{
				Start: b.PosAtOffset(s.start),
				End:   b.PosAtOffset(s.end),
			}, true
		}
	}
	return region.Range{}, false
}
