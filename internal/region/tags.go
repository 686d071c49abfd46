package region

import (
	"fmt"

	"sealbox/internal/block"
	"sealbox/internal/marker"
	"sealbox/pkg/lines"
)

// CheckTags verifies the structural invariants of the sealed tag ranges on
// the buffer:
//
//  1. ranges are ordered and non-overlapping,
//  2. each range's first line is a start marker and its last line an end
//     marker,
//  3. a range starts at the beginning of the buffer or right after a
//     newline,
//  4. the character at a range's end is a newline (the trailing newline is
//     never part of the range, so adjacent blocks stay distinguishable).
//
// A nil result means the buffer is in a consistent, guardable state. A
// violation indicates misuse of this package rather than bad user input.
func CheckTags(b Buffer) error {
	var prev *Range

	for _, r := range b.TagRanges(TagName) {
		r := r
		if b.Compare(r.Start, r.End) >= 0 {
			return fmt.Errorf("invalid sealed tag: start %v is not before end %v", r.Start, r.End)
		}

		if prev != nil {
			if b.Compare(prev.Start, r.Start) >= 0 || b.Compare(prev.End, r.Start) > 0 {
				return fmt.Errorf(
					"invalid sealed tag: range %v-%v overlaps the next range %v-%v",
					prev.Start, prev.End, r.Start, r.End)
			}
		}

		firstLine := b.GetRange(b.LineStart(r.Start), b.LineEnd(r.Start))
		if !marker.IsStart(firstLine) {
			return fmt.Errorf(
				"invalid sealed tag %v-%v: expected the first line to be a start marker, got: %q",
				r.Start, r.End, firstLine)
		}

		lastLine := b.GetRange(b.LineStart(r.End), b.LineEnd(r.End))
		if !marker.IsEnd(lastLine) {
			return fmt.Errorf(
				"invalid sealed tag %v-%v: expected the last line to be an end marker, got: %q",
				r.Start, r.End, lastLine)
		}

		if b.Compare(r.Start, b.Start()) > 0 {
			if prevChar := b.Get(b.Advance(r.Start, -1)); prevChar != "\n" {
				return fmt.Errorf(
					"invalid sealed tag %v-%v: expected a newline before the range, got: %q",
					r.Start, r.End, prevChar)
			}
		}

		if c := b.Get(r.End); c != "\n" {
			return fmt.Errorf(
				"invalid sealed tag %v-%v: expected a newline at the end of the range, got: %q",
				r.Start, r.End, c)
		}

		prev = &r
	}

	return nil
}

// SetTags parses the buffer content, verifies the sealed blocks and installs
// one tag range per block, spanning the start marker line through the end
// marker line without its trailing newline. No sealed tags may exist on the
// buffer beforehand. Verification failures are returned per block and
// nothing is tagged; an empty result guarantees CheckTags passes.
func SetTags(b Buffer) []error {
	if len(b.TagRanges(TagName)) != 0 {
		return []error{fmt.Errorf("sealed tags must be removed before setting new ones")}
	}

	ls := lines.Split(b.GetRange(b.Start(), b.End()))

	blocks, err := block.Assemble(marker.Extract(ls))
	if err != nil {
		return []error{err}
	}

	okBlocks, errs := block.Verify(ls, blocks)
	if len(errs) != 0 {
		return errs
	}

	for _, blk := range okBlocks {
		start := Position{Line: blk.Start.Line + 1, Col: 0}
		end := Position{Line: blk.End.Line + 1, Col: len(ls[blk.End.Line])}
		b.AddTag(TagName, start, end)
	}

	return nil
}

// CaptureSealedBlocks returns the text of every sealed range, in order.
func CaptureSealedBlocks(b Buffer) []string {
	var result []string
	for _, r := range b.TagRanges(TagName) {
		result = append(result, b.GetRange(r.Start, r.End))
	}
	return result
}
