package region

import "strings"

// Options configures a Guard. Strict re-checks the tag invariants before
// every guard decision; tests enable it, release callers leave it off.
type Options struct {
	Strict bool
}

// Guard decides which edits of a tagged buffer are legal. The caller must
// serialize edits: a guard decision is only valid until the next mutation.
type Guard struct {
	buf  Buffer
	opts Options
}

// NewGuard returns a guard over the buffer.
func NewGuard(b Buffer, opts Options) *Guard {
	return &Guard{buf: b, opts: opts}
}

// checkPreconditions panics on a tag-invariant violation in strict mode.
// Such a violation is a caller bug, not a legal input.
func (g *Guard) checkPreconditions() {
	if !g.opts.Strict {
		return
	}
	if err := CheckTags(g.buf); err != nil {
		panic(err)
	}
}

// IsInsertable reports whether text may be inserted at p without modifying
// any sealed range. Empty text is always insertable. At the exact end of a
// sealed range only text starting with a newline is allowed (a fresh line
// after the block, never an extension of its last line); at the exact start
// of a sealed range only text ending with a newline (a fresh line before the
// block).
func (g *Guard) IsInsertable(p Position, text string) bool {
	g.checkPreconditions()

	if len(text) == 0 {
		return true
	}

	b := g.buf
	if r, ok := b.PrevTagRange(TagName, p); ok {
		switch {
		case b.Compare(p, r.End) == 0:
			return strings.HasPrefix(text, "\n")
		case b.Compare(p, r.End) < 0:
			return false
		}
	}

	if r, ok := b.NextTagRange(TagName, p); ok {
		if b.Compare(p, r.Start) == 0 {
			return strings.HasSuffix(text, "\n")
		}
	}

	return true
}

// IsDeletable reports whether the single character at p may be deleted. A
// character inside a sealed range is not deletable, nor is the newline
// terminating a range's last line, nor the newline that is the sole
// separator before a range's start -- unless that newline sits at the very
// beginning of the buffer or follows another newline, in which case removing
// it only collapses blank lines above the block.
func (g *Guard) IsDeletable(p Position) bool {
	g.checkPreconditions()
	return isDeletable(g.buf, p)
}

// isDeletable carries the logic without the strict precondition, so the
// naive reference deletion in the tests can call it mid-edit.
func isDeletable(b Buffer, p Position) bool {
	if r, ok := b.PrevTagRange(TagName, p); ok {
		// <= rather than <: the newline just after the range end is not
		// deletable either, it keeps the end marker on its own line.
		if b.Compare(p, r.End) <= 0 {
			return false
		}
	}

	r, ok := b.NextTagRange(TagName, p)
	if !ok {
		return true
	}

	if b.Compare(p, r.Start) == 0 {
		return false
	}

	if b.Compare(b.Advance(p, 1), r.Start) == 0 {
		// p holds the newline immediately before the block.
		if b.Compare(p, b.Start()) == 0 {
			return true
		}
		return b.Get(b.Advance(p, -1)) == "\n"
	}

	return true
}

// PinDeletableRanges decomposes the deletion request [from, to) into the
// maximal ordered set of non-empty, non-overlapping sub-ranges that can be
// removed while every sealed block stays intact and line-isolated. The
// ranges are relative to the buffer state at the time of the call.
func (g *Guard) PinDeletableRanges(from, to Position) []Range {
	g.checkPreconditions()

	b := g.buf
	if b.Compare(from, to) >= 0 {
		return nil
	}

	// Single character: same decision as IsDeletable.
	if b.Compare(to, b.Advance(from, 1)) == 0 {
		if isDeletable(b, from) {
			return []Range{{from, to}}
		}
		return nil
	}

	cursor := from

	if r, ok := b.PrevTagRange(TagName, from); ok {
		// The range end points at its trailing newline. If the query does
		// not reach past that newline, the whole selection lies within one
		// sealed block.
		if b.Compare(to, b.Advance(r.End, 1)) <= 0 {
			return nil
		}

		if b.Compare(from, r.End) <= 0 {
			// The query starts inside the block: skip past its trailing
			// newline so the last marker line is preserved whole.
			cursor = b.Advance(r.End, 1)
		}
	}

	var result []Range

	for b.Compare(cursor, to) < 0 {
		r, ok := b.NextTagRange(TagName, cursor)
		if !ok {
			// No sealed block until the end of the query; the remainder is
			// free to go.
			result = append(result, Range{cursor, to})
			break
		}

		switch {
		case b.Compare(cursor, r.Start) == 0:
			// The cursor sits exactly on a block start: nothing to emit.

		case b.Compare(cursor, r.Start) < 0:
			if b.Compare(to, r.Start) < 0 {
				result = append(result, Range{cursor, to})
			} else if b.Compare(cursor, b.Start()) == 0 {
				// Deleting the entire prefix moves the block to the very
				// beginning of the buffer, which keeps it line-isolated.
				result = append(result, Range{cursor, r.Start})
			} else if b.Get(b.Advance(cursor, -1)) == "\n" {
				// The cursor already follows a newline, so the block keeps
				// a newline before it after the deletion.
				result = append(result, Range{cursor, r.Start})
			} else {
				// Preserve the newline just before the block so its first
				// marker line stays isolated.
				end := b.Advance(r.Start, -1)
				if b.Compare(cursor, end) < 0 {
					result = append(result, Range{cursor, end})
				}
			}
		}

		// Step past the block's trailing newline; the cursor strictly
		// increases, which bounds the loop.
		cursor = b.Advance(r.End, 1)
	}

	return result
}

// DeleteDeletables removes everything in [from, to) that may be deleted,
// leaving the sealed blocks untouched. The pinned ranges are applied
// back-to-front so that earlier deletions cannot shift later positions.
func (g *Guard) DeleteDeletables(from, to Position) {
	deletables := g.PinDeletableRanges(from, to)
	for i := len(deletables) - 1; i >= 0; i-- {
		g.buf.Delete(deletables[i].Start, deletables[i].End)
	}
}
