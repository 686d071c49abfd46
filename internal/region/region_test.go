package region_test

import (
	"reflect"
	"strings"
	"testing"

	"sealbox/internal/region"
	"sealbox/internal/textbuf"
)

// sealedMiddle is a sealed document with unsealed text on both sides of one
// block. Offsets: prefix [0,7), start marker line [7,29), body [29,46),
// end marker line [46,69), suffix [69,76); the tag covers [7,68).
const sealedMiddle = "prefix\n" +
	"# sealed: on e6b46650\n" +
	"something sealed\n" +
	"# sealed: off e6b46650\n" +
	"suffix\n"

// sealedBetweenBlankLines has a blank line on either side of the block.
const sealedBetweenBlankLines = "text\n" +
	"\n" +
	"# sealed: on 88209294\n" +
	"# sealed: off 88209294\n" +
	"\n" +
	"more\n"

// sealedAdjacent is two back-to-back sealed blocks and nothing else.
const sealedAdjacent = "# sealed: on 88209294\n" +
	"# sealed: off 88209294\n" +
	"# sealed: on d09d2eb4\n" +
	"# sealed: off d09d2eb4\n"

// sealedAtStart begins with a sealed block.
const sealedAtStart = "# sealed: on e6b46650\n" +
	"something sealed\n" +
	"# sealed: off e6b46650\n" +
	"tail\n"

func newTagged(t *testing.T, content string) *textbuf.Buffer {
	t.Helper()
	buf := textbuf.New(content)
	if errs := region.SetTags(buf); len(errs) != 0 {
		t.Fatalf("SetTags() errors = %v", errs)
	}
	if err := region.CheckTags(buf); err != nil {
		t.Fatalf("CheckTags() after SetTags: %v", err)
	}
	return buf
}

func TestSetTags(t *testing.T) {
	t.Run("ranges cover marker line through end marker line", func(t *testing.T) {
		buf := newTagged(t, sealedMiddle)

		got := buf.TagRanges(region.TagName)
		want := []region.Range{{
			Start: region.Position{Line: 2, Col: 0},
			End:   region.Position{Line: 4, Col: 22},
		}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("TagRanges() = %v, want %v", got, want)
		}
	})

	t.Run("two blocks give two ranges", func(t *testing.T) {
		buf := newTagged(t, sealedAdjacent)
		if got := buf.TagRanges(region.TagName); len(got) != 2 {
			t.Errorf("TagRanges() = %v, want 2 ranges", got)
		}
	})

	t.Run("stale fingerprint refuses to tag", func(t *testing.T) {
		stale := strings.ReplaceAll(sealedMiddle, "e6b46650", "obsolete")
		buf := textbuf.New(stale)
		errs := region.SetTags(buf)
		if len(errs) != 1 {
			t.Fatalf("SetTags() errors = %v, want exactly one", errs)
		}
		if got := buf.TagRanges(region.TagName); got != nil {
			t.Errorf("TagRanges() after failed SetTags = %v", got)
		}
	})

	t.Run("structural error is propagated", func(t *testing.T) {
		buf := textbuf.New("something\n# sealed: on\n")
		errs := region.SetTags(buf)
		if len(errs) != 1 {
			t.Fatalf("SetTags() errors = %v", errs)
		}
		want := "Unexpected open block at the end. The block started at line 2."
		if errs[0].Error() != want {
			t.Errorf("SetTags() error = %q, want %q", errs[0].Error(), want)
		}
	})

	t.Run("pre-existing tags are rejected", func(t *testing.T) {
		buf := newTagged(t, sealedMiddle)
		errs := region.SetTags(buf)
		if len(errs) != 1 {
			t.Errorf("second SetTags() errors = %v, want exactly one", errs)
		}
	})

	t.Run("no blocks tags nothing", func(t *testing.T) {
		buf := textbuf.New("just\nplain\ntext\n")
		if errs := region.SetTags(buf); len(errs) != 0 {
			t.Fatalf("SetTags() errors = %v", errs)
		}
		if got := buf.TagRanges(region.TagName); got != nil {
			t.Errorf("TagRanges() = %v, want none", got)
		}
	})
}

func TestCheckTags(t *testing.T) {
	tests := []struct {
		name string
		tag  func(buf *textbuf.Buffer)
		want string
	}{
		{
			name: "first line is not a start marker",
			tag: func(buf *textbuf.Buffer) {
				buf.AddTag(region.TagName,
					region.Position{Line: 1, Col: 0},
					region.Position{Line: 4, Col: 22})
			},
			want: "expected the first line to be a start marker",
		},
		{
			name: "last line is not an end marker",
			tag: func(buf *textbuf.Buffer) {
				buf.AddTag(region.TagName,
					region.Position{Line: 2, Col: 0},
					region.Position{Line: 3, Col: 16})
			},
			want: "expected the last line to be an end marker",
		},
		{
			name: "range not preceded by a newline",
			tag: func(buf *textbuf.Buffer) {
				buf.AddTag(region.TagName,
					region.Position{Line: 2, Col: 3},
					region.Position{Line: 4, Col: 22})
			},
			want: "expected a newline before the range",
		},
		{
			name: "range swallows the trailing newline",
			tag: func(buf *textbuf.Buffer) {
				buf.AddTag(region.TagName,
					region.Position{Line: 2, Col: 0},
					region.Position{Line: 5, Col: 0})
			},
			want: "expected the last line to be an end marker",
		},
		{
			name: "overlapping ranges",
			tag: func(buf *textbuf.Buffer) {
				buf.AddTag(region.TagName,
					region.Position{Line: 2, Col: 0},
					region.Position{Line: 4, Col: 22})
				buf.AddTag(region.TagName,
					region.Position{Line: 2, Col: 0},
					region.Position{Line: 4, Col: 22})
			},
			want: "overlaps the next range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := textbuf.New(sealedMiddle)
			tt.tag(buf)
			err := region.CheckTags(buf)
			if err == nil {
				t.Fatal("CheckTags() = nil, want an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("CheckTags() = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}

	t.Run("no tags is consistent", func(t *testing.T) {
		if err := region.CheckTags(textbuf.New("anything\n")); err != nil {
			t.Errorf("CheckTags() = %v", err)
		}
	})
}

func TestCaptureSealedBlocks(t *testing.T) {
	buf := newTagged(t, sealedMiddle)
	got := region.CaptureSealedBlocks(buf)
	want := []string{
		"# sealed: on e6b46650\nsomething sealed\n# sealed: off e6b46650",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CaptureSealedBlocks() = %q, want %q", got, want)
	}
}

func TestIsInsertable(t *testing.T) {
	buf := newTagged(t, sealedMiddle)
	g := region.NewGuard(buf, region.Options{Strict: true})

	ranges := buf.TagRanges(region.TagName)
	tagStart := buf.OffsetOf(ranges[0].Start)
	tagEnd := buf.OffsetOf(ranges[0].End)

	for off := 0; off <= len(buf.Contents()); off++ {
		p := buf.PosAtOffset(off)

		if !g.IsInsertable(p, "") {
			t.Errorf("IsInsertable(%v, empty) = false", p)
		}

		gotLeadingNL := g.IsInsertable(p, "\nx")
		gotTrailingNL := g.IsInsertable(p, "x\n")
		gotPlain := g.IsInsertable(p, "x")

		var wantLeadingNL, wantTrailingNL, wantPlain bool
		switch {
		case off < tagStart || off > tagEnd:
			wantLeadingNL, wantTrailingNL, wantPlain = true, true, true
		case off == tagStart:
			// Only text ending in a newline keeps the start marker isolated.
			wantLeadingNL, wantTrailingNL, wantPlain = false, true, false
		case off == tagEnd:
			// Only text starting with a newline keeps the end marker whole.
			wantLeadingNL, wantTrailingNL, wantPlain = true, false, false
		default:
			wantLeadingNL, wantTrailingNL, wantPlain = false, false, false
		}

		if gotLeadingNL != wantLeadingNL || gotTrailingNL != wantTrailingNL || gotPlain != wantPlain {
			t.Errorf("IsInsertable at offset %d (%v): got (\\nx=%t, x\\n=%t, x=%t), want (%t, %t, %t)",
				off, p, gotLeadingNL, gotTrailingNL, gotPlain,
				wantLeadingNL, wantTrailingNL, wantPlain)
		}
	}
}

func TestIsDeletable(t *testing.T) {
	buf := newTagged(t, sealedMiddle)
	g := region.NewGuard(buf, region.Options{Strict: true})

	ranges := buf.TagRanges(region.TagName)
	tagStart := buf.OffsetOf(ranges[0].Start) // 7
	tagEnd := buf.OffsetOf(ranges[0].End)     // 68

	for off := 0; off < len(buf.Contents()); off++ {
		got := g.IsDeletable(buf.PosAtOffset(off))

		// The newline at tagStart-1 separates the block from "prefix", so it
		// must stay; everything in [tagStart, tagEnd] is sealed structure,
		// including the newline at the range end.
		want := !(off == tagStart-1 || (off >= tagStart && off <= tagEnd))

		if got != want {
			t.Errorf("IsDeletable(offset %d, char %q) = %t, want %t",
				off, buf.Contents()[off], got, want)
		}
	}
}

func TestIsDeletableBlankLineAboveBlock(t *testing.T) {
	buf := newTagged(t, sealedBetweenBlankLines)
	g := region.NewGuard(buf, region.Options{Strict: true})

	// Offset 5 is the blank line's newline right before the block; the
	// character before it is also a newline, so collapsing is allowed.
	if !g.IsDeletable(buf.PosAtOffset(5)) {
		t.Error("IsDeletable(blank-line newline before a block) = false, want true")
	}
	// Offset 4 is the newline ending "text"; deleting it would glue "text"
	// onto the blank line, which is fine -- it is not the sole separator.
	if !g.IsDeletable(buf.PosAtOffset(4)) {
		t.Error("IsDeletable(newline two lines above a block) = false, want true")
	}
}

func TestIsDeletableBlockAtBufferStart(t *testing.T) {
	buf := newTagged(t, sealedAtStart)
	g := region.NewGuard(buf, region.Options{Strict: true})

	// The block starts at the very beginning: offset 0 is the tag start.
	if g.IsDeletable(buf.Start()) {
		t.Error("IsDeletable(tag start) = true, want false")
	}
}

func pinOffsets(t *testing.T, buf *textbuf.Buffer, g *region.Guard, fromOff, toOff int) [][2]int {
	t.Helper()
	ranges := g.PinDeletableRanges(buf.PosAtOffset(fromOff), buf.PosAtOffset(toOff))
	var got [][2]int
	for _, r := range ranges {
		got = append(got, [2]int{buf.OffsetOf(r.Start), buf.OffsetOf(r.End)})
	}
	return got
}

func TestPinDeletableRanges(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		from, to int
		want     [][2]int
	}{
		{
			name:    "single deletable character",
			content: sealedMiddle,
			from:    0, to: 1,
			want: [][2]int{{0, 1}},
		},
		{
			name:    "single sealed character",
			content: sealedMiddle,
			from:    30, to: 31,
			want: nil,
		},
		{
			name:    "entirely before the block",
			content: sealedMiddle,
			from:    0, to: 4,
			want: [][2]int{{0, 4}},
		},
		{
			name:    "entirely inside the block",
			content: sealedMiddle,
			from:    30, to: 40,
			want: nil,
		},
		{
			name:    "from inside the block past its end",
			content: sealedMiddle,
			from:    30, to: 71,
			want: [][2]int{{69, 71}},
		},
		{
			name: "straddling the block preserves its preceding newline",
			// From one character before the block's start line through the
			// block and into "suffix"; the char before the cursor is 'i'.
			content: sealedMiddle,
			from:    5, to: 71,
			want: [][2]int{{5, 6}, {69, 71}},
		},
		{
			name:    "prefix up to the block start from the buffer start",
			content: sealedMiddle,
			from:    0, to: 7,
			want: [][2]int{{0, 7}},
		},
		{
			name:    "right edge stops before the block",
			content: sealedMiddle,
			from:    0, to: 6,
			want: [][2]int{{0, 6}},
		},
		{
			name: "cursor after a newline may take the separator",
			// [5, 28) in sealedBetweenBlankLines: the cursor at offset 5 sits
			// right after the newline of "text", so the blank line before the
			// block may go.
			content: sealedBetweenBlankLines,
			from:    5, to: 28,
			want: [][2]int{{5, 6}},
		},
		{
			name:    "between adjacent blocks nothing is deletable",
			content: sealedAdjacent,
			from:    0, to: 88,
			want: nil,
		},
		{
			name:    "tail after a block at the buffer start",
			content: sealedAtStart,
			from:    0, to: 64,
			want: [][2]int{{62, 64}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newTagged(t, tt.content)
			g := region.NewGuard(buf, region.Options{Strict: true})

			got := pinOffsets(t, buf, g, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PinDeletableRanges(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// naiveDelete removes the deletable characters of [fromOff, toOff) one at a
// time, re-consulting the guard after every deletion. It is the reference
// the range splitter must agree with.
func naiveDelete(buf *textbuf.Buffer, g *region.Guard, fromOff, toOff int) {
	cursor, end := fromOff, toOff
	for cursor < end {
		p := buf.PosAtOffset(cursor)
		if g.IsDeletable(p) {
			buf.Delete(p, buf.Advance(p, 1))
			end--
		} else {
			cursor++
		}
	}
}

func TestDeleteDeletablesEquivalence(t *testing.T) {
	contents := map[string]string{
		"middle":      sealedMiddle,
		"blank_lines": sealedBetweenBlankLines,
		"adjacent":    sealedAdjacent,
		"at_start":    sealedAtStart,
	}

	for name, content := range contents {
		t.Run(name, func(t *testing.T) {
			size := len(textbuf.New(content).Contents())

			for from := 0; from < size; from++ {
				for to := from + 1; to <= size; to++ {
					naiveBuf := newTagged(t, content)
					naiveGuard := region.NewGuard(naiveBuf, region.Options{})
					naiveDelete(naiveBuf, naiveGuard, from, to)

					pinBuf := newTagged(t, content)
					pinGuard := region.NewGuard(pinBuf, region.Options{Strict: true})

					sealedBefore := region.CaptureSealedBlocks(pinBuf)

					pinned := pinOffsets(t, pinBuf, pinGuard, from, to)
					for i, r := range pinned {
						if r[0] < from || r[1] > to {
							t.Fatalf("[%d,%d): pinned range %v outside the query", from, to, r)
						}
						if r[0] >= r[1] {
							t.Fatalf("[%d,%d): empty pinned range %v", from, to, r)
						}
						if i > 0 && pinned[i-1][1] > r[0] {
							t.Fatalf("[%d,%d): pinned ranges out of order: %v", from, to, pinned)
						}
					}

					pinGuard.DeleteDeletables(pinBuf.PosAtOffset(from), pinBuf.PosAtOffset(to))

					if naiveBuf.Contents() != pinBuf.Contents() {
						t.Fatalf("[%d,%d): naive = %q, pinned = %q",
							from, to, naiveBuf.Contents(), pinBuf.Contents())
					}
					if !reflect.DeepEqual(
						naiveBuf.TagRanges(region.TagName),
						pinBuf.TagRanges(region.TagName),
					) {
						t.Fatalf("[%d,%d): tag ranges diverge: naive %v, pinned %v",
							from, to,
							naiveBuf.TagRanges(region.TagName),
							pinBuf.TagRanges(region.TagName))
					}

					if got := region.CaptureSealedBlocks(pinBuf); !reflect.DeepEqual(got, sealedBefore) {
						t.Fatalf("[%d,%d): sealed content changed: %q -> %q",
							from, to, sealedBefore, got)
					}

					if err := region.CheckTags(pinBuf); err != nil {
						t.Fatalf("[%d,%d): CheckTags after deletion: %v", from, to, err)
					}
				}
			}
		})
	}
}
