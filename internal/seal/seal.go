// Package seal implements the offline sealing transform: it stamps fresh
// content fingerprints onto the marker lines of a line sequence.
package seal

import (
	"strings"
	"unicode"

	"sealbox/internal/block"
	"sealbox/internal/marker"
	"sealbox/pkg/lines"
)

// Seal computes a fingerprint for every sealed block and rewrites the marker
// lines to carry it. Lines outside blocks pass through unchanged, so the
// result always has as many lines as the input. A structural problem in the
// markers is returned as an error and no lines are produced.
func Seal(ls lines.Lines) (lines.Lines, error) {
	markers := marker.Extract(ls)
	blocks, err := block.Assemble(markers)
	if err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		return ls, nil
	}

	result := make(lines.Lines, 0, len(ls))
	result = append(result, ls[:blocks[0].Start.Line]...)

	for i, b := range blocks {
		if i > 0 {
			result = append(result, ls[blocks[i-1].End.Line+1:b.Start.Line]...)
		}

		fp := block.Fingerprint(i, block.Body(ls, b))

		result = append(result, trimTrailing(b.Start.Prefix)+" "+fp)
		result = append(result, ls[b.Start.Line+1:b.End.Line]...)
		result = append(result, trimTrailing(b.End.Prefix)+" "+fp)
	}

	result = append(result, ls[blocks[len(blocks)-1].End.Line+1:]...)

	return result, nil
}

// Content seals a whole document. The presence of a trailing newline in the
// input is preserved in the output.
func Content(content string) (string, error) {
	sealed, err := Seal(lines.Split(content))
	if err != nil {
		return "", err
	}

	out := sealed.Join()
	if strings.HasSuffix(content, "\n") {
		out += "\n"
	}
	return out, nil
}

func trimTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
