// Package block pairs sealing markers into validated blocks and verifies
// their content fingerprints.
package block

import (
	"crypto/md5"
	"fmt"
	"strings"

	"sealbox/internal/marker"
	"sealbox/pkg/lines"
)

// Block is one sealed region, delimited by a start and an end marker.
// Start.Line < End.Line always holds for an assembled block, and a slice of
// assembled blocks is ordered and non-overlapping by construction.
type Block struct {
	Start marker.Marker
	End   marker.Marker
}

// Assemble pairs the markers into non-overlapping blocks. Markers must be in
// line order, as produced by marker.Extract. On a structural problem (double
// start, end without start, unterminated block, inconsistent suffixes) it
// returns a descriptive error naming the offending 1-based line numbers.
func Assemble(markers []marker.Marker) ([]Block, error) {
	var result []Block
	var open *marker.Marker

	for _, m := range markers {
		m := m
		switch m.Kind {
		case marker.Start:
			if open != nil {
				return nil, fmt.Errorf(
					"Unexpected double start of a sealing block at line %d. "+
						"The previous block started at line %d.",
					m.Line+1, open.Line+1)
			}
			open = &m

		case marker.End:
			if open == nil {
				return nil, fmt.Errorf(
					"Unexpected end of a sealing block at line %d "+
						"without a starting comment.",
					m.Line+1)
			}

			switch {
			case open.Suffix == "" && m.Suffix != "":
				return nil, fmt.Errorf(
					"The suffix of the sealing block at line %d contains no hash suffix, "+
						"but the hash suffix of the block at line %d is: %q",
					open.Line+1, m.Line+1, m.Suffix)
			case open.Suffix != "" && m.Suffix == "":
				return nil, fmt.Errorf(
					"The suffix of the sealing block at line %d contains "+
						"the hash suffix %q, but there is no suffix at the end of "+
						"the block at line %d.",
					open.Line+1, open.Suffix, m.Line+1)
			case open.Suffix != m.Suffix:
				return nil, fmt.Errorf(
					"The suffix of the sealing block at line %d contains "+
						"the hash suffix %q, but the suffix at the end of the block "+
						"at line %d does not match it: %q",
					open.Line+1, open.Suffix, m.Line+1, m.Suffix)
			}

			result = append(result, Block{Start: *open, End: m})
			open = nil
		}
	}

	if open != nil {
		return nil, fmt.Errorf(
			"Unexpected open block at the end. The block started at line %d.",
			open.Line+1)
	}

	return result, nil
}

// Body returns the protected content of the block: the lines strictly
// between the two marker lines, joined by newlines.
func Body(ls lines.Lines, b Block) string {
	return strings.Join([]string(ls[b.Start.Line+1:b.End.Line]), "\n")
}

// Fingerprint computes the fingerprint of a block body at the given ordinal
// index among the blocks of one sealing pass. The index salt keeps two
// copy-pasted identical blocks from sealing to the same hash.
func Fingerprint(index int, body string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d.%s", index, body)))
	hexSum := fmt.Sprintf("%x", sum)
	return hexSum[len(hexSum)-8:]
}

// Verify checks that the stored fingerprints match the block bodies.
// A block may have been copy-pasted, so each one is matched against the
// ordinal indices from the number of blocks already matched upward. All
// blocks are checked even when earlier ones fail; one error is reported per
// failing block.
func Verify(ls lines.Lines, blocks []Block) (ok []Block, errs []error) {
	matched := 0
	for _, b := range blocks {
		body := Body(ls, b)

		found := false
		for i := matched; i < len(blocks); i++ {
			if Fingerprint(i, body) == b.Start.Suffix {
				found = true
				matched++
				ok = append(ok, b)
				break
			}
		}

		if !found {
			errs = append(errs, fmt.Errorf(
				"The hash of the sealed block starting at line %d is invalid. "+
					"Did you seal the content of the file properly?",
				b.Start.Line+1))
		}
	}

	return ok, errs
}
