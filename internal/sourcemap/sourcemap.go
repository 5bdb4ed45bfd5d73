// Package sourcemap builds a source map (v3) for the call rewriter's
// output. No library in the reference corpus implements VLQ mapping
// encoding, so this stays on the standard library — it is the one piece
// of the driver with nothing upstream to adapt.
package sourcemap

import (
	"strings"

	"github.com/viteplug/inlinetask/internal/rewrite"
)

// Map is a source map v3 document, serialisable with encoding/json.
type Map struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Build produces a v3 map from generatedOutput's positions back to the
// corresponding positions in originalSource, using the passthrough
// segments the rewriter's Buffer recorded for every byte range it copied
// verbatim. Edited spans — insertions, rewritten identifiers, the
// trailing capture object — have no single corresponding original
// position, so only passthrough segments contribute a mapping; this
// gives a sparse but accurate map, same tradeoff a minifier's source map
// makes for synthesised code.
func Build(fileName, originalSource, generatedOutput string, segments []rewrite.Segment) Map {
	genStarts := lineStarts(generatedOutput)
	srcStarts := lineStarts(originalSource)

	var b strings.Builder
	currentGenLine := 0
	prevGenCol := 0
	prevSrcLine := 0
	prevSrcCol := 0
	firstInLine := true

	for _, seg := range segments {
		genLine, genCol := position(genStarts, seg.GeneratedOffset)
		srcLine, srcCol := position(srcStarts, seg.OriginalOffset)

		for currentGenLine < genLine {
			b.WriteByte(';')
			currentGenLine++
			prevGenCol = 0
			firstInLine = true
		}

		if !firstInLine {
			b.WriteByte(',')
		}
		firstInLine = false

		writeVLQ(&b, genCol-prevGenCol)
		writeVLQ(&b, 0) // source index delta: always 0, there is one source
		writeVLQ(&b, srcLine-prevSrcLine)
		writeVLQ(&b, srcCol-prevSrcCol)

		prevGenCol = genCol
		prevSrcLine = srcLine
		prevSrcCol = srcCol
	}

	return Map{
		Version:        3,
		Sources:        []string{fileName},
		SourcesContent: []string{originalSource},
		Mappings:       b.String(),
	}
}

// position returns the zero-based (line, column) of byte offset in a
// text whose line-start offsets are lineStarts.
func position(starts []int, offset int) (line, col int) {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - starts[lo]
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

const vlqChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ appends value to b as a base64 VLQ-encoded field, the
// encoding source maps use for every mapping delta.
func writeVLQ(b *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		b.WriteByte(vlqChars[digit])
		if v == 0 {
			break
		}
	}
}
