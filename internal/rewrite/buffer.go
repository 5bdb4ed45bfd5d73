// Package rewrite turns a useInlineTask call site and its resolved
// captures into edited source text — a scope parameter, capture-qualified
// identifier references, a trailing capture object literal, and spliced
// return-site argument injection.
package rewrite

import (
	"fmt"
	"sort"
	"strings"
)

// edit replaces the half-open byte range [start, end) of the original
// source with text. Insertions (no bytes consumed) use start == end.
type edit struct {
	start, end int
	text       string
}

// Buffer accumulates non-overlapping edits against one source file and
// applies them in a single pass, the same way markers.go reassembles a
// rewritten file from an ordered sequence of parts rather than mutating
// text in place.
type Buffer struct {
	source string
	edits  []edit
}

func NewBuffer(source string) *Buffer {
	return &Buffer{source: source}
}

// Insert schedules text to be spliced in at pos without consuming any
// original bytes. Multiple inserts at the same pos apply in the order
// they were added.
func (b *Buffer) Insert(pos int, text string) {
	b.edits = append(b.edits, edit{start: pos, end: pos, text: text})
}

// Replace schedules the bytes in [start, end) to be replaced with text.
func (b *Buffer) Replace(start, end int, text string) {
	if end < start {
		panic(fmt.Sprintf("rewrite: invalid replace span [%d, %d)", start, end))
	}
	b.edits = append(b.edits, edit{start: start, end: end, text: text})
}

// Apply renders the final source text. Edits are sorted by start
// position; ties keep insertion order so same-position inserts splice in
// the order they were scheduled. Overlapping non-insert spans are a
// programmer error — the rewriter must never produce two edits that both
// consume bytes from the same position.
func (b *Buffer) Apply() (string, error) {
	out, _, err := b.ApplyWithSegments()
	return out, err
}

// Segment anchors a run of Length bytes of untouched source, copied
// verbatim into the output starting at GeneratedOffset, back to its
// original position OriginalOffset. internal/sourcemap walks these to
// build a source map: edited spans (insertions and replacements) carry
// no mapping of their own, since there is no single original position
// that injected text corresponds to, but every passthrough byte does.
type Segment struct {
	GeneratedOffset int
	OriginalOffset  int
	Length          int
}

// ApplyWithSegments is Apply plus the passthrough segments needed to
// build a source map.
func (b *Buffer) ApplyWithSegments() (string, []Segment, error) {
	ordered := make([]edit, len(b.edits))
	copy(ordered, b.edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].start < ordered[j].start
	})

	var out strings.Builder
	out.Grow(len(b.source))
	var segments []Segment
	cursor := 0
	for _, e := range ordered {
		if e.start < cursor {
			return "", nil, fmt.Errorf("rewrite: overlapping edit at byte %d (cursor already at %d)", e.start, cursor)
		}
		if e.start > cursor {
			segments = append(segments, Segment{GeneratedOffset: out.Len(), OriginalOffset: cursor, Length: e.start - cursor})
		}
		out.WriteString(b.source[cursor:e.start])
		out.WriteString(e.text)
		cursor = e.end
	}
	if cursor < len(b.source) {
		segments = append(segments, Segment{GeneratedOffset: out.Len(), OriginalOffset: cursor, Length: len(b.source) - cursor})
	}
	out.WriteString(b.source[cursor:])
	return out.String(), segments, nil
}
