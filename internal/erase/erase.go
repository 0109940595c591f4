// Package erase removes previously stored ink segments hit by an erase
// stroke. The filter runs against each incremental eraser sample and
// tests only a segment's terminal endpoint against the axis-aligned box
// around the sample, half-width equal to the eraser's lineWidth. Long
// strokes passing through the box without an endpoint inside it survive;
// that coarseness is intentional and matches the client's behavior, so
// do not tighten it without changing both sides.
package erase

import "github.com/sketchsync/backend/internal/board"

// Reconcile returns the history with every segment whose endpoint falls
// inside the stroke's box removed, plus whether anything was removed.
// It is idempotent and order-independent: re-applying the same stroke
// to the filtered history is a no-op.
func Reconcile(history []board.Segment, stroke board.Segment) ([]board.Segment, bool) {
	kept := history[:0:0]
	for _, seg := range history {
		if hits(seg, stroke) {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == len(history) {
		return history, false
	}
	return kept, true
}

func hits(seg, stroke board.Segment) bool {
	r := stroke.LineWidth
	return seg.X1 >= stroke.X0-r && seg.X1 <= stroke.X0+r &&
		seg.Y1 >= stroke.Y0-r && seg.Y1 <= stroke.Y0+r
}
