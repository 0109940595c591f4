package erase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchsync/backend/internal/board"
)

func seg(x0, y0, x1, y1 float64) board.Segment {
	return board.Segment{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: "#000", LineWidth: 5}
}

func eraser(x, y, width float64) board.Segment {
	return board.Segment{X0: x, Y0: y, X1: x, Y1: y, LineWidth: width, EraserMode: true}
}

func TestReconcileRemovesSegmentsEndingInBox(t *testing.T) {
	history := []board.Segment{
		seg(0, 0, 10, 10),
		seg(50, 50, 100, 100),
		seg(90, 90, 12, 8),
	}

	got, changed := Reconcile(history, eraser(10, 10, 5))

	assert.True(t, changed)
	require.Len(t, got, 1)
	assert.Equal(t, seg(50, 50, 100, 100), got[0])
}

func TestReconcileBoxBoundaryIsInclusive(t *testing.T) {
	history := []board.Segment{
		seg(0, 0, 15, 15), // exactly on the box corner
		seg(0, 0, 15.01, 15),
	}

	got, changed := Reconcile(history, eraser(10, 10, 5))

	assert.True(t, changed)
	require.Len(t, got, 1)
	assert.Equal(t, 15.01, got[0].X1)
}

// Only the terminal endpoint is tested: a stroke passing through the
// eraser box with both endpoints outside it survives.
func TestReconcileIgnoresSegmentBody(t *testing.T) {
	history := []board.Segment{
		seg(-100, 10, 100, 10), // crosses the box, endpoint far away
		seg(10, -100, 10, 100),
	}

	got, changed := Reconcile(history, eraser(10, 10, 5))

	assert.False(t, changed)
	assert.Len(t, got, 2)
}

func TestReconcileIsIdempotent(t *testing.T) {
	history := []board.Segment{
		seg(0, 0, 10, 10),
		seg(50, 50, 100, 100),
		seg(20, 20, 8, 13),
	}
	stroke := eraser(10, 10, 5)

	once, changed := Reconcile(history, stroke)
	assert.True(t, changed)

	twice, changed := Reconcile(once, stroke)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestReconcileEmptyHistory(t *testing.T) {
	got, changed := Reconcile(nil, eraser(0, 0, 10))
	assert.False(t, changed)
	assert.Empty(t, got)
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	history := []board.Segment{
		seg(0, 0, 10, 10),
		seg(50, 50, 100, 100),
	}

	got, _ := Reconcile(history, eraser(10, 10, 5))

	assert.Len(t, history, 2, "input history must be left intact")
	require.Len(t, got, 1)
	got[0].Color = "#fff"
	assert.Equal(t, "#000", history[1].Color)
}
