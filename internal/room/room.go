package room

import (
	"sync"

	"github.com/sketchsync/backend/internal/board"
)

// A collaborative drawing session. All state lives behind mu; the mutex
// is the room's serialization token, so every mutation and every
// publish for this room happens under it.
type Room struct {
	id       string
	mu       sync.Mutex
	members  map[string]struct{}
	canvases map[string]*canvas
	order    []string
}

type canvas struct {
	drawings  []board.Segment
	textAreas []board.TextArea
}

func newRoom(id string) *Room {
	return &Room{
		id:       id,
		members:  make(map[string]struct{}),
		canvases: make(map[string]*canvas),
	}
}

// snapshotLocked deep-copies every canvas in creation order. Callers
// hold r.mu. The copy is what keeps earlier snapshot consumers immune
// to later history mutation.
func (r *Room) snapshotLocked() []board.CanvasSnapshot {
	snap := make([]board.CanvasSnapshot, 0, len(r.order))
	for _, id := range r.order {
		c, ok := r.canvases[id]
		if !ok {
			continue
		}
		cs := board.CanvasSnapshot{
			ID:        id,
			Drawings:  make([]board.Segment, len(c.drawings)),
			TextAreas: make([]board.TextArea, len(c.textAreas)),
		}
		copy(cs.Drawings, c.drawings)
		copy(cs.TextAreas, c.textAreas)
		snap = append(snap, cs)
	}
	return snap
}

func (r *Room) removeFromOrder(canvasID string) {
	for i, id := range r.order {
		if id == canvasID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
