package room

import (
	"log"
	"sync"

	"github.com/sketchsync/backend/internal/board"
	"github.com/sketchsync/backend/internal/erase"
	"github.com/sketchsync/backend/internal/protocol"
)

// Publisher is the outbound side of the core: subscription bookkeeping
// and frame delivery. Implemented by ws.Hub. None of its methods may
// block on network I/O; the manager calls them while holding a room's
// serialization token.
type Publisher interface {
	Subscribe(roomID, connID string)
	Unsubscribe(roomID, connID string)
	Send(connID string, frame []byte)
	Publish(roomID string, frame []byte, excludeConnID string)
}

// Manager owns the roomID -> Room mapping and all authoritative state.
// Operations referencing a missing room or canvas are silent no-ops:
// the worst outcome of a bad event is that nothing happens.
type Manager struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	byConn map[string]string
	pub    Publisher
}

func NewManager(pub Publisher) *Manager {
	return &Manager{
		rooms:  make(map[string]*Room),
		byConn: make(map[string]string),
		pub:    pub,
	}
}

// Join registers the connection in the room, creating the room if it is
// unseen, and delivers the full-state snapshot to the joiner before any
// later broadcast can reach it. A connection belongs to at most one
// room; joining another room moves the membership.
func (m *Manager) Join(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byConn[connID]; ok {
		if prev == roomID {
			return
		}
		m.leaveLocked(prev, connID)
	}

	r, ok := m.rooms[roomID]
	if !ok {
		r = newRoom(roomID)
		m.rooms[roomID] = r
		log.Printf("Room %s created", roomID)
	}
	m.byConn[connID] = roomID

	r.mu.Lock()
	r.members[connID] = struct{}{}
	count := len(r.members)
	m.pub.Subscribe(roomID, connID)
	m.pub.Send(connID, protocol.Encode(protocol.EventLoadRoomCanvases, r.snapshotLocked()))
	r.mu.Unlock()

	log.Printf("Client joined room %s (total: %d)", roomID, count)
}

// Leave removes the membership; the last member out deletes the room.
func (m *Manager) Leave(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byConn[connID] != roomID {
		return
	}
	m.leaveLocked(roomID, connID)
}

// Disconnect is the transport-driven leave.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if roomID, ok := m.byConn[connID]; ok {
		m.leaveLocked(roomID, connID)
	}
}

// leaveLocked runs under m.mu. The room-deleted notice is best-effort:
// by definition nobody is left subscribed once the member set empties,
// so it only reaches connections caught mid-disconnect.
func (m *Manager) leaveLocked(roomID, connID string) {
	delete(m.byConn, connID)
	r, ok := m.rooms[roomID]
	if !ok {
		return
	}

	r.mu.Lock()
	delete(r.members, connID)
	remaining := len(r.members)
	m.pub.Unsubscribe(roomID, connID)
	r.mu.Unlock()

	if remaining > 0 {
		log.Printf("Client left room %s (remaining: %d)", roomID, remaining)
		return
	}

	delete(m.rooms, roomID)
	m.pub.Publish(roomID, protocol.Encode(protocol.EventRoomDeleted, protocol.RoomDeleted{RoomID: roomID}), "")
	log.Printf("Room %s closed (empty)", roomID)
}

// room fetches without creating.
func (m *Manager) room(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// RoomOf reports the connection's current room, if any.
func (m *Manager) RoomOf(connID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byConn[connID]
}

// CreateCanvas inserts an empty canvas and announces it to the whole
// room, sender included (clients apply creation from the server echo).
// A duplicate id is silently ignored with no broadcast.
func (m *Manager) CreateCanvas(roomID, canvasID string) {
	r := m.room(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.canvases[canvasID]; exists {
		return
	}
	r.canvases[canvasID] = &canvas{}
	r.order = append(r.order, canvasID)
	m.pub.Publish(roomID, protocol.Encode(protocol.EventNewCanvas, protocol.NewCanvas{RoomID: roomID, ID: canvasID}), "")
}

// AppendDrawing stores an ink segment, or for an erase stroke filters
// the stored history instead. Either way the event is relayed to every
// other member, which already applied its own stroke locally.
func (m *Manager) AppendDrawing(roomID, canvasID string, seg board.Segment, senderID string) {
	r := m.room(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvases[canvasID]
	if !ok {
		return
	}

	if seg.EraserMode {
		c.drawings, _ = erase.Reconcile(c.drawings, seg)
	} else {
		c.drawings = append(c.drawings, seg)
	}
	m.pub.Publish(roomID, protocol.Encode(protocol.EventDraw, protocol.Draw{
		RoomID:   roomID,
		CanvasID: canvasID,
		Drawing:  seg,
	}), senderID)
}

// UpsertTextAreas replaces the canvas's whole text-area collection.
// Last writer wins; a set omitting a previously known id deletes it
// outright. Duplicate ids within one update collapse to the last entry.
func (m *Manager) UpsertTextAreas(roomID, canvasID string, textAreas []board.TextArea, senderID string) {
	r := m.room(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvases[canvasID]
	if !ok {
		return
	}

	replaced := make([]board.TextArea, 0, len(textAreas))
	seen := make(map[string]int, len(textAreas))
	for _, ta := range textAreas {
		if i, dup := seen[ta.ID]; dup {
			replaced[i] = ta
			continue
		}
		seen[ta.ID] = len(replaced)
		replaced = append(replaced, ta)
	}
	c.textAreas = replaced

	m.pub.Publish(roomID, protocol.Encode(protocol.EventTextUpdate, protocol.TextUpdate{
		RoomID:    roomID,
		CanvasID:  canvasID,
		TextAreas: replaced,
	}), senderID)
}

// ClearCanvas empties the canvas's history and text areas; the canvas
// itself survives.
func (m *Manager) ClearCanvas(roomID, canvasID string) {
	r := m.room(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.canvases[canvasID]
	if !ok {
		return
	}
	c.drawings = nil
	c.textAreas = nil
	m.pub.Publish(roomID, protocol.Encode(protocol.EventClearCanvas, protocol.CanvasRef{RoomID: roomID, CanvasID: canvasID}), "")
}

// DeleteCanvas removes the canvas from the room entirely.
func (m *Manager) DeleteCanvas(roomID, canvasID string) {
	r := m.room(roomID)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.canvases[canvasID]; !ok {
		return
	}
	delete(r.canvases, canvasID)
	r.removeFromOrder(canvasID)
	m.pub.Publish(roomID, protocol.Encode(protocol.EventDeleteCanvas, protocol.CanvasRef{RoomID: roomID, CanvasID: canvasID}), "")
}

// Snapshot returns a deep copy of the room's canvases.
func (m *Manager) Snapshot(roomID string) ([]board.CanvasSnapshot, bool) {
	r := m.room(roomID)
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(), true
}

// CloseRoom force-closes a room: members get the terminal room-deleted
// notice, then all state is dropped. Used by the admin API.
func (m *Manager) CloseRoom(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	r.mu.Lock()
	m.pub.Publish(roomID, protocol.Encode(protocol.EventRoomDeleted, protocol.RoomDeleted{RoomID: roomID}), "")
	for connID := range r.members {
		m.pub.Unsubscribe(roomID, connID)
		delete(m.byConn, connID)
	}
	r.members = make(map[string]struct{})
	r.mu.Unlock()

	delete(m.rooms, roomID)
	log.Printf("Room %s force-closed", roomID)
	return true
}

// SweepEmptyRooms removes rooms whose member set is empty. Room GC is
// synchronous on leave, so this only catches rooms orphaned by
// disconnect races.
func (m *Manager) SweepEmptyRooms() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, r := range m.rooms {
		r.mu.Lock()
		empty := len(r.members) == 0
		r.mu.Unlock()
		if empty {
			delete(m.rooms, id)
			count++
		}
	}
	return count
}

// RoomInfo is the API-facing summary of one live room.
type RoomInfo struct {
	ID       string `json:"id"`
	Members  int    `json:"members"`
	Canvases int    `json:"canvases"`
}

func (m *Manager) RoomInfos() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(m.rooms))
	for id, r := range m.rooms {
		r.mu.Lock()
		infos = append(infos, RoomInfo{ID: id, Members: len(r.members), Canvases: len(r.canvases)})
		r.mu.Unlock()
	}
	return infos
}

// Stats reports totals across all live rooms.
func (m *Manager) Stats() (rooms, members, canvases int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms = len(m.rooms)
	for _, r := range m.rooms {
		r.mu.Lock()
		members += len(r.members)
		canvases += len(r.canvases)
		r.mu.Unlock()
	}
	return rooms, members, canvases
}
