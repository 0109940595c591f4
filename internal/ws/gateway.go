package ws

import (
	"errors"
	"log"

	"github.com/sketchsync/backend/internal/protocol"
	"github.com/sketchsync/backend/internal/room"
)

// Gateway routes inbound frames from a connection to the room manager.
// Malformed or unknown events are dropped here; no inbound frame can
// take down another room's processing.
type Gateway struct {
	manager *room.Manager
}

func NewGateway(manager *room.Manager) *Gateway {
	return &Gateway{manager: manager}
}

func (g *Gateway) HandleMessage(connID string, data []byte) {
	event, payload, err := protocol.Decode(data)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownEvent) {
			log.Printf("⚠️ Unknown event %q from client %s", event, connID)
		} else {
			log.Printf("⚠️ Invalid message from client %s: %v", connID, err)
		}
		return
	}

	switch p := payload.(type) {
	case *protocol.JoinRoom:
		g.manager.Join(p.RoomID, connID)
	case *protocol.NewCanvas:
		g.manager.CreateCanvas(g.roomFor(p.RoomID, connID), p.ID)
	case *protocol.Draw:
		g.manager.AppendDrawing(g.roomFor(p.RoomID, connID), p.CanvasID, p.Drawing, connID)
	case *protocol.TextUpdate:
		g.manager.UpsertTextAreas(g.roomFor(p.RoomID, connID), p.CanvasID, p.TextAreas, connID)
	case *protocol.CanvasRef:
		roomID := g.roomFor(p.RoomID, connID)
		if event == protocol.EventClearCanvas {
			g.manager.ClearCanvas(roomID, p.CanvasID)
		} else {
			g.manager.DeleteCanvas(roomID, p.CanvasID)
		}
	}
}

func (g *Gateway) HandleDisconnect(connID string) {
	g.manager.Disconnect(connID)
}

// roomFor resolves payloads that omit roomId (delete-canvas may carry a
// bare canvas id) against the connection's current membership.
func (g *Gateway) roomFor(roomID, connID string) string {
	if roomID != "" {
		return roomID
	}
	return g.manager.RoomOf(connID)
}
