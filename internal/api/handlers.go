package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sketchsync/backend/internal/room"
	"github.com/sketchsync/backend/internal/ws"
)

// API exposes read-mostly observability endpoints over the in-memory
// room state. It is not part of the sync protocol; clients talk over
// the WebSocket.
type API struct {
	hub     *ws.Hub
	manager *room.Manager
}

func New(hub *ws.Hub, manager *room.Manager) *API {
	return &API{
		hub:     hub,
		manager: manager,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, members, canvases := a.manager.Stats()
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"active_rooms":    rooms,
		"active_clients":  a.hub.ClientCount(),
		"active_members":  members,
		"active_canvases": canvases,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// RoomsRouter handles /api/rooms and /api/rooms/{id}.
func (a *API) RoomsRouter(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/rooms")
	path = strings.Trim(path, "/")

	if path == "" {
		a.listRooms(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getRoom(w, r, path)
	case http.MethodDelete:
		a.deleteRoom(w, r, path)
	default:
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (a *API) listRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	infos := a.manager.RoomInfos()
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": infos,
		"count": len(infos),
	})
}

func (a *API) getRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	snapshot, ok := a.manager.Snapshot(roomID)
	if !ok {
		errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"id":       roomID,
		"members":  a.hub.SubscriberCount(roomID),
		"canvases": snapshot,
	})
}

func (a *API) deleteRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	if !a.manager.CloseRoom(roomID) {
		errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "id": roomID})
}
