// Package protocol defines the JSON event vocabulary exchanged between
// a connection and the sync core. Event names are the literal wire
// identifiers the whiteboard client emits and listens for.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sketchsync/backend/internal/board"
)

const (
	EventJoinRoom         = "join-room"
	EventLoadRoomCanvases = "load-room-canvases"
	EventNewCanvas        = "new-canvas"
	EventDraw             = "draw"
	EventTextUpdate       = "text-update"
	EventClearCanvas      = "clear-canvas"
	EventDeleteCanvas     = "delete-canvas"
	EventRoomDeleted      = "room-deleted"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMissingRoom  = errors.New("roomId is required")
	ErrMissingID    = errors.New("id is required")
)

// Envelope wraps every wire message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type JoinRoom struct {
	RoomID string `json:"roomId"`
}

type NewCanvas struct {
	RoomID string `json:"roomId"`
	ID     string `json:"id"`
}

type Draw struct {
	RoomID   string        `json:"roomId"`
	CanvasID string        `json:"canvasId"`
	Drawing  board.Segment `json:"drawing"`
}

type TextUpdate struct {
	RoomID    string           `json:"roomId"`
	CanvasID  string           `json:"canvasId"`
	TextAreas []board.TextArea `json:"textAreas"`
}

// CanvasRef addresses one canvas; used by clear-canvas and
// delete-canvas. The client may send a bare canvas id string instead of
// an object, in which case the room is resolved from the connection's
// current membership.
type CanvasRef struct {
	RoomID   string `json:"roomId"`
	CanvasID string `json:"canvasId"`
}

func (r *CanvasRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.CanvasID)
	}
	type ref CanvasRef
	var v ref
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = CanvasRef(v)
	return nil
}

type RoomDeleted struct {
	RoomID string `json:"roomId"`
}

// Decode parses an inbound frame into its typed payload.
func Decode(data []byte) (string, any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("bad envelope: %w", err)
	}

	var payload any
	switch env.Event {
	case EventJoinRoom:
		payload = &JoinRoom{}
	case EventNewCanvas:
		payload = &NewCanvas{}
	case EventDraw:
		payload = &Draw{}
	case EventTextUpdate:
		payload = &TextUpdate{}
	case EventClearCanvas, EventDeleteCanvas:
		payload = &CanvasRef{}
	default:
		return env.Event, nil, ErrUnknownEvent
	}

	if err := json.Unmarshal(env.Data, payload); err != nil {
		return env.Event, nil, fmt.Errorf("bad %s payload: %w", env.Event, err)
	}
	if err := validate(payload); err != nil {
		return env.Event, nil, fmt.Errorf("invalid %s payload: %w", env.Event, err)
	}
	return env.Event, payload, nil
}

func validate(payload any) error {
	switch p := payload.(type) {
	case *JoinRoom:
		if p.RoomID == "" {
			return ErrMissingRoom
		}
	case *NewCanvas:
		if p.ID == "" {
			return ErrMissingID
		}
	case *Draw:
		if p.CanvasID == "" {
			return ErrMissingID
		}
		return p.Drawing.Validate()
	case *TextUpdate:
		if p.CanvasID == "" {
			return ErrMissingID
		}
		for _, ta := range p.TextAreas {
			if err := ta.Validate(); err != nil {
				return err
			}
		}
	case *CanvasRef:
		if p.CanvasID == "" {
			return ErrMissingID
		}
	}
	return nil
}

// Encode builds an outbound frame. Marshal errors cannot happen for the
// payload types this core emits, so Encode swallows them and returns nil
// for the caller to skip.
func Encode(event string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil
	}
	return frame
}
