package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchsync/backend/internal/board"
)

func TestDecodeJoinRoom(t *testing.T) {
	event, payload, err := Decode([]byte(`{"event":"join-room","data":{"roomId":"r1"}}`))
	require.NoError(t, err)
	assert.Equal(t, EventJoinRoom, event)
	require.IsType(t, &JoinRoom{}, payload)
	assert.Equal(t, "r1", payload.(*JoinRoom).RoomID)
}

func TestDecodeDraw(t *testing.T) {
	frame := []byte(`{"event":"draw","data":{"canvasId":"canvas-1712","roomId":"r1","drawing":{"x0":0,"y0":0,"x1":10,"y1":10,"color":"#000","lineWidth":5}}}`)
	event, payload, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, EventDraw, event)

	draw := payload.(*Draw)
	assert.Equal(t, "r1", draw.RoomID)
	assert.Equal(t, "canvas-1712", draw.CanvasID)
	assert.Equal(t, board.Segment{X0: 0, Y0: 0, X1: 10, Y1: 10, Color: "#000", LineWidth: 5}, draw.Drawing)
}

func TestDecodeEraserDraw(t *testing.T) {
	frame := []byte(`{"event":"draw","data":{"canvasId":"c1","roomId":"r1","drawing":{"x0":10,"y0":10,"x1":10,"y1":10,"lineWidth":5,"eraserMode":true}}}`)
	_, payload, err := Decode(frame)
	require.NoError(t, err)
	assert.True(t, payload.(*Draw).Drawing.EraserMode)
}

func TestDecodeDeleteCanvasObjectAndBareID(t *testing.T) {
	_, payload, err := Decode([]byte(`{"event":"delete-canvas","data":{"canvasId":"c1","roomId":"r1"}}`))
	require.NoError(t, err)
	ref := payload.(*CanvasRef)
	assert.Equal(t, "c1", ref.CanvasID)
	assert.Equal(t, "r1", ref.RoomID)

	_, payload, err = Decode([]byte(`{"event":"delete-canvas","data":"c1"}`))
	require.NoError(t, err)
	ref = payload.(*CanvasRef)
	assert.Equal(t, "c1", ref.CanvasID)
	assert.Equal(t, "", ref.RoomID)
}

func TestDecodeTextUpdate(t *testing.T) {
	frame := []byte(`{"event":"text-update","data":{"canvasId":"c1","roomId":"r1","textAreas":[{"id":"t1","x":5,"y":5,"width":100,"height":40,"text":"hi"}]}}`)
	_, payload, err := Decode(frame)
	require.NoError(t, err)

	update := payload.(*TextUpdate)
	require.Len(t, update.TextAreas, 1)
	assert.Equal(t, "hi", update.TextAreas[0].Text)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"not json":              []byte(`{{{`),
		"unknown event":         []byte(`{"event":"shout","data":{}}`),
		"join without room":     []byte(`{"event":"join-room","data":{}}`),
		"new-canvas without id": []byte(`{"event":"new-canvas","data":{"roomId":"r1"}}`),
		"draw without canvas":   []byte(`{"event":"draw","data":{"roomId":"r1","drawing":{"x0":0,"y0":0,"x1":1,"y1":1,"color":"#000","lineWidth":5}}}`),
		"draw with zero width":  []byte(`{"event":"draw","data":{"canvasId":"c1","roomId":"r1","drawing":{"x0":0,"y0":0,"x1":1,"y1":1,"color":"#000","lineWidth":0}}}`),
		"text area without id":  []byte(`{"event":"text-update","data":{"canvasId":"c1","roomId":"r1","textAreas":[{"text":"x"}]}}`),
		"clear without canvas":  []byte(`{"event":"clear-canvas","data":{"roomId":"r1"}}`),
	}

	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode(frame)
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	frame := Encode(EventRoomDeleted, RoomDeleted{RoomID: "r1"})
	require.NotNil(t, frame)

	event, _, err := Decode(frame)
	require.ErrorIs(t, err, ErrUnknownEvent, "room-deleted is outbound-only")
	assert.Equal(t, EventRoomDeleted, event)

	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	var payload RoomDeleted
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "r1", payload.RoomID)
}

func TestEncodeSnapshotShape(t *testing.T) {
	snap := []board.CanvasSnapshot{{
		ID:        "c1",
		Drawings:  []board.Segment{{X1: 10, Y1: 10, Color: "#000", LineWidth: 5}},
		TextAreas: []board.TextArea{},
	}}
	frame := Encode(EventLoadRoomCanvases, snap)
	require.NotNil(t, frame)

	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, EventLoadRoomCanvases, env.Event)

	var decoded []board.CanvasSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "c1", decoded[0].ID)
	assert.NotNil(t, decoded[0].TextAreas)
}
