package board

import (
	"errors"
	"math"
)

var (
	ErrBadGeometry  = errors.New("coordinates must be finite numbers")
	ErrBadLineWidth = errors.New("lineWidth must be positive")
	ErrNoColor      = errors.New("color is required for ink strokes")
	ErrNoTextAreaID = errors.New("text area id is required")
	ErrBadSize      = errors.New("width and height must be non-negative")
)

// One line segment of a stroke, the atomic unit of ink history. An
// eraserMode segment is never stored; it is consumed by the reconciler.
type Segment struct {
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	Color      string  `json:"color"`
	LineWidth  float64 `json:"lineWidth"`
	EraserMode bool    `json:"eraserMode,omitempty"`
}

func (s Segment) Validate() error {
	if !finite(s.X0, s.Y0, s.X1, s.Y1) {
		return ErrBadGeometry
	}
	if !(s.LineWidth > 0) {
		return ErrBadLineWidth
	}
	if !s.EraserMode && s.Color == "" {
		return ErrNoColor
	}
	return nil
}

// A positioned text box on a canvas. Updates replace the whole object,
// there is no per-field patching.
type TextArea struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
}

func (t TextArea) Validate() error {
	if t.ID == "" {
		return ErrNoTextAreaID
	}
	if !finite(t.X, t.Y, t.Width, t.Height) {
		return ErrBadGeometry
	}
	if t.Width < 0 || t.Height < 0 {
		return ErrBadSize
	}
	return nil
}

// CanvasSnapshot is the immutable per-canvas view handed to late
// joiners and the rooms API.
type CanvasSnapshot struct {
	ID        string     `json:"id"`
	Drawings  []Segment  `json:"drawings"`
	TextAreas []TextArea `json:"textAreas"`
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
