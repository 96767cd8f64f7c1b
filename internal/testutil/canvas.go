package testutil

import (
	"image/color"
	"sync"

	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// OpKind names a recorded canvas call.
type OpKind string

// Recorded canvas operations.
const (
	OpClear        OpKind = "clear"
	OpBeginPath    OpKind = "beginPath"
	OpMoveTo       OpKind = "moveTo"
	OpLineTo       OpKind = "lineTo"
	OpClosePath    OpKind = "closePath"
	OpFill         OpKind = "fill"
	OpSetFillStyle OpKind = "setFillStyle"
	OpResize       OpKind = "resize"
)

// Op is one recorded call.
type Op struct {
	Kind  OpKind
	X, Y  int         // MoveTo/LineTo point, Resize width/height
	Color color.Color // SetFillStyle only
}

// Fill is a completed Fill call with the path and colour it used.
type Fill struct {
	Path  []domain.PathPoint
	Color color.Color
}

// RecordingCanvas is a ports.Surface fake that records every call for assertions.
//
// OnResize, when set, runs in the middle of Resize, after the call is recorded.
// Tests use it to interleave work with a resize.
type RecordingCanvas struct {
	OnResize func(width, height int)

	mu      sync.Mutex
	ops     []Op
	fills   []Fill
	path    []domain.PathPoint
	current color.Color
	width   int
	height  int
}

// NewRecordingCanvas creates an empty recording canvas.
func NewRecordingCanvas() *RecordingCanvas {
	return &RecordingCanvas{}
}

func (c *RecordingCanvas) record(op Op) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

// Clear implements ports.Canvas.
func (c *RecordingCanvas) Clear() {
	c.record(Op{Kind: OpClear})
}

// BeginPath implements ports.Canvas.
func (c *RecordingCanvas) BeginPath() {
	c.mu.Lock()
	c.path = nil
	c.mu.Unlock()
	c.record(Op{Kind: OpBeginPath})
}

// MoveTo implements ports.Canvas.
func (c *RecordingCanvas) MoveTo(x, y int) {
	c.mu.Lock()
	c.path = append(c.path, domain.PathPoint{X: x, Y: y})
	c.mu.Unlock()
	c.record(Op{Kind: OpMoveTo, X: x, Y: y})
}

// LineTo implements ports.Canvas.
func (c *RecordingCanvas) LineTo(x, y int) {
	c.mu.Lock()
	c.path = append(c.path, domain.PathPoint{X: x, Y: y})
	c.mu.Unlock()
	c.record(Op{Kind: OpLineTo, X: x, Y: y})
}

// ClosePath implements ports.Canvas.
func (c *RecordingCanvas) ClosePath() {
	c.record(Op{Kind: OpClosePath})
}

// Fill implements ports.Canvas.
func (c *RecordingCanvas) Fill() {
	c.mu.Lock()
	path := make([]domain.PathPoint, len(c.path))
	copy(path, c.path)
	c.fills = append(c.fills, Fill{Path: path, Color: c.current})
	c.mu.Unlock()
	c.record(Op{Kind: OpFill})
}

// SetFillStyle implements ports.Canvas.
func (c *RecordingCanvas) SetFillStyle(col color.Color) {
	c.mu.Lock()
	c.current = col
	c.mu.Unlock()
	c.record(Op{Kind: OpSetFillStyle, Color: col})
}

// Resize implements ports.Surface.
func (c *RecordingCanvas) Resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	hook := c.OnResize
	c.mu.Unlock()
	c.record(Op{Kind: OpResize, X: width, Y: height})

	if hook != nil {
		hook(width, height)
	}
}

// Ops returns a copy of all recorded calls.
func (c *RecordingCanvas) Ops() []Op {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// Fills returns every completed fill in call order.
func (c *RecordingCanvas) Fills() []Fill {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Fill, len(c.fills))
	copy(out, c.fills)
	return out
}

// LastFill returns the most recent fill, or false when nothing was filled.
func (c *RecordingCanvas) LastFill() (Fill, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.fills) == 0 {
		return Fill{}, false
	}
	return c.fills[len(c.fills)-1], true
}

// Count returns how many calls of kind were recorded.
func (c *RecordingCanvas) Count(kind OpKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, op := range c.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Size returns the last size passed to Resize.
func (c *RecordingCanvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Reset forgets all recorded calls.
func (c *RecordingCanvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = nil
	c.fills = nil
	c.path = nil
}

var _ ports.Surface = (*RecordingCanvas)(nil)
