// Package domain defines events for the event-driven architecture.
// Events decouple the visualiser from its host and from observers such as logging.
package domain

import (
	"image/color"
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Host events
	EventLayoutChanged EventType = "layout.changed"

	// Surface events
	EventSurfaceResized EventType = "surface.resized"

	// Render loop events
	EventVisualizerStarted EventType = "visualizer.started"
	EventVisualizerStopped EventType = "visualizer.stopped"
	EventRenderFailed      EventType = "render.failed"

	// Configuration events
	EventFillColorChanged EventType = "fill_color.changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// LayoutChangedEvent is pushed by the host when the surface's layout size changes.
type LayoutChangedEvent struct {
	baseEvent
	Size LogicalSize
}

// Type returns the event type.
func (e LayoutChangedEvent) Type() EventType {
	return EventLayoutChanged
}

// NewLayoutChangedEvent creates a new LayoutChangedEvent.
func NewLayoutChangedEvent(size LogicalSize) LayoutChangedEvent {
	return LayoutChangedEvent{
		baseEvent: newBaseEvent(),
		Size:      size,
	}
}

// SurfaceResizedEvent is published after the backing pixel buffer has been resized.
type SurfaceResizedEvent struct {
	baseEvent
	Logical    LogicalSize
	PixelRatio float64
	Dimensions SurfaceDimensions
}

// Type returns the event type.
func (e SurfaceResizedEvent) Type() EventType {
	return EventSurfaceResized
}

// NewSurfaceResizedEvent creates a new SurfaceResizedEvent.
func NewSurfaceResizedEvent(logical LogicalSize, ratio float64, dims SurfaceDimensions) SurfaceResizedEvent {
	return SurfaceResizedEvent{
		baseEvent:  newBaseEvent(),
		Logical:    logical,
		PixelRatio: ratio,
		Dimensions: dims,
	}
}

// VisualizerStartedEvent is published when the render loop enters the running state.
type VisualizerStartedEvent struct {
	baseEvent
	SampleCount int
}

// Type returns the event type.
func (e VisualizerStartedEvent) Type() EventType {
	return EventVisualizerStarted
}

// NewVisualizerStartedEvent creates a new VisualizerStartedEvent.
func NewVisualizerStartedEvent(sampleCount int) VisualizerStartedEvent {
	return VisualizerStartedEvent{
		baseEvent:   newBaseEvent(),
		SampleCount: sampleCount,
	}
}

// VisualizerStoppedEvent is published when the render loop returns to idle.
type VisualizerStoppedEvent struct {
	baseEvent
	FramesRendered uint64
}

// Type returns the event type.
func (e VisualizerStoppedEvent) Type() EventType {
	return EventVisualizerStopped
}

// NewVisualizerStoppedEvent creates a new VisualizerStoppedEvent.
func NewVisualizerStoppedEvent(frames uint64) VisualizerStoppedEvent {
	return VisualizerStoppedEvent{
		baseEvent:      newBaseEvent(),
		FramesRendered: frames,
	}
}

// RenderFailedEvent is published when a frame hits a hard error and the loop halts.
type RenderFailedEvent struct {
	baseEvent
	Error error
}

// Type returns the event type.
func (e RenderFailedEvent) Type() EventType {
	return EventRenderFailed
}

// NewRenderFailedEvent creates a new RenderFailedEvent.
func NewRenderFailedEvent(err error) RenderFailedEvent {
	return RenderFailedEvent{
		baseEvent: newBaseEvent(),
		Error:     err,
	}
}

// FillColorChangedEvent is published when a new fill colour is accepted.
type FillColorChangedEvent struct {
	baseEvent
	Color color.NRGBA
}

// Type returns the event type.
func (e FillColorChangedEvent) Type() EventType {
	return EventFillColorChanged
}

// NewFillColorChangedEvent creates a new FillColorChangedEvent.
func NewFillColorChangedEvent(c color.NRGBA) FillColorChangedEvent {
	return FillColorChangedEvent{
		baseEvent: newBaseEvent(),
		Color:     c,
	}
}
