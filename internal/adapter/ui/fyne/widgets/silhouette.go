// Package widgets provides custom Fyne widgets for the visualiser.
package widgets

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/audiovisualiser/internal/adapter/surface"
	"github.com/tejashwikalptaru/audiovisualiser/internal/domain"
	"github.com/tejashwikalptaru/audiovisualiser/internal/ports"
)

// Silhouette is a widget that shows the spectrum silhouette.
//
// It owns a pixel surface the render loop draws into and a raster that presents it.
// Layout changes are announced on the event bus as LayoutChangedEvent, so the sizing
// manager can reallocate the surface at device resolution. A change of canvas scale
// with the same logical size is announced too.
type Silhouette struct {
	widget.BaseWidget

	bus     ports.EventBus
	pixels  *surface.Image
	raster  *canvas.Raster
	surface *rasterSurface
	minSize fyne.Size

	// scale reports the canvas scale; replaced in tests.
	scale func() float64

	mu        sync.Mutex
	announced float64
}

// NewSilhouette creates a silhouette widget. bus may be nil.
func NewSilhouette(bus ports.EventBus) *Silhouette {
	s := &Silhouette{
		bus:     bus,
		pixels:  surface.NewImage(0, 0),
		minSize: fyne.NewSize(120, 60),
	}

	s.scale = s.canvasScale
	s.raster = canvas.NewRaster(s.draw)
	s.surface = &rasterSurface{Image: s.pixels, refresh: s.raster.Refresh}
	s.ExtendBaseWidget(s)

	return s
}

// CreateRenderer implements fyne.Widget.
func (s *Silhouette) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.raster)
}

// MinSize returns the minimum size of the widget.
func (s *Silhouette) MinSize() fyne.Size {
	return s.minSize
}

// Resize sizes the widget and announces the new layout size.
func (s *Silhouette) Resize(size fyne.Size) {
	ratio := s.PixelRatio()
	if size == s.Size() && !s.ratioChanged(ratio) {
		return
	}
	s.BaseWidget.Resize(size)
	s.announce(size, ratio)
}

// Refresh redraws the widget, announcing the layout again when the canvas scale
// moved since the last announcement.
func (s *Silhouette) Refresh() {
	if ratio := s.PixelRatio(); s.ratioChanged(ratio) {
		s.announce(s.Size(), ratio)
	}
	s.BaseWidget.Refresh()
}

func (s *Silhouette) ratioChanged(ratio float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ratio != s.announced
}

func (s *Silhouette) announce(size fyne.Size, ratio float64) {
	s.mu.Lock()
	s.announced = ratio
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(domain.NewLayoutChangedEvent(domain.LogicalSize{
			Width:  size.Width,
			Height: size.Height,
		}))
	}
}

// LogicalSize returns the current layout size.
func (s *Silhouette) LogicalSize() domain.LogicalSize {
	size := s.Size()
	return domain.LogicalSize{Width: size.Width, Height: size.Height}
}

// Surface returns the drawing surface backing this widget.
func (s *Silhouette) Surface() ports.Surface {
	return s.surface
}

// PixelRatio implements ports.PixelRatioProvider using the scale of the canvas the
// widget is shown on. It returns 0 while the widget is not on a canvas.
func (s *Silhouette) PixelRatio() float64 {
	return s.scale()
}

func (s *Silhouette) canvasScale() float64 {
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil || len(app.Driver().AllWindows()) == 0 {
		return 0
	}
	c := app.Driver().CanvasForObject(s)
	if c == nil {
		return 0
	}
	return float64(c.Scale())
}

// Image returns a copy of the current pixels.
func (s *Silhouette) Image() *image.RGBA {
	return s.pixels.Snapshot()
}

// draw is the raster generator. The raster scales the backing image to the widget,
// which is a no-op once the surface matches the device pixel size.
func (s *Silhouette) draw(_, _ int) image.Image {
	return s.pixels.Snapshot()
}

// rasterSurface refreshes the raster after each fill so the frame gets presented.
type rasterSurface struct {
	*surface.Image
	refresh func()
}

// Fill implements ports.Canvas.
func (r *rasterSurface) Fill() {
	r.Image.Fill()
	r.refresh()
}

var (
	_ fyne.Widget              = (*Silhouette)(nil)
	_ ports.PixelRatioProvider = (*Silhouette)(nil)
	_ ports.Surface            = (*rasterSurface)(nil)
)
