// Package chart ties the resolver, scales, renderer and interaction
// controller into one mountable chart instance.
package chart

import (
	"errors"
	"log"
	"sync"
	"time"

	"PriceChart/internal/interact"
	"PriceChart/internal/layout"
	"PriceChart/internal/model"
	"PriceChart/internal/render"
	"PriceChart/internal/scale"
	"PriceChart/internal/scene"
)

// ErrMounted is returned by Mount when the chart is already mounted.
var ErrMounted = errors.New("chart already mounted")

// Options configures a chart.
type Options struct {
	Margins  layout.Margins
	Location *time.Location
}

// Chart is one chart instance. All methods are safe for concurrent use;
// redraws and pointer handlers are serialised.
type Chart struct {
	mu       sync.Mutex
	opts     Options
	scene    *scene.Scene
	ctrl     *interact.Controller
	resolver *layout.Resolver

	series   model.Series
	dims     layout.Dimensions
	scales   scale.Scales
	mounted  bool
	pointers int
	onRedraw func(svg string)
}

// New creates an unmounted chart drawing into a fresh scene.
func New(opts Options) *Chart {
	opts.Margins = opts.Margins.OrDefault()
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	sc := scene.New()
	return &Chart{
		opts:     opts,
		scene:    sc,
		ctrl:     interact.NewController(sc, opts.Location),
		resolver: layout.NewResolver(opts.Margins),
	}
}

// OnRedraw registers fn to receive the SVG after every redraw.
// fn runs outside the chart lock.
func (c *Chart) OnRedraw(fn func(svg string)) {
	c.mu.Lock()
	c.onRedraw = fn
	c.mu.Unlock()
}

// Mount attaches the chart to a size source and draws the series.
// Nothing is drawn until the source reports a non-zero size.
func (c *Chart) Mount(src layout.SizeSource, series model.Series) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrMounted
	}
	c.mounted = true
	c.pointers = 1
	c.series = series
	if c.ctrl.Closed() {
		c.ctrl = interact.NewController(c.scene, c.opts.Location)
	}
	c.mu.Unlock()

	// The source may call back synchronously, so the lock is not held here.
	if err := c.resolver.Observe(src, c.resize); err != nil {
		c.mu.Lock()
		c.mounted = false
		c.pointers = 0
		c.mu.Unlock()
		return err
	}
	log.Printf("[INFO] chart mounted with %d points", len(series))
	return nil
}

// SetSeries replaces the series and redraws while mounted.
// An unmounted chart keeps the series for the next Mount.
func (c *Chart) SetSeries(series model.Series) {
	c.mu.Lock()
	c.series = series
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	svg, fn := c.redraw()
	c.mu.Unlock()
	notify(fn, svg)
}

// Unmount releases the resize subscription and pointer listeners.
// It is safe to call more than once.
func (c *Chart) Unmount() {
	c.resolver.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	c.pointers = 0
	c.ctrl.Close()
	log.Printf("[INFO] chart unmounted")
}

// Mounted reports whether the chart is mounted.
func (c *Chart) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Listeners reports the live resize and pointer listener counts.
func (c *Chart) Listeners() (resize, pointer int) {
	if c.resolver.Observing() {
		resize = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return resize, c.pointers
}

// OnPointerEnter forwards to the controller while mounted.
func (c *Chart) OnPointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		c.ctrl.OnPointerEnter()
	}
}

// OnPointerLeave forwards to the controller while mounted.
func (c *Chart) OnPointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		c.ctrl.OnPointerLeave()
	}
}

// OnPointerMove forwards to the controller while mounted.
func (c *Chart) OnPointerMove(x, y float64) (interact.Focus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return interact.Focus{}, false
	}
	return c.ctrl.OnPointerMove(x, y)
}

// State returns the controller state.
func (c *Chart) State() interact.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.State()
}

// Focus returns the current focus point, if any.
func (c *Chart) Focus() (interact.Focus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.Focus()
}

// Dimensions returns the last resolved dimensions.
func (c *Chart) Dimensions() layout.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

// Scales returns the scales of the last redraw.
func (c *Chart) Scales() scale.Scales {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scales
}

// SVG encodes the current scene.
func (c *Chart) SVG() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.SVG()
}

// Count returns the number of scene nodes with the given class.
func (c *Chart) Count(class string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene.Count(class)
}

func (c *Chart) resize(d layout.Dimensions) {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.dims = d
	svg, fn := c.redraw()
	c.mu.Unlock()
	notify(fn, svg)
}

// redraw must be called with c.mu held.
func (c *Chart) redraw() (svg string, fn func(string)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] redraw: %v", r)
			svg, fn = "", nil
		}
	}()

	s, err := scale.ComputeScales(c.series, c.dims, c.opts.Location)
	if err != nil || !c.dims.Ready() {
		if err != nil && !errors.Is(err, scale.ErrEmptySeries) {
			log.Printf("[WARN] compute scales: %v", err)
		}
		render.Clear(c.scene)
		c.scales = scale.Scales{Dims: c.dims}
		c.ctrl.Unbind()
	} else {
		render.Render(c.scene, c.series, s)
		c.scales = s
		c.ctrl.Bind(c.series, s)
	}
	if c.onRedraw == nil {
		return "", nil
	}
	return c.scene.SVG(), c.onRedraw
}

func notify(fn func(string), svg string) {
	if fn != nil {
		fn(svg)
	}
}

// RenderSVG draws series once at the given size and returns the SVG.
func RenderSVG(series model.Series, size layout.Size, opts Options) (string, error) {
	c := New(opts)
	src := layout.NewManualSource()
	src.Set(size)
	if err := c.Mount(src, series); err != nil {
		return "", err
	}
	defer c.Unmount()
	if len(series) == 0 {
		return c.SVG(), scale.ErrEmptySeries
	}
	return c.SVG(), nil
}
