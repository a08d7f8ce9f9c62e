// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// graph.go

package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	// ErrNotLoaded is returned when using a graph before its history loaded
	ErrNotLoaded = errors.New("graph not loaded")
	// ErrPollInFlight is returned when a poll is skipped because another one runs
	ErrPollInFlight = errors.New("poll in flight")
)

// Initial visible window: the latest day, ending one hour past the latest point
const (
	viewHeadroom = time.Hour
	viewSpan     = 24 * time.Hour
)

// Graph owns the state of one chart: its series, viewport, selection and
// poll timer. All handlers dispatch through a Graph rather than capturing
// series indices.
type Graph struct {
	sync.Mutex
	cfg       GraphConfig
	fetcher   Fetcher
	renderer  Renderer
	board     ErrorBoard
	logger    *zap.SugaredLogger
	loc       *time.Location
	interval  time.Duration
	debounced func(f func())

	state      *SeriesState
	view       Window
	panRange   Window
	selection  *Window
	yAxis      *AxisRange
	generation uint64
	inflight   *atomic.Bool
	poller     *Poller
}

// Option configures a Graph
type Option func(*Graph)

// WithFetcher -
func WithFetcher(fetcher Fetcher) Option { return func(g *Graph) { g.fetcher = fetcher } }

// WithRenderer -
func WithRenderer(renderer Renderer) Option { return func(g *Graph) { g.renderer = renderer } }

// WithErrorBoard -
func WithErrorBoard(board ErrorBoard) Option { return func(g *Graph) { g.board = board } }

// WithLogger -
func WithLogger(logger *zap.SugaredLogger) Option { return func(g *Graph) { g.logger = logger } }

// WithLocation sets the time zone whose wall clock is displayed
func WithLocation(loc *time.Location) Option { return func(g *Graph) { g.loc = loc } }

// WithInterval sets the poll interval
func WithInterval(interval time.Duration) Option { return func(g *Graph) { g.interval = interval } }

// WithSelectionDebounce delays y axis scaling until selection changes settle
func WithSelectionDebounce(d time.Duration) Option {
	return func(g *Graph) {
		if d > 0 {
			g.debounced = debounce.New(d)
		}
	}
}

// NewGraph returns a graph for a chart configuration
func NewGraph(cfg GraphConfig, opts ...Option) *Graph {
	g := &Graph{
		cfg:      cfg,
		renderer: nopRenderer{},
		board:    NewMemoryBoard(),
		logger:   zap.NewNop().Sugar(),
		loc:      time.Local,
		interval: DefaultInterval,
		inflight: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config -
func (g *Graph) Config() GraphConfig { return g.cfg }

// Loaded returns true once the history has been loaded
func (g *Graph) Loaded() bool {
	g.Lock()
	defer g.Unlock()
	return g.state != nil
}

func (g *Graph) busy(busy bool) {
	if indicator, ok := g.renderer.(BusyIndicator); ok {
		indicator.SetBusy(g.cfg.ElementName("graph-t"), busy)
	}
}

func (g *Graph) fail(err error) {
	g.logger.Warnw("graph update failed", "graph", g.cfg.ID, "error", err)
	g.board.SetError(g.cfg.ErrorSlot(), Notice{
		Message: "Could not query " + g.cfg.Name + " update from the server.",
		Hint:    "Verify the server is not down.",
	})
}

// Load fetches the full history and draws the graph
func (g *Graph) Load(ctx context.Context) error {
	if g.fetcher == nil {
		return errors.New("no fetcher")
	}
	g.busy(true)
	defer g.busy(false)
	btm := time.Now()
	payload, err := g.fetcher.Fetch(ctx, g.cfg.Op, nil)
	if err == nil {
		err = payload.Validate()
	}
	if err != nil {
		g.fail(err)
		return err
	}
	series, err := BuildSeries(payload, g.cfg, g.loc)
	if err != nil {
		g.fail(err)
		return err
	}

	g.Lock()
	defer g.Unlock()
	g.board.ClearError(g.cfg.ErrorSlot())
	g.state = NewSeriesState(series)
	g.generation++
	g.yAxis = nil
	g.selection = nil
	if rng, ok := DataRange(series); ok {
		max := rng.To.Add(viewHeadroom)
		g.view = Window{From: max.Add(-viewSpan), To: max}
		g.panRange = Window{From: rng.From, To: max}
		view := g.view
		g.selection = &view
	}
	g.logger.Infow("graph loaded", "graph", g.cfg.ID, "series", len(series), "took", time.Since(btm).String())
	g.draw()
	return nil
}

// Poll fetches the points since the last known point and merges them. A graph
// that is not loaded yet, or has no points, is loaded instead. A poll started
// while another one is in flight returns ErrPollInFlight.
func (g *Graph) Poll(ctx context.Context) error {
	if !g.inflight.CompareAndSwap(false, true) {
		g.logger.Debugw("poll skipped", "graph", g.cfg.ID)
		return ErrPollInFlight
	}
	defer g.inflight.Store(false)

	g.Lock()
	if g.state == nil {
		g.Unlock()
		return g.Load(ctx)
	}
	watermark, ok := Watermark(g.state, g.cfg)
	generation := g.generation
	g.Unlock()
	if !ok {
		return g.Load(ctx)
	}

	g.busy(true)
	defer g.busy(false)
	since := FromFakeUTC(watermark, g.loc)
	payload, err := g.fetcher.Fetch(ctx, g.cfg.Op, &since)
	if err != nil {
		g.fail(err)
		return err
	}

	g.Lock()
	defer g.Unlock()
	if generation != g.generation {
		g.logger.Debugw("stale poll result ignored", "graph", g.cfg.ID)
		return nil
	}
	result, err := Merge(g.state, payload, g.cfg, g.loc)
	if err != nil {
		g.fail(err)
		return err
	}
	g.generation++
	g.board.ClearError(g.cfg.ErrorSlot())
	if result.Pans > 0 {
		g.pan(result.Pans)
	}
	g.logger.Debugw("graph updated", "graph", g.cfg.ID, "appended", result.Appended, "pans", result.Pans)
	g.draw()
	return nil
}

// pan moves the visible window by bars bar widths after a rollover, extending
// the pan range forward, and syncs the selection
func (g *Graph) pan(bars int) {
	d := time.Duration(bars) * g.cfg.Bar()
	g.view = g.view.Shift(d)
	if g.view.To.After(g.panRange.To) {
		g.panRange.To = g.view.To
	}
	view := g.view
	g.selection = &view
}

// Pan moves the visible window; negative bars move back in time. The window
// stays inside the pan range, and a window wider than the range stays aligned
// with its latest end.
func (g *Graph) Pan(bars int) {
	g.Lock()
	defer g.Unlock()
	view := g.view.Shift(time.Duration(bars) * g.cfg.Bar())
	if view.From.Before(g.panRange.From) {
		view = view.Shift(g.panRange.From.Sub(view.From))
	}
	if view.To.After(g.panRange.To) {
		view = view.Shift(g.panRange.To.Sub(view.To))
	}
	g.view = view
	g.selection = &view
	g.draw()
}

// Toggle shows or hides a series and rescales the y axis
func (g *Graph) Toggle(id SeriesID) error {
	g.Lock()
	defer g.Unlock()
	if g.state == nil {
		return ErrNotLoaded
	}
	if err := g.state.Toggle(id); err != nil {
		return err
	}
	g.adjustYAxis()
	g.draw()
	return nil
}

// ToggleLabel toggles every series with a legend label
func (g *Graph) ToggleLabel(label string) error {
	g.Lock()
	defer g.Unlock()
	if g.state == nil {
		return ErrNotLoaded
	}
	ids := g.state.IDsByLabel(label)
	if len(ids) == 0 {
		return errors.Wrapf(ErrUnknownSeries, "label %q", label)
	}
	for _, id := range ids {
		if err := g.state.Toggle(id); err != nil {
			return err
		}
	}
	g.adjustYAxis()
	g.draw()
	return nil
}

// Select zooms the main chart to a window of the overview
func (g *Graph) Select(w Window) {
	g.Lock()
	g.selection = &w
	g.view = w
	g.Unlock()
	if g.debounced != nil {
		g.debounced(g.applySelection)
		return
	}
	g.applySelection()
}

// ClearSelection scales the y axis to the full data range
func (g *Graph) ClearSelection() {
	g.Lock()
	g.selection = nil
	g.Unlock()
	g.applySelection()
}

func (g *Graph) applySelection() {
	g.Lock()
	defer g.Unlock()
	if g.state == nil {
		return
	}
	g.adjustYAxis()
	g.draw()
}

func (g *Graph) adjustYAxis() {
	g.yAxis = nil
	if bounds, ok := AxisBounds(g.state.Active(), g.selection); ok {
		g.yAxis = &bounds
	}
}

// Hover returns the tooltip for a point of a series
func (g *Graph) Hover(id SeriesID, pointIndex int) (Tooltip, error) {
	g.Lock()
	defer g.Unlock()
	if g.state == nil {
		return Tooltip{}, ErrNotLoaded
	}
	return BuildTooltip(g.cfg, g.state, id, pointIndex)
}

// Legend -
func (g *Graph) Legend() []LegendEntry {
	g.Lock()
	defer g.Unlock()
	if g.state == nil {
		return nil
	}
	return g.state.Legend()
}

// Frame returns a snapshot of what is drawn
func (g *Graph) Frame() Frame {
	g.Lock()
	defer g.Unlock()
	return g.frame()
}

func (g *Graph) frame() Frame {
	frame := Frame{Config: g.cfg, View: g.view, PanRange: g.panRange, DateSpan: DateSpan(g.view, g.cfg.BarWidth)}
	if g.selection != nil {
		selection := *g.selection
		frame.Selection = &selection
	}
	if g.yAxis != nil {
		yAxis := *g.yAxis
		frame.YAxis = &yAxis
	}
	if g.state != nil {
		frame.Main = g.state.Active()
		frame.Overview = g.state.All()
		frame.Legend = g.state.Legend()
	}
	return frame
}

func (g *Graph) draw() {
	if err := g.renderer.Draw(g.frame()); err != nil {
		g.logger.Warnw("draw failed", "graph", g.cfg.ID, "error", err)
	}
}

// Start begins polling at the configured interval
func (g *Graph) Start(ctx context.Context) error {
	g.Lock()
	if g.poller == nil {
		poller, err := NewPoller(g.cfg.ID, g.interval, func() {
			if err := g.Poll(ctx); err != nil && !errors.Is(err, ErrPollInFlight) {
				g.logger.Debugw("poll failed", "graph", g.cfg.ID, "error", err)
			}
		}, g.logger)
		if err != nil {
			g.Unlock()
			return err
		}
		g.poller = poller
	}
	poller := g.poller
	g.Unlock()
	return poller.Resume()
}

// Pause stops polling; a poll in flight still completes and is applied
func (g *Graph) Pause() error {
	g.Lock()
	poller := g.poller
	g.Unlock()
	if poller == nil {
		return nil
	}
	return poller.Pause()
}

// Resume restarts polling; resuming a running graph does nothing
func (g *Graph) Resume() error {
	g.Lock()
	poller := g.poller
	g.Unlock()
	if poller == nil {
		return errors.New("graph not started")
	}
	return poller.Resume()
}

// Polling returns true if the poll timer is running
func (g *Graph) Polling() bool {
	g.Lock()
	poller := g.poller
	g.Unlock()
	return poller != nil && poller.Running()
}

// Stop shuts down the poll timer
func (g *Graph) Stop() error {
	g.Lock()
	poller := g.poller
	g.poller = nil
	g.Unlock()
	if poller == nil {
		return nil
	}
	return poller.Stop()
}
