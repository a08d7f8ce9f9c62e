// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// dashboard.go

package timeline

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/simagix/gox"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultLoadThreads is the number of graphs loaded concurrently
const DefaultLoadThreads = 4

// Dashboard holds the graphs of a page
type Dashboard struct {
	sync.RWMutex
	graphs   []*Graph
	byID     map[string]*Graph
	nThreads int
	logger   *zap.SugaredLogger
}

// NewDashboard returns a dashboard of graphs built from configs, all sharing
// the same options
func NewDashboard(configs []GraphConfig, opts ...Option) (*Dashboard, error) {
	d := &Dashboard{byID: map[string]*Graph{}, nThreads: DefaultLoadThreads, logger: zap.NewNop().Sugar()}
	for _, cfg := range configs {
		if _, ok := d.byID[cfg.ID]; ok {
			return nil, errors.Errorf("duplicate graph id %q", cfg.ID)
		}
		g := NewGraph(cfg, opts...)
		d.graphs = append(d.graphs, g)
		d.byID[cfg.ID] = g
		d.logger = g.logger
	}
	return d, nil
}

// SetThreads sets the number of graphs loaded concurrently
func (d *Dashboard) SetThreads(n int) {
	if n > 0 {
		d.nThreads = n
	}
}

// Graphs -
func (d *Dashboard) Graphs() []*Graph {
	d.RLock()
	defer d.RUnlock()
	return append([]*Graph(nil), d.graphs...)
}

// Graph returns a graph by id
func (d *Dashboard) Graph(id string) (*Graph, bool) {
	d.RLock()
	defer d.RUnlock()
	g, ok := d.byID[id]
	return g, ok
}

// Load loads all graphs concurrently and returns every failure
func (d *Dashboard) Load(ctx context.Context) error {
	var mu sync.Mutex
	var err error
	var wg = gox.NewWaitGroup(d.nThreads)
	for _, g := range d.Graphs() {
		wg.Add(1)
		go func(g *Graph) {
			defer wg.Done()
			if lerr := g.Load(ctx); lerr != nil {
				mu.Lock()
				err = multierr.Append(err, errors.Wrapf(lerr, "graph %v", g.cfg.ID))
				mu.Unlock()
			}
		}(g)
	}
	wg.Wait()
	d.logger.Infow("dashboard loaded", "graphs", len(d.graphs), "failed", len(multierr.Errors(err)))
	return err
}

// Start begins polling every graph
func (d *Dashboard) Start(ctx context.Context) error {
	var err error
	for _, g := range d.Graphs() {
		err = multierr.Append(err, g.Start(ctx))
	}
	return err
}

// Pause pauses polling of every graph
func (d *Dashboard) Pause() error {
	var err error
	for _, g := range d.Graphs() {
		err = multierr.Append(err, g.Pause())
	}
	return err
}

// Resume resumes polling of every graph
func (d *Dashboard) Resume() error {
	var err error
	for _, g := range d.Graphs() {
		err = multierr.Append(err, g.Resume())
	}
	return err
}

// Stop shuts down every poll timer
func (d *Dashboard) Stop() error {
	var err error
	for _, g := range d.Graphs() {
		err = multierr.Append(err, g.Stop())
	}
	return err
}
