// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// store.go

package feed

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/simagix/timeline/decoder"
)

// DefaultMaxBars limits the number of bars returned for a full history
const DefaultMaxBars = 2000

// ErrUnknownOp is returned for an operation that was never registered
var ErrUnknownOp = errors.New("unknown operation")

// Registration describes the series of one operation
type Registration struct {
	Labels       []string
	BarWidth     int64 // milliseconds
	SepLastPoint bool
}

type operation struct {
	Registration
	bars map[int64][]float64 // bar start in epoch milliseconds
}

// Store aggregates recorded values into bars per operation. The bar holding
// the clock's current time is the current bar and is still changing.
type Store struct {
	sync.RWMutex
	clock   clock.Clock
	maxBars int
	ops     map[string]*operation
}

// NewStore returns a store using the wall clock
func NewStore() *Store {
	return NewStoreWithClock(clock.New())
}

// NewStoreWithClock returns a store reading time from c
func NewStoreWithClock(c clock.Clock) *Store {
	return &Store{clock: c, maxBars: DefaultMaxBars, ops: map[string]*operation{}}
}

// Clock -
func (s *Store) Clock() clock.Clock { return s.clock }

// SetMaxBars sets the maximum number of bars in a full history
func (s *Store) SetMaxBars(n int) {
	s.Lock()
	defer s.Unlock()
	if n > 0 {
		s.maxBars = n
	}
}

// Register adds an operation; registering again replaces its labels and
// drops recorded bars if the bar width changes
func (s *Store) Register(op string, reg Registration) error {
	if op == "" {
		return errors.New("operation name is required")
	}
	if len(reg.Labels) == 0 {
		return errors.Errorf("operation %v: at least one label is required", op)
	}
	if reg.BarWidth <= 0 {
		return errors.Errorf("operation %v: bar width must be positive", op)
	}
	s.Lock()
	defer s.Unlock()
	if existing, ok := s.ops[op]; ok && existing.BarWidth == reg.BarWidth {
		existing.Registration = reg
		return nil
	}
	s.ops[op] = &operation{Registration: reg, bars: map[int64][]float64{}}
	return nil
}

// Operations returns the sorted names of registered operations
func (s *Store) Operations() []string {
	s.RLock()
	defer s.RUnlock()
	names := lo.Keys(s.ops)
	sort.Strings(names)
	return names
}

func barStart(t time.Time, barWidth int64) int64 {
	ms := t.UnixMilli()
	rem := ms % barWidth
	if rem < 0 {
		rem += barWidth
	}
	return ms - rem
}

// Record adds values into the bar containing t, one value per label
func (s *Store) Record(op string, t time.Time, values []float64) error {
	s.Lock()
	defer s.Unlock()
	o, ok := s.ops[op]
	if !ok {
		return errors.Wrap(ErrUnknownOp, op)
	}
	if len(values) != len(o.Labels) {
		return errors.Errorf("operation %v: expected %d values, got %d", op, len(o.Labels), len(values))
	}
	start := barStart(t, o.BarWidth)
	bar, ok := o.bars[start]
	if !ok {
		bar = make([]float64, len(o.Labels))
		o.bars[start] = bar
	}
	for i, v := range values {
		bar[i] += v
	}
	return nil
}

// Query returns the payload of an operation. A nil since returns the full
// history. Neither returns more than maxBars bars per series. Without SepLastPoint every series ends with the current bar; with
// it the first half holds completed bars and the second half the current one.
func (s *Store) Query(op string, since *time.Time) (decoder.Payload, error) {
	s.RLock()
	defer s.RUnlock()
	o, ok := s.ops[op]
	if !ok {
		return nil, errors.Wrap(ErrUnknownOp, op)
	}
	current := barStart(s.clock.Now(), o.BarWidth)
	oldest := current - int64(s.maxBars-1)*o.BarWidth
	first := oldest
	if since != nil {
		first = barStart(*since, o.BarWidth)
		if since.UnixMilli() > first {
			first += o.BarWidth // bars must start at or after since
		}
		first = max(first, oldest)
	} else if len(o.bars) > 0 {
		first = max(first, lo.Min(lo.Keys(o.bars)))
	} else {
		first = current
	}

	n := len(o.Labels)
	payload := make(decoder.Payload, 0, 2*n)
	last := current
	if o.SepLastPoint {
		last = current - o.BarWidth
	}
	for i, label := range o.Labels {
		series := decoder.Series{Label: label, Data: [][]float64{}}
		for start := first; start <= last; start += o.BarWidth {
			series.Data = append(series.Data, o.point(start, i))
		}
		payload = append(payload, series)
	}
	if o.SepLastPoint {
		for i, label := range o.Labels {
			payload = append(payload, decoder.Series{Label: label, Data: [][]float64{o.point(current, i)}})
		}
	}
	return payload, nil
}

func (o *operation) point(start int64, i int) []float64 {
	var value float64
	if bar, ok := o.bars[start]; ok {
		value = bar[i]
	}
	return []float64{float64(start) / 1000, value}
}
