// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// merge.go

package timeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/simagix/timeline/decoder"
)

// MergeResult -
type MergeResult struct {
	Appended int // points finalized onto base series
	Pans     int // bar widths the visible window moves left
}

// Watermark returns the timestamp the next poll starts from: the most recent
// point of the first series, or of the first most-recent-point series with
// SepLastPoint.
func Watermark(state *SeriesState, cfg GraphConfig) (time.Time, bool) {
	if cfg.SepLastPoint {
		data := state.Data(SeriesID(cfg.NumSeries()))
		if len(data) == 0 {
			return time.Time{}, false
		}
		return data[0].Time, true
	}
	data := state.Data(0)
	if len(data) == 0 {
		return time.Time{}, false
	}
	return data[len(data)-1].Time, true
}

// rolloverThreshold is the number of payload points per base series expected
// when the current period has not completed
func rolloverThreshold(cfg GraphConfig) int {
	if cfg.SepLastPoint {
		return 0
	}
	return 1
}

// BuildSeries converts a full history payload into series
func BuildSeries(payload decoder.Payload, cfg GraphConfig, loc *time.Location) ([]Series, error) {
	if len(payload) != cfg.Total() {
		return nil, errors.Wrapf(decoder.ErrMalformed, "expected %d series, got %d", cfg.Total(), len(payload))
	}
	series := lo.Map(payload, func(raw decoder.Series, _ int) Series {
		return Series{
			Label: raw.Label,
			Data: lo.Map(raw.Data, func(p []float64, _ int) Point {
				return toPoint(p, cfg.BarWidth, loc)
			}),
		}
	})
	for i, s := range series {
		if !isMonotonic(s.Data) {
			return nil, errors.Wrapf(decoder.ErrMalformed, "series %d is not in time order", i)
		}
	}
	return series, nil
}

// Merge applies an incremental poll payload to the state. Hidden series are
// merged into their real data and stay hidden. On error the state is left
// untouched.
func Merge(state *SeriesState, payload decoder.Payload, cfg GraphConfig, loc *time.Location) (MergeResult, error) {
	var result MergeResult
	n := cfg.NumSeries()
	if err := payload.Validate(); err != nil {
		return result, err
	}
	if len(payload) != cfg.Total() || state.Total() != cfg.Total() {
		return result, errors.Wrapf(decoder.ErrMalformed, "expected %d series, got %d", cfg.Total(), len(payload))
	}
	threshold := rolloverThreshold(cfg)
	for i := 0; i < n; i++ {
		if len(payload[i].Data) < threshold {
			return result, errors.Wrapf(decoder.ErrMalformed, "series %d has no current point", i)
		}
		if cfg.SepLastPoint && len(payload[n+i].Data) == 0 {
			return result, errors.Wrapf(decoder.ErrMalformed, "series %d has no most recent point", n+i)
		}
	}

	// work on copies so a bad payload leaves the state as it was
	updated := make(map[SeriesID][]Point, cfg.Total())
	for i := 0; i < n; i++ {
		base := append([]Point{}, state.Data(SeriesID(i))...)
		incoming := payload[i].Data
		if !cfg.SepLastPoint && len(base) > 0 {
			base = base[:len(base)-1] // speculative, replaced by the payload
		}
		extra := len(incoming) - threshold
		for k := 0; k < extra; k++ {
			base = append(base, toPoint(incoming[0], cfg.BarWidth, loc))
			incoming = incoming[1:]
			result.Appended++
		}
		if extra > result.Pans {
			result.Pans = extra
		}
		if cfg.SepLastPoint {
			latest := payload[n+i].Data
			updated[SeriesID(n+i)] = []Point{toPoint(latest[len(latest)-1], cfg.BarWidth, loc)}
		} else {
			for _, p := range incoming {
				base = append(base, toPoint(p, cfg.BarWidth, loc))
			}
		}
		if !isMonotonic(base) {
			return MergeResult{}, errors.Wrapf(decoder.ErrMalformed, "series %d would go back in time", i)
		}
		updated[SeriesID(i)] = base
	}
	for id, data := range updated {
		state.setData(id, data)
	}
	return result, nil
}
