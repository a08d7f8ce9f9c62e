// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// config.go

package timeline

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/simagix/gox"
	"github.com/spf13/cast"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"
)

// Chart types
const (
	TypeBar  = "bar"
	TypeLine = "line"
)

// GraphConfig describes one chart instance
type GraphConfig struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Series       []string `json:"series"`
	SepLastPoint bool     `json:"sepLastPoint"`
	Op           string   `json:"op"`
	BarWidth     int64    `json:"barWidth"`
	Units        string   `json:"units"`
	Colors       []string `json:"colors"`
}

// NumSeries returns the number of base series
func (c GraphConfig) NumSeries() int { return len(c.Series) }

// Total returns the number of series in a payload, doubled with SepLastPoint
func (c GraphConfig) Total() int {
	if c.SepLastPoint {
		return 2 * len(c.Series)
	}
	return len(c.Series)
}

// Bar returns the bar width as a duration
func (c GraphConfig) Bar() time.Duration {
	return time.Duration(c.BarWidth) * time.Millisecond
}

// ErrorSlot returns the name of the error region of this graph
func (c GraphConfig) ErrorSlot() string {
	return "ajax-" + c.ID + "-graph"
}

// ElementName returns the conventional name of a chart element, e.g. graph-c,
// graph-overview, graph-t, graph-date or tooltip
func (c GraphConfig) ElementName(suffix string) string {
	return c.ID + "-" + suffix
}

// Validate returns all configuration problems
func (c GraphConfig) Validate() error {
	var err error
	if c.ID == "" {
		err = multierr.Append(err, errors.New("id is required"))
	}
	if c.Op == "" {
		err = multierr.Append(err, fmt.Errorf("graph %q: op is required", c.ID))
	}
	if len(c.Series) == 0 {
		err = multierr.Append(err, fmt.Errorf("graph %q: at least one series is required", c.ID))
	}
	if c.Type != TypeBar && c.Type != TypeLine {
		err = multierr.Append(err, fmt.Errorf("graph %q: type must be %q or %q, got %q", c.ID, TypeBar, TypeLine, c.Type))
	}
	if c.BarWidth <= 0 {
		err = multierr.Append(err, fmt.Errorf("graph %q: barWidth must be positive", c.ID))
	}
	if _, cerr := c.Palette(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("graph %q: %w", c.ID, cerr))
	}
	return err
}

// Palette parses the configured colors
func (c GraphConfig) Palette() ([]color.Color, error) {
	palette := make([]color.Color, 0, len(c.Colors))
	for _, hex := range c.Colors {
		col, err := colorful.Hex(hex)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid color %q", hex)
		}
		palette = append(palette, col)
	}
	return palette, nil
}

// barWidthHook accepts a barWidth as milliseconds or as a duration string
func barWidthHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int64 {
		return data, nil
	}
	if from.Kind() == reflect.String {
		s := strings.TrimSpace(data.(string))
		if d, err := time.ParseDuration(s); err == nil {
			return d.Milliseconds(), nil
		}
		return cast.ToInt64E(s)
	}
	return cast.ToInt64E(data)
}

// ParseConfigs decodes JSON5 graph configurations, either a single object or
// an array of objects. ${VAR} references are expanded from the environment.
func ParseConfigs(buffer []byte) ([]GraphConfig, error) {
	var err error
	if buffer, err = envsubst.Bytes(buffer); err != nil {
		return nil, errors.Wrap(err, "envsubst")
	}
	var doc interface{}
	if err = json5.Unmarshal(buffer, &doc); err != nil {
		return nil, errors.Wrap(err, "json5")
	}
	if m, ok := doc.(map[string]interface{}); ok {
		doc = []interface{}{m}
	}
	var configs []GraphConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       barWidthHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &configs,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decode graph configs")
	}
	for _, cfg := range configs {
		err = multierr.Append(err, cfg.Validate())
	}
	return configs, err
}

// ReadConfigs reads graph configurations from a file, gzip or plain
func ReadConfigs(filename string) ([]GraphConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reader, err := gox.NewReader(file)
	if err != nil && err != io.EOF {
		return nil, err
	}
	buffer, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return ParseConfigs(buffer)
}
