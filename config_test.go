// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// config_test.go

package timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

const graphsFilename = "testdata/graphs.json5"

func TestReadConfigs(t *testing.T) {
	configs, err := ReadConfigs(graphsFilename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, configs, test.ShouldHaveLength, 2)

	ops := configs[0]
	test.That(t, ops.ID, test.ShouldEqual, "ops")
	test.That(t, ops.Type, test.ShouldEqual, TypeBar)
	test.That(t, ops.Series, test.ShouldResemble, []string{"reads", "writes"})
	test.That(t, ops.BarWidth, test.ShouldEqual, MinuteBar)
	test.That(t, ops.Bar(), test.ShouldEqual, time.Minute)
	test.That(t, ops.Total(), test.ShouldEqual, 2)
	palette, err := ops.Palette()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, palette, test.ShouldHaveLength, 2)

	latency := configs[1]
	test.That(t, latency.SepLastPoint, test.ShouldBeTrue)
	test.That(t, latency.BarWidth, test.ShouldEqual, HourBar)
	test.That(t, latency.NumSeries(), test.ShouldEqual, 2)
	test.That(t, latency.Total(), test.ShouldEqual, 4)
	test.That(t, latency.ErrorSlot(), test.ShouldEqual, "ajax-latency-graph")
	test.That(t, latency.ElementName("graph-c"), test.ShouldEqual, "latency-graph-c")
}

func TestReadConfigsShortFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "graphs.json5")
	test.That(t, os.WriteFile(filename, []byte("[]"), 0644), test.ShouldBeNil)
	configs, err := ReadConfigs(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, configs, test.ShouldBeEmpty)

	_, err = ReadConfigs(filepath.Join(t.TempDir(), "missing.json5"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseConfigsSingleObject(t *testing.T) {
	t.Setenv("TIMELINE_OP", "inserts")
	configs, err := ParseConfigs([]byte(`{
		id: 'ins', name: 'Inserts', type: 'line', // single graph
		series: ['count'], op: '${TIMELINE_OP}', barWidth: '1000', units: 'docs',
	}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, configs, test.ShouldHaveLength, 1)
	test.That(t, configs[0].Op, test.ShouldEqual, "inserts")
	test.That(t, configs[0].BarWidth, test.ShouldEqual, SecondBar)
}

func TestParseConfigsInvalid(t *testing.T) {
	_, err := ParseConfigs([]byte(`[{id: 'a', type: 'pie', barWidth: 0, colors: ['nope']}]`))
	test.That(t, err, test.ShouldNotBeNil)
	// op, series, type, barWidth and color problems are all reported
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 5)
	test.That(t, err.Error(), test.ShouldContainSubstring, `type must be "bar" or "line"`)

	_, err = ParseConfigs([]byte(`[{id: `))
	test.That(t, err, test.ShouldNotBeNil)
}
