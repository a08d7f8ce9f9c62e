// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// store_test.go

package feed

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/simagix/timeline/decoder"
	"go.viam.com/test"
)

const minute = int64(60 * 1000)

func hm(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 1, hour, min, sec, 0, time.UTC)
}

func raw(t time.Time, value float64) []float64 {
	return []float64{float64(t.Unix()), value}
}

func newMockStore(t *testing.T) (*Store, *clock.Mock) {
	mock := clock.NewMock()
	mock.Set(hm(10, 2, 30))
	store := NewStoreWithClock(mock)
	test.That(t, store.Register("ops", Registration{Labels: []string{"reads", "writes"}, BarWidth: minute}), test.ShouldBeNil)
	test.That(t, store.Register("lat", Registration{Labels: []string{"p50"}, BarWidth: minute, SepLastPoint: true}), test.ShouldBeNil)
	test.That(t, store.Record("ops", hm(10, 0, 10), []float64{1, 2}), test.ShouldBeNil)
	test.That(t, store.Record("ops", hm(10, 0, 50), []float64{1, 1}), test.ShouldBeNil)
	test.That(t, store.Record("ops", hm(10, 2, 5), []float64{5, 5}), test.ShouldBeNil)
	test.That(t, store.Record("lat", hm(10, 0, 0), []float64{3}), test.ShouldBeNil)
	test.That(t, store.Record("lat", hm(10, 2, 0), []float64{9}), test.ShouldBeNil)
	return store, mock
}

func TestRegister(t *testing.T) {
	store := NewStore()
	test.That(t, store.Register("", Registration{Labels: []string{"a"}, BarWidth: minute}), test.ShouldNotBeNil)
	test.That(t, store.Register("ops", Registration{BarWidth: minute}), test.ShouldNotBeNil)
	test.That(t, store.Register("ops", Registration{Labels: []string{"a"}}), test.ShouldNotBeNil)
	test.That(t, store.Register("ops", Registration{Labels: []string{"a"}, BarWidth: minute}), test.ShouldBeNil)
	test.That(t, store.Register("abc", Registration{Labels: []string{"a"}, BarWidth: minute}), test.ShouldBeNil)
	test.That(t, store.Operations(), test.ShouldResemble, []string{"abc", "ops"})
}

func TestQueryFullHistory(t *testing.T) {
	store, _ := newMockStore(t)
	payload, err := store.Query("ops", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload, test.ShouldResemble, decoder.Payload{
		{Label: "reads", Data: [][]float64{raw(hm(10, 0, 0), 2), raw(hm(10, 1, 0), 0), raw(hm(10, 2, 0), 5)}},
		{Label: "writes", Data: [][]float64{raw(hm(10, 0, 0), 3), raw(hm(10, 1, 0), 0), raw(hm(10, 2, 0), 5)}},
	})
}

func TestQuerySince(t *testing.T) {
	store, _ := newMockStore(t)
	since := hm(10, 1, 0)
	payload, err := store.Query("ops", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 1, 0), 0), raw(hm(10, 2, 0), 5)})

	since = hm(10, 1, 30)
	payload, err = store.Query("ops", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 2, 0), 5)})
}

func TestQuerySepLastPoint(t *testing.T) {
	store, mock := newMockStore(t)
	payload, err := store.Query("lat", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload, test.ShouldResemble, decoder.Payload{
		{Label: "p50", Data: [][]float64{raw(hm(10, 0, 0), 3), raw(hm(10, 1, 0), 0)}},
		{Label: "p50", Data: [][]float64{raw(hm(10, 2, 0), 9)}},
	})

	since := hm(10, 2, 0)
	payload, err = store.Query("lat", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldBeEmpty)
	test.That(t, payload[1].Data, test.ShouldResemble, [][]float64{raw(hm(10, 2, 0), 9)})

	mock.Add(time.Minute)
	payload, err = store.Query("lat", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 2, 0), 9)})
	test.That(t, payload[1].Data, test.ShouldResemble, [][]float64{raw(hm(10, 3, 0), 0)})
}

func TestQueryMaxBars(t *testing.T) {
	store, _ := newMockStore(t)
	store.SetMaxBars(2)
	test.That(t, store.Record("ops", hm(9, 0, 0), []float64{1, 1}), test.ShouldBeNil)
	payload, err := store.Query("ops", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 1, 0), 0), raw(hm(10, 2, 0), 5)})
}

func TestQuerySinceCapped(t *testing.T) {
	store, mock := newMockStore(t)
	test.That(t, store.Register("fast", Registration{Labels: []string{"a"}, BarWidth: 1000}), test.ShouldBeNil)
	since := mock.Now().Add(-30 * 24 * time.Hour)
	payload, err := store.Query("fast", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldHaveLength, DefaultMaxBars)
	test.That(t, payload[0].Data[DefaultMaxBars-1], test.ShouldResemble, raw(hm(10, 2, 30), 0))

	store.SetMaxBars(2)
	since = hm(9, 0, 0)
	payload, err = store.Query("ops", &since)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 1, 0), 0), raw(hm(10, 2, 0), 5)})
}

func TestQueryNoRecords(t *testing.T) {
	store, _ := newMockStore(t)
	test.That(t, store.Register("idle", Registration{Labels: []string{"a"}, BarWidth: minute}), test.ShouldBeNil)
	payload, err := store.Query("idle", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, payload[0].Data, test.ShouldResemble, [][]float64{raw(hm(10, 2, 0), 0)})
}

func TestStoreErrors(t *testing.T) {
	store, _ := newMockStore(t)
	_, err := store.Query("none", nil)
	test.That(t, errors.Is(err, ErrUnknownOp), test.ShouldBeTrue)
	err = store.Record("none", hm(10, 0, 0), []float64{1})
	test.That(t, errors.Is(err, ErrUnknownOp), test.ShouldBeTrue)
	err = store.Record("ops", hm(10, 0, 0), []float64{1})
	test.That(t, err, test.ShouldNotBeNil)
}
