// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// client_test.go

package timeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/simagix/timeline/decoder"
	"go.viam.com/test"
)

func TestRequestURL(t *testing.T) {
	fetcher := NewHTTPFetcher("http://localhost:5408/operations")
	endpoint, err := fetcher.RequestURL("reads", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, endpoint, test.ShouldEqual, "http://localhost:5408/operations?graph=reads")

	since := time.Date(2024, 3, 1, 10, 0, 0, 0, eastern)
	endpoint, err = fetcher.RequestURL("reads", &since)
	test.That(t, err, test.ShouldBeNil)
	u, err := url.Parse(endpoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, u.Query().Get("graph"), test.ShouldEqual, "reads")
	test.That(t, u.Query().Get("startdate"), test.ShouldEqual, "2024-03-01T15:00:00Z")
}

func TestHTTPFetcher(t *testing.T) {
	payload := decoder.Payload{{Label: "reads", Data: [][]float64{{1709287200, 5}}}}
	var accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", accept)
		if accept == decoder.MIMEBSON {
			payload.EncodeBSON(w)
			return
		}
		payload.EncodeJSON(w)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL)
	got, err := fetcher.Fetch(context.Background(), "reads", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, accept, test.ShouldEqual, decoder.MIMEJSON)
	test.That(t, got, test.ShouldResemble, payload)

	fetcher.Format = decoder.MIMEBSON
	got, err = fetcher.Fetch(context.Background(), "reads", nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, accept, test.ShouldEqual, decoder.MIMEBSON)
	test.That(t, got, test.ShouldResemble, payload)
}

func TestHTTPFetcherErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("graph") == "empty" {
			w.Write([]byte("[]"))
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	fetcher := NewHTTPFetcher(server.URL)
	_, err := fetcher.Fetch(context.Background(), "reads", nil)
	test.That(t, errors.Is(err, ErrTransport), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "503")

	_, err = fetcher.Fetch(context.Background(), "empty", nil)
	test.That(t, errors.Is(err, decoder.ErrEmpty), test.ShouldBeTrue)

	server.Close()
	_, err = fetcher.Fetch(context.Background(), "reads", nil)
	test.That(t, errors.Is(err, ErrTransport), test.ShouldBeTrue)
}
