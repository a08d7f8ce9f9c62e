// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// client.go

package timeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/simagix/timeline/decoder"
)

// ErrTransport is returned when the server cannot be reached or answers with
// an error status
var ErrTransport = errors.New("transport error")

// Fetcher queries the operations endpoint. A nil since requests the full history.
type Fetcher interface {
	Fetch(ctx context.Context, op string, since *time.Time) (decoder.Payload, error)
}

// HTTPFetcher -
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	Format  string // decoder.MIMEJSON or decoder.MIMEBSON
}

// NewHTTPFetcher -
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{BaseURL: baseURL, Client: &http.Client{Timeout: 30 * time.Second}, Format: decoder.MIMEJSON}
}

// RequestURL returns the endpoint URL with graph and startdate arguments
func (f *HTTPFetcher) RequestURL(op string, since *time.Time) (string, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("graph", op)
	if since != nil {
		q.Set("startdate", since.UTC().Format(time.RFC3339Nano))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch -
func (f *HTTPFetcher) Fetch(ctx context.Context, op string, since *time.Time) (decoder.Payload, error) {
	endpoint, err := f.RequestURL(op, since)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.Format != "" {
		req.Header.Set("Accept", f.Format)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrTransport, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrap(ErrTransport, fmt.Sprintf("GET %v: %v", endpoint, resp.Status))
	}
	return decoder.DecodeContent(resp.Header.Get("Content-Type"), resp.Body)
}
