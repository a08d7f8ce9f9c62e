// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// server.go

package feed

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultPort -
const DefaultPort = 5408

// Serve listens on port and serves the store until ctx is done
func Serve(ctx context.Context, store *Store, port int, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return err
	}
	server := &http.Server{Handler: NewServeMux(NewHandler(store, logger)), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()
	hostname, _ := os.Hostname()
	logger.Infow("HTTP server ready", "url", "http://"+hostname+":"+strconv.Itoa(port)+OperationsPath,
		"operations", store.Operations())
	if err = server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Demo records random values for every registered operation each tick of
// the store clock until ctx is done
func Demo(ctx context.Context, store *Store, every time.Duration, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	ticker := store.Clock().Ticker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			store.RLock()
			widths := make(map[string]int, len(store.ops))
			for name, o := range store.ops {
				widths[name] = len(o.Labels)
			}
			store.RUnlock()
			for name, n := range widths {
				values := make([]float64, n)
				for i := range values {
					values[i] = float64(rng.Intn(10 * (i + 1)))
				}
				store.Record(name, now, values)
			}
		}
	}
}
