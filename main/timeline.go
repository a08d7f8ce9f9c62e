// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// timeline.go

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/simagix/timeline"
	"github.com/simagix/timeline/decoder"
	"github.com/simagix/timeline/feed"
	"github.com/simagix/timeline/render"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var repo = "simagix/timeline"
var version = "self-built"

const (
	flagConfig   = "config"
	flagDemo     = "demo"
	flagEndpoint = "endpoint"
	flagBSON     = "bson"
	flagHistory  = "history"
	flagInterval = "interval"
	flagOnce     = "once"
	flagOut      = "out"
	flagPort     = "port"
	flagTZ       = "tz"
	flagVerbose  = "verbose"
)

func main() {
	app := &cli.App{
		Name:    "timeline",
		Usage:   "polled time series charts",
		Version: fmt.Sprintf(`%v %v`, repo, version),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the operations endpoint",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: flagPort, Value: feed.DefaultPort, Usage: "port number"},
					&cli.PathFlag{Name: flagConfig, Required: true, Usage: "graph configurations, JSON5"},
					&cli.PathFlag{Name: flagHistory, Usage: "history of JSON lines {op, time, values}, plain or gzip"},
					&cli.BoolFlag{Name: flagDemo, Usage: "record random values every second"},
				},
				Action: serveAction,
			},
			{
				Name:  "watch",
				Usage: "poll the operations endpoint and draw graphs",
				Flags: []cli.Flag{
					&cli.PathFlag{Name: flagConfig, Required: true, Usage: "graph configurations, JSON5"},
					&cli.StringFlag{
						Name:  flagEndpoint,
						Value: fmt.Sprintf("http://localhost:%d%s", feed.DefaultPort, feed.OperationsPath),
						Usage: "operations endpoint",
					},
					&cli.PathFlag{Name: flagOut, Value: "graphs", Usage: "output directory of PNG files"},
					&cli.DurationFlag{Name: flagInterval, Value: timeline.DefaultInterval, Usage: "poll interval"},
					&cli.StringFlag{Name: flagTZ, Usage: "time zone of the displayed clock, default local"},
					&cli.BoolFlag{Name: flagBSON, Usage: "request BSON payloads"},
					&cli.BoolFlag{Name: flagOnce, Usage: "load once and exit"},
				},
				Action: watchAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if c.Bool(flagVerbose) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	configs, err := timeline.ReadConfigs(c.Path(flagConfig))
	if err != nil {
		return err
	}
	store := feed.NewStore()
	for _, cfg := range configs {
		reg := feed.Registration{Labels: cfg.Series, BarWidth: cfg.BarWidth, SepLastPoint: cfg.SepLastPoint}
		if err = store.Register(cfg.Op, reg); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()
	if history := c.Path(flagHistory); history != "" {
		btm := time.Now()
		count, err := store.LoadHistory(history)
		if err != nil {
			logger.Warnw("history", "file", history, "error", err)
		}
		logger.Infow("history loaded", "file", history, "records", count, "took", time.Since(btm).String())
		if !strings.HasSuffix(history, ".gz") {
			go func() {
				if err := store.Watch(ctx, history, logger); err != nil {
					logger.Warnw("history watch", "file", history, "error", err)
				}
			}()
		}
	}
	if c.Bool(flagDemo) {
		go feed.Demo(ctx, store, time.Second, time.Now().UnixNano())
	}
	return feed.Serve(ctx, store, c.Int(flagPort), logger)
}

func watchAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	configs, err := timeline.ReadConfigs(c.Path(flagConfig))
	if err != nil {
		return err
	}
	loc := time.Local
	if tz := c.String(flagTZ); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			return errors.Wrap(err, "time zone")
		}
	}
	fetcher := timeline.NewHTTPFetcher(c.String(flagEndpoint))
	if c.Bool(flagBSON) {
		fetcher.Format = decoder.MIMEBSON
	}
	renderer := render.Multi{render.NewPNG(c.Path(flagOut)), render.NewTable(os.Stdout)}
	dashboard, err := timeline.NewDashboard(configs,
		timeline.WithFetcher(fetcher),
		timeline.WithRenderer(renderer),
		timeline.WithErrorBoard(timeline.NewConsoleBoard(os.Stderr)),
		timeline.WithLogger(logger),
		timeline.WithLocation(loc),
		timeline.WithInterval(c.Duration(flagInterval)),
	)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if err = dashboard.Load(ctx); err != nil {
		logger.Warnw("dashboard", "error", err)
	}
	if c.Bool(flagOnce) {
		return err
	}
	if err = dashboard.Start(ctx); err != nil {
		return err
	}
	logger.Infow("polling", "endpoint", fetcher.BaseURL, "interval", c.Duration(flagInterval).String())
	<-ctx.Done()
	return dashboard.Stop()
}
