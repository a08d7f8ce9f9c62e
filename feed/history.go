// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// history.go

package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/simagix/gox"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Record is one line of a history file
type Record struct {
	Op     string    `json:"op"`
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
}

// apply decodes JSON lines and records them; blank lines are skipped and bad
// lines are collected
func (s *Store) apply(reader *bufio.Reader) (int, error) {
	var errs error
	count := 0
	lineno := 0
	for {
		line, rerr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			lineno++
			var rec Record
			if err := json.Unmarshal(line, &rec); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "line %d", lineno))
			} else if err = s.Record(rec.Op, rec.Time, rec.Values); err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "line %d", lineno))
			} else {
				count++
			}
		}
		if rerr == io.EOF {
			return count, errs
		} else if rerr != nil {
			return count, multierr.Append(errs, rerr)
		}
	}
}

// LoadHistory records every line of a JSON lines file, plain or gzip
func (s *Store) LoadHistory(filename string) (int, error) {
	var err error
	var file *os.File
	var reader *bufio.Reader

	if file, err = os.Open(filename); err != nil {
		return 0, err
	}
	defer file.Close()
	// a file shorter than the compression magic is read as plain text
	if reader, err = gox.NewReader(file); err != nil && err != io.EOF {
		return 0, err
	}
	return s.apply(reader)
}

// Watch records lines appended to a plain history file until ctx is done.
// Only complete lines are consumed; a partial line waits for the next write.
func (s *Store) Watch(ctx context.Context, filename string, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	info, err := os.Stat(filename)
	if err != nil {
		return err
	}
	offset := info.Size()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// watch the directory so a rotated file is picked up again
	if err = watcher.Add(filepath.Dir(filename)); err != nil {
		return err
	}
	target := filepath.Clean(filename)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Create) {
				offset = 0
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			var count int
			if offset, count, err = s.tail(filename, offset); err != nil {
				logger.Warnw("history reload", "file", filename, "error", err)
			}
			if count > 0 {
				logger.Debugw("history reloaded", "file", filename, "records", count)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("history watcher", "file", filename, "error", err)
		}
	}
}

// tail records the complete lines after offset and returns the new offset
func (s *Store) tail(filename string, offset int64) (int64, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return offset, 0, err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return offset, 0, err
	}
	if info.Size() < offset { // truncated
		offset = 0
	}
	if _, err = file.Seek(offset, io.SeekStart); err != nil {
		return offset, 0, err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return offset, 0, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return offset, 0, nil
	}
	count, err := s.apply(bufio.NewReader(bytes.NewReader(data[:end+1])))
	return offset + int64(end+1), count, err
}
