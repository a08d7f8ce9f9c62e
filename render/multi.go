// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// multi.go

package render

import (
	"github.com/simagix/timeline"
	"go.uber.org/multierr"
)

// Multi draws a frame with every renderer
type Multi []timeline.Renderer

// Draw -
func (m Multi) Draw(frame timeline.Frame) error {
	var err error
	for _, r := range m {
		err = multierr.Append(err, r.Draw(frame))
	}
	return err
}
