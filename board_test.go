// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// board_test.go

package timeline

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"go.viam.com/test"
)

func TestMemoryBoard(t *testing.T) {
	board := NewMemoryBoard()
	board.SetError("ajax-b-graph", Notice{Message: "b"})
	board.SetError("ajax-a-graph", Notice{Message: "a"})
	test.That(t, board.Slots(), test.ShouldResemble, []string{"ajax-a-graph", "ajax-b-graph"})
	notice, ok := board.Get("ajax-a-graph")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, notice.Message, test.ShouldEqual, "a")
	board.ClearError("ajax-a-graph")
	board.ClearError("ajax-z-graph")
	test.That(t, board.Slots(), test.ShouldResemble, []string{"ajax-b-graph"})
}

func TestConsoleBoard(t *testing.T) {
	color.NoColor = true
	var buffer bytes.Buffer
	board := NewConsoleBoard(&buffer)
	board.ClearError("ajax-ops-graph")
	test.That(t, buffer.String(), test.ShouldBeEmpty)

	board.SetError("ajax-ops-graph", Notice{Message: "Could not query Operations update from the server.", Hint: "Verify the server is not down."})
	test.That(t, buffer.String(), test.ShouldEqual,
		"[ajax-ops-graph] Could not query Operations update from the server. Verify the server is not down.\n")
	buffer.Reset()
	board.ClearError("ajax-ops-graph")
	test.That(t, buffer.String(), test.ShouldEqual, "[ajax-ops-graph] recovered\n")
	test.That(t, board.Slots(), test.ShouldBeEmpty)
}
