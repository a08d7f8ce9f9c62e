// Copyright 2019-present Kuei-chun Chen. All rights reserved.
// board.go

package timeline

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

// Notice is a user visible error shown in a named slot
type Notice struct {
	Message string
	Hint    string
}

// ErrorBoard displays errors in named slots
type ErrorBoard interface {
	SetError(slot string, notice Notice)
	ClearError(slot string)
}

// MemoryBoard keeps notices in memory
type MemoryBoard struct {
	sync.RWMutex
	notices map[string]Notice
}

// NewMemoryBoard -
func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{notices: map[string]Notice{}}
}

// SetError -
func (b *MemoryBoard) SetError(slot string, notice Notice) {
	b.Lock()
	defer b.Unlock()
	b.notices[slot] = notice
}

// ClearError -
func (b *MemoryBoard) ClearError(slot string) {
	b.Lock()
	defer b.Unlock()
	delete(b.notices, slot)
}

// Get returns the notice in a slot
func (b *MemoryBoard) Get(slot string) (Notice, bool) {
	b.RLock()
	defer b.RUnlock()
	notice, ok := b.notices[slot]
	return notice, ok
}

// Slots returns the sorted names of slots holding a notice
func (b *MemoryBoard) Slots() []string {
	b.RLock()
	defer b.RUnlock()
	slots := lo.Keys(b.notices)
	sort.Strings(slots)
	return slots
}

// ConsoleBoard prints notices to a terminal, red when set and green when a
// previously failing slot recovers
type ConsoleBoard struct {
	*MemoryBoard
	w io.Writer
}

// NewConsoleBoard -
func NewConsoleBoard(w io.Writer) *ConsoleBoard {
	return &ConsoleBoard{MemoryBoard: NewMemoryBoard(), w: w}
}

// SetError -
func (b *ConsoleBoard) SetError(slot string, notice Notice) {
	b.MemoryBoard.SetError(slot, notice)
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(b.w, "%s %s %s\n", red("["+slot+"]"), notice.Message, notice.Hint)
}

// ClearError -
func (b *ConsoleBoard) ClearError(slot string) {
	if _, ok := b.Get(slot); !ok {
		return
	}
	b.MemoryBoard.ClearError(slot)
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(b.w, "%s recovered\n", green("["+slot+"]"))
}
