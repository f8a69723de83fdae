//go:build linux

// Package pthreadcreate measures the cost of spawning a goroutine and
// waiting for it to run its first instruction and exit.
//
// Grounded on original_source/bench-pthread-create.cpp. A goroutine
// isn't a 1:1 stand-in for a pthread (no OS thread is usually
// created), but it is the idiomatic Go equivalent of "create a unit
// of concurrent execution and wait for it to finish" that this
// benchmark exercises.
package pthreadcreate

import (
	"github.com/penberg/posixbench/action"
	"github.com/penberg/posixbench/internal/clock"
)

// Action times goroutine creation-and-join.
type Action struct{}

// New returns the pthread-create action.
func New() action.Action[struct{}] { return Action{} }

func (Action) MakeState(_ []action.ThreadHandle) struct{} { return struct{}{} }

func (Action) RawOperation(_ *struct{}) {
	done := make(chan struct{})
	go func() { close(done) }()
	<-done
}

func (Action) MeasuredOperation(_ *struct{}) uint64 {
	start := clock.Now()
	done := make(chan uint64, 1)
	go func() { done <- clock.Now() }()
	end := <-done
	return clock.Diff(start, end)
}

func (Action) OtherOperation(_ *struct{}, _ int) {
	done := make(chan struct{})
	go func() { close(done) }()
	<-done
}

func (Action) SupportsNoInterference() bool   { return true }
func (Action) SupportsEnergyMeasurement() bool { return true }
