// Package progress provides the rendering surface that displays the byte
// progress of many concurrent transfers plus an aggregate counter.
//
// A Surface owns all display state. Sinks and counters only post updates to
// it, so they may be used from any goroutine without extra locking.
package progress

import "sync/atomic"

// Sink receives the progress of one transfer.
type Sink interface {
	SetLabel(label string)
	SetTotal(total int64)
	SetCurrent(current int64)
	Finish()
	Fail(err error)
}

// Counter tracks how many transfers of a batch have completed.
type Counter interface {
	Inc()
	Completed() int
	Finish(message string)
}

// Surface displays sinks and a counter at the same time.
//
// Sinks and counters must be created before Start. Wait blocks until the
// counter is finished and the surface has stopped refreshing.
type Surface interface {
	NewCounter(total int) Counter
	NewSink() Sink
	Start()
	Wait() error
}

// Discard is a Surface that renders nothing.
var Discard Surface = discard{}

type discard struct{}

func (discard) NewCounter(int) Counter { return new(_DiscardCounter) }
func (discard) NewSink() Sink          { return discardSink{} }
func (discard) Start()                 {}
func (discard) Wait() error            { return nil }

type _DiscardCounter struct {
	n atomic.Int64
}

func (c *_DiscardCounter) Inc()           { c.n.Add(1) }
func (c *_DiscardCounter) Completed() int { return int(c.n.Load()) }
func (c *_DiscardCounter) Finish(string)  {}

type discardSink struct{}

func (discardSink) SetLabel(string)  {}
func (discardSink) SetTotal(int64)   {}
func (discardSink) SetCurrent(int64) {}
func (discardSink) Finish()          {}
func (discardSink) Fail(error)       {}
