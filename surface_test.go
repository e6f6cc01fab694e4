package p3get

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/b97tsk/p3get/progress"
)

// _Recorder is a progress.Surface that keeps everything it is told.
type _Recorder struct {
	mu         sync.Mutex
	events     []string
	violations []string
	sinks      []*_RecordingSink
	counter    *_RecordingCounter
	started    bool
	waitErr    error
}

func (r *_Recorder) record(format string, a ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, a...))
}

func (r *_Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *_Recorder) NewCounter(total int) progress.Counter {
	r.counter = &_RecordingCounter{r: r, total: total}
	return r.counter
}

func (r *_Recorder) NewSink() progress.Sink {
	s := &_RecordingSink{r: r, index: len(r.sinks), total: -1}
	r.sinks = append(r.sinks, s)
	return s
}

func (r *_Recorder) Start() {
	r.started = true
}

func (r *_Recorder) Wait() error {
	return r.waitErr
}

type _RecordingCounter struct {
	r         *_Recorder
	total     int
	completed int
	message   string
}

func (c *_RecordingCounter) Inc() {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	c.completed++
	if c.completed > c.total {
		c.r.violations = append(c.r.violations, "counter went past its total")
	}
}

func (c *_RecordingCounter) Completed() int {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	return c.completed
}

func (c *_RecordingCounter) Finish(message string) {
	c.r.mu.Lock()
	c.message = message
	c.r.mu.Unlock()
	c.r.record("done %v", message)
}

type _RecordingSink struct {
	r        *_Recorder
	index    int
	label    string
	total    int64
	current  int64
	updates  int
	finished bool
	err      error
}

func (s *_RecordingSink) SetLabel(label string) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.label = label
}

func (s *_RecordingSink) SetTotal(total int64) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.total = total
}

func (s *_RecordingSink) SetCurrent(current int64) {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if current < s.current {
		s.r.violations = append(s.r.violations, fmt.Sprintf("sink %v went back from %v to %v", s.index, s.current, current))
	}
	if s.total >= 0 && current > s.total {
		s.r.violations = append(s.r.violations, fmt.Sprintf("sink %v went past its total: %v > %v", s.index, current, s.total))
	}
	s.current = current
	s.updates++
}

func (s *_RecordingSink) Finish() {
	s.r.mu.Lock()
	s.finished = true
	s.r.mu.Unlock()
	s.r.record("finish %v", s.index)
}

func (s *_RecordingSink) Fail(err error) {
	s.r.mu.Lock()
	s.err = err
	s.r.mu.Unlock()
	s.r.record("fail %v", s.index)
}

type _ClientFunc func(req *http.Request) (*http.Response, error)

func (f _ClientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
