package progress

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

const _refreshInterval = 100 * time.Millisecond

// Terminal is a Surface that draws one line per sink and a total line below
// them. Updates are posted to a bubbletea program, whose event loop is the
// only writer of the display state.
type Terminal struct {
	output io.Writer
	model  *_Model

	startOnce sync.Once
	program   *tea.Program
	done      chan struct{}
	err       error
}

// NewTerminal returns a Terminal that renders to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		output: w,
		model:  newModel(),
		done:   make(chan struct{}),
	}
}

func (t *Terminal) NewCounter(total int) Counter {
	t.model.total.len = total
	return &_TerminalCounter{t: t}
}

func (t *Terminal) NewSink() Sink {
	s := &_TerminalSink{
		t:       t,
		index:   t.model.addBar(),
		limiter: rate.NewLimiter(rate.Every(_refreshInterval), 1),
	}
	s.total.Store(-1)
	return s
}

func (t *Terminal) Start() {
	t.startOnce.Do(func() {
		t.program = tea.NewProgram(
			t.model,
			tea.WithOutput(t.output),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		)
		go func() {
			defer close(t.done)
			_, t.err = t.program.Run()
		}()
	})
}

func (t *Terminal) Wait() error {
	if t.program == nil {
		return nil
	}
	<-t.done
	return t.err
}

func (t *Terminal) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

type _TerminalCounter struct {
	t *Terminal
	n atomic.Int64
}

func (c *_TerminalCounter) Inc() {
	c.n.Add(1)
	c.t.send(_IncMessage{})
}

func (c *_TerminalCounter) Completed() int {
	return int(c.n.Load())
}

func (c *_TerminalCounter) Finish(message string) {
	c.t.send(_DoneMessage{message})
}

type _TerminalSink struct {
	t       *Terminal
	index   int
	limiter *rate.Limiter
	total   atomic.Int64
	current atomic.Int64
}

func (s *_TerminalSink) SetLabel(label string) {
	s.t.send(_LabelMessage{s.index, label})
}

func (s *_TerminalSink) SetTotal(total int64) {
	s.total.Store(total)
	s.t.send(_TotalMessage{s.index, total})
}

// SetCurrent posts at most one position per refresh interval; the position
// that reaches the total is always posted.
func (s *_TerminalSink) SetCurrent(current int64) {
	s.current.Store(current)
	if current == s.total.Load() || s.limiter.Allow() {
		s.t.send(_PositionMessage{s.index, current})
	}
}

func (s *_TerminalSink) Finish() {
	s.t.send(_FinishMessage{s.index, s.current.Load()})
}

func (s *_TerminalSink) Fail(err error) {
	s.t.send(_FailMessage{s.index, err.Error()})
}
