package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	_labelWidth   = 24
	_barWidth     = 38
	_tickInterval = 500 * time.Millisecond
)

type (
	_LabelMessage struct {
		Index int
		Label string
	}

	_TotalMessage struct {
		Index int
		Total int64
	}

	_PositionMessage struct {
		Index   int
		Current int64
	}

	_FinishMessage struct {
		Index   int
		Current int64
	}

	_FailMessage struct {
		Index int
		Text  string
	}

	_IncMessage struct{}

	_DoneMessage struct {
		Message string
	}

	_TickMessage time.Time
)

var (
	_pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	_errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	_doneStyle    = lipgloss.NewStyle().Bold(true)
)

type _Bar struct {
	label   string
	total   int64
	current int64
	start   time.Time
	end     time.Time
	done    bool
	err     string
}

type _Total struct {
	len     int
	pos     int
	message string
	start   time.Time
	end     time.Time
	done    bool
}

// _Model is the state of a Terminal. Once the program runs it is only
// touched from the program's event loop.
type _Model struct {
	bars  []*_Bar
	total _Total
	bar   progress.Model
	now   func() time.Time
}

func newModel() *_Model {
	bar := progress.New(
		progress.WithWidth(_barWidth),
		progress.WithoutPercentage(),
		progress.WithSolidFill("6"),
	)
	bar.Full, bar.Empty = '#', '-'
	return &_Model{
		total: _Total{message: "Downloading..."},
		bar:   bar,
		now:   time.Now,
	}
}

func (m *_Model) addBar() int {
	m.bars = append(m.bars, &_Bar{total: -1})
	return len(m.bars) - 1
}

func (m *_Model) tick() tea.Cmd {
	return tea.Tick(_tickInterval, func(t time.Time) tea.Msg { return _TickMessage(t) })
}

func (m *_Model) Init() tea.Cmd {
	m.total.start = m.now()
	return m.tick()
}

func (m *_Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case _LabelMessage:
		m.bars[msg.Index].label = msg.Label
	case _TotalMessage:
		b := m.bars[msg.Index]
		b.total = msg.Total
		b.start = m.now()
	case _PositionMessage:
		b := m.bars[msg.Index]
		if msg.Current > b.current {
			b.current = msg.Current
		}
	case _FinishMessage:
		b := m.bars[msg.Index]
		if msg.Current > b.current {
			b.current = msg.Current
		}
		b.done = true
		b.end = m.now()
	case _FailMessage:
		b := m.bars[msg.Index]
		b.err = msg.Text
		b.done = true
		b.end = m.now()
	case _IncMessage:
		if m.total.pos < m.total.len {
			m.total.pos++
		}
	case _DoneMessage:
		m.total.message = msg.Message
		m.total.done = true
		m.total.end = m.now()
		return m, tea.Quit
	case _TickMessage:
		return m, m.tick()
	}
	return m, nil
}

func (m *_Model) View() string {
	var sb strings.Builder
	for _, b := range m.bars {
		sb.WriteString(m.viewBar(b))
		sb.WriteByte('\n')
	}
	sb.WriteString(m.viewTotal())
	sb.WriteByte('\n')
	return sb.String()
}

func (m *_Model) viewBar(b *_Bar) string {
	label := fit(b.label, _labelWidth)

	if b.err != "" {
		if b.label == "" {
			return _errorStyle.Render(b.err)
		}
		return label + " " + _errorStyle.Render(b.err)
	}

	if b.total < 0 {
		return label + " " + _pendingStyle.Render("waiting...")
	}

	end := m.now()
	if b.done {
		end = b.end
	}
	elapsed := end.Sub(b.start)

	var speed float64
	if elapsed > 0 {
		speed = float64(b.current) / elapsed.Seconds()
	}

	var clock string
	switch {
	case b.done:
		clock = FormatDuration(elapsed)
	case speed > 0:
		clock = FormatDuration(time.Duration(float64(b.total-b.current)/speed) * time.Second)
	default:
		clock = FormatDuration(0)
	}

	size := b.current
	if b.done {
		size = b.total
	}

	return fmt.Sprintf(
		"%s %11s %11s %s [%s] %3d%%",
		label,
		FormatBytes(size),
		FormatBytes(int64(speed))+"/s",
		clock,
		m.bar.ViewAs(ratio(b.current, b.total)),
		percent(b.current, b.total),
	)
}

func (m *_Model) viewTotal() string {
	t := m.total
	message := fit(t.message, _labelWidth)
	if t.done {
		message = _doneStyle.Render(message)
	}

	var clock string
	switch {
	case t.done:
		clock = FormatDuration(t.end.Sub(t.start))
	case t.pos > 0:
		elapsed := m.now().Sub(t.start)
		clock = FormatDuration(elapsed / time.Duration(t.pos) * time.Duration(t.len-t.pos))
	default:
		clock = FormatDuration(0)
	}

	return fmt.Sprintf(
		"%s Total (%d/%d) %s [%s] %3d%%",
		message,
		t.pos,
		t.len,
		clock,
		m.bar.ViewAs(ratio(int64(t.pos), int64(t.len))),
		percent(int64(t.pos), int64(t.len)),
	)
}

func ratio(current, total int64) float64 {
	if total <= 0 {
		return 1
	}
	return float64(current) / float64(total)
}

func percent(current, total int64) int {
	return int(ratio(current, total) * 100)
}
