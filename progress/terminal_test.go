package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type _SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *_SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *_SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTerminal(t *testing.T) {
	var out _SafeBuffer
	term := NewTerminal(&out)
	counter := term.NewCounter(2)
	a, b := term.NewSink(), term.NewSink()
	term.Start()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.SetTotal(10)
		a.SetLabel("a.bin")
		for i := int64(1); i <= 10; i++ {
			a.SetCurrent(i)
		}
		a.Finish()
		counter.Inc()
	}()
	go func() {
		defer wg.Done()
		b.Fail(errors.New("404 Not Found"))
		counter.Inc()
	}()
	wg.Wait()

	if n := counter.Completed(); n != 2 {
		t.Fatalf("Completed() = %v", n)
	}
	counter.Finish("Done.")

	waitErr := make(chan error, 1)
	go func() { waitErr <- term.Wait() }()
	select {
	case err := <-waitErr:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("terminal did not stop")
	}

	s := out.String()
	for _, want := range []string{"a.bin", "404 Not Found", "Done.", "Total (2/2)"} {
		if !strings.Contains(s, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestTerminalWaitWithoutStart(t *testing.T) {
	term := NewTerminal(new(bytes.Buffer))
	term.NewCounter(0).Finish("Done.")
	if err := term.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestDiscard(t *testing.T) {
	c := Discard.NewCounter(3)
	s := Discard.NewSink()
	Discard.Start()
	s.SetTotal(1)
	s.SetCurrent(1)
	s.Finish()
	c.Inc()
	c.Inc()
	if c.Completed() != 2 {
		t.Fatal(c.Completed())
	}
	c.Finish("Done.")
	if err := Discard.Wait(); err != nil {
		t.Fatal(err)
	}
}
