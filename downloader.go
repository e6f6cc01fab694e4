// Package p3get downloads a batch of files in parallel, drawing a progress
// bar for every file and one for the whole batch.
package p3get

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/b97tsk/p3get/progress"
)

// Downloader runs a list of tasks, at most Parallel of them at a time.
//
// Configure it before calling Download; it must not be modified while a
// download is running.
type Downloader struct {
	tasks    []Task
	parallel int
	client   HTTPClient
	surface  progress.Surface
	complete func(Task, error)
}

// New returns an empty Downloader that runs one task at a time.
func New() *Downloader {
	return &Downloader{parallel: 1}
}

// FromTasks returns a Downloader for tasks, in order.
func FromTasks(tasks ...Task) *Downloader {
	d := New()
	for _, t := range tasks {
		d.AddTask(t)
	}
	return d
}

// FromPairs returns a Downloader with one task per {url, path} pair.
func FromPairs(pairs [][2]string) *Downloader {
	d := New()
	for _, p := range pairs {
		d.AddTask(NewTask(p[0], p[1]))
	}
	return d
}

// AddTask appends t to the task list.
func (d *Downloader) AddTask(t Task) *Downloader {
	d.tasks = append(d.tasks, t)
	return d
}

// Parallel sets the maximum number of tasks running at the same time.
// Values below 1 mean 1.
func (d *Downloader) Parallel(n int) *Downloader {
	if n < 1 {
		n = 1
	}
	d.parallel = n
	return d
}

// Client sets the HTTP client shared by all tasks. Without one, Download
// builds a client that sends DefaultUserAgent.
func (d *Downloader) Client(c HTTPClient) *Downloader {
	d.client = c
	return d
}

// Surface sets where progress is drawn. The default is a progress.Terminal
// on standard error.
func (d *Downloader) Surface(s progress.Surface) *Downloader {
	d.surface = s
	return d
}

// OnComplete sets a function called once for every task when it ends,
// with the task's error or nil. It is called from the task's goroutine.
func (d *Downloader) OnComplete(fn func(t Task, err error)) *Downloader {
	d.complete = fn
	return d
}

// Tasks returns a copy of the task list.
func (d *Downloader) Tasks() []Task {
	return append([]Task(nil), d.tasks...)
}

// Len returns the number of tasks.
func (d *Downloader) Len() int {
	return len(d.tasks)
}

// Download runs every task and returns when all of them have finished.
//
// A failing task does not stop the others: its error is shown on its own
// progress line and the batch carries on. Download only returns an error,
// wrapping ErrInfrastructure, when the default client cannot be built or
// the progress surface fails.
func (d *Downloader) Download(ctx context.Context) error {
	logger := log.FromContext(ctx).With("batch", uuid.NewString())

	client := d.client
	if client == nil {
		c, err := defaultClient()
		if err != nil {
			logger.Error("Failed to build HTTP client", "error", err)
			return wrapError(ErrInfrastructure, "", err)
		}
		client = c
	}

	surface := d.surface
	if surface == nil {
		surface = progress.NewTerminal(os.Stderr)
	}

	total := surface.NewCounter(len(d.tasks))
	sinks := make([]progress.Sink, len(d.tasks))
	for i := range sinks {
		sinks[i] = surface.NewSink()
	}
	surface.Start()

	parallel := d.parallel
	if parallel < 1 {
		parallel = 1
	}
	logger.Debug("Starting downloads", "tasks", len(d.tasks), "parallel", parallel)

	var g errgroup.Group
	g.SetLimit(parallel)
	for i := range d.tasks {
		task, sink := d.tasks[i], sinks[i]
		g.Go(func() error {
			defer total.Inc()
			err := runTask(ctx, task, client, sink)
			if err != nil {
				logger.Debug("Task failed", "url", task.URL, "path", task.Path, "error", err)
				sink.Fail(err)
			} else {
				logger.Debug("Task completed", "url", task.URL, "path", task.Path)
			}
			if d.complete != nil {
				d.complete(task, err)
			}
			return nil
		})
	}
	g.Wait()

	total.Finish("Done.")
	if err := surface.Wait(); err != nil {
		logger.Error("Progress surface failed", "error", err)
		return wrapError(ErrInfrastructure, "", err)
	}
	return nil
}

// DownloadBlocking is Download with a background context.
func (d *Downloader) DownloadBlocking() error {
	return d.Download(context.Background())
}

func runTask(ctx context.Context, task Task, client HTTPClient, sink progress.Sink) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return task.Download(ctx, client, sink)
}
