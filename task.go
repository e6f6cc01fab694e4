package p3get

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/b97tsk/p3get/progress"
)

const _readBufferSize = 32 * 1024

var _bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, _readBufferSize)
		return &buf
	},
}

// Task is a download: a URL and the local file to save it to.
type Task struct {
	URL  string
	Path string
}

// NewTask returns a Task that saves url to path.
func NewTask(url, path string) Task {
	return Task{URL: url, Path: path}
}

// Download fetches t.URL with client and streams the body into t.Path,
// truncating any existing file. The parent directory must exist.
//
// sink gets the content length as its total, the base name of t.Path as its
// label and the number of bytes written so far as its position. It is
// finished on success only; reporting a failure is up to the caller.
//
// The response must declare a Content-Length, otherwise ErrMissingLength is
// returned before anything is written. On a read or write error the partial
// file is left in place.
func (t Task) Download(ctx context.Context, client HTTPClient, sink progress.Sink) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return wrapError(ErrRequest, t.URL, err)
	}
	// Keep the transport from decompressing, which would hide the length.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := client.Do(req)
	if err != nil {
		return wrapError(ErrRequest, t.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return wrapError(ErrRequest, t.URL, errors.New(resp.Status))
	}

	total := resp.ContentLength
	if total < 0 {
		return wrapError(ErrMissingLength, t.URL, nil)
	}
	sink.SetTotal(total)

	name, ok := fileName(t.Path)
	if !ok {
		return wrapError(ErrInvalidDestination, t.URL, fmt.Errorf("no file name in %q", t.Path))
	}
	sink.SetLabel(name)

	file, err := os.Create(t.Path)
	if err != nil {
		return wrapError(ErrStream, t.URL, err)
	}

	bufp := _bufferPool.Get().(*[]byte)
	defer _bufferPool.Put(bufp)

	var downloaded int64
	w := writerFunc(func(p []byte) (int, error) {
		n, err := file.Write(p)
		downloaded = min(downloaded+int64(n), total)
		sink.SetCurrent(downloaded)
		return n, err
	})

	_, err = io.CopyBuffer(w, resp.Body, *bufp)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return wrapError(ErrStream, t.URL, err)
	}

	sink.Finish()
	return nil
}

func fileName(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	switch name := filepath.Base(path); name {
	case ".", "..", string(filepath.Separator):
		return "", false
	default:
		return name, true
	}
}
