package p3get

import "errors"

var (
	// ErrRequest means the request could not be sent or was answered with a
	// non-2xx status.
	ErrRequest = errors.New("request failed")
	// ErrMissingLength means the response did not declare a Content-Length.
	ErrMissingLength = errors.New("failed to get file length")
	// ErrInvalidDestination means the destination path has no file name.
	ErrInvalidDestination = errors.New("invalid filename")
	// ErrStream means reading the body or writing the destination failed.
	ErrStream = errors.New("stream failed")
	// ErrInfrastructure is returned by Downloader.Download when the batch as
	// a whole cannot run.
	ErrInfrastructure = errors.New("downloader failed")
)

// Error describes a failure of one task or of a whole batch.
// Kind is one of the Err* values above.
type Error struct {
	Kind error
	URL  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func wrapError(kind error, url string, err error) error {
	return &Error{Kind: kind, URL: url, Err: err}
}
