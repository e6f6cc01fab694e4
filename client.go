package p3get

import (
	"net/http"

	"github.com/b97tsk/p3get/internal/httpclient"
)

// Version is reported in the default User-Agent.
const Version = "0.1.0"

// DefaultUserAgent identifies clients built by the Downloader itself.
const DefaultUserAgent = "p3get/" + Version

// HTTPClient sends GET requests for tasks. A *http.Client satisfies it and
// is safe to share between all tasks of a batch.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func defaultClient() (*http.Client, error) {
	return httpclient.New(httpclient.Options{UserAgent: DefaultUserAgent})
}
