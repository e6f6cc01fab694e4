// Package httpclient builds the HTTP client shared by all downloads of a
// batch: fixed request headers, an optional proxy and an optional cookie jar.
package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

// Options configures New. Zero values leave the corresponding feature off.
type Options struct {
	UserAgent string
	Referer   string
	Header    map[string]string
	// Proxy is an http, https, socks5 or socks5h URL.
	Proxy string
	// Cookies names a Netscape cookies.txt file.
	Cookies string
}

// New returns a client configured by opts. The client is safe for
// concurrent use and is meant to be shared.
func New(opts Options) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		if err := setProxy(transport, opts.Proxy); err != nil {
			return nil, err
		}
	}

	header := make(http.Header)
	for k, v := range opts.Header {
		header.Set(k, v)
	}
	if opts.UserAgent != "" {
		header.Set("User-Agent", opts.UserAgent)
	}
	if opts.Referer != "" {
		if _, err := url.Parse(opts.Referer); err != nil {
			return nil, fmt.Errorf("invalid referer: %w", err)
		}
		header.Set("Referer", opts.Referer)
	}

	client := &http.Client{Transport: transport}
	if len(header) > 0 {
		client.Transport = &_HeaderTransport{header: header, base: transport}
	}

	if opts.Cookies != "" {
		jar, err := LoadCookies(opts.Cookies)
		if err != nil {
			return nil, fmt.Errorf("failed to load cookies: %w", err)
		}
		if jar != nil {
			client.Jar = jar
		}
	}

	return client, nil
}

func setProxy(transport *http.Transport, rawurl string) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return fmt.Errorf("invalid proxy: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = nil
		if d, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = d.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	default:
		return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	return nil
}

// _HeaderTransport adds header to requests that do not set those fields
// themselves.
type _HeaderTransport struct {
	header http.Header
	base   http.RoundTripper
}

func (t *_HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.header {
		if _, ok := req.Header[k]; !ok {
			req.Header[k] = v
		}
	}
	return t.base.RoundTrip(req)
}
