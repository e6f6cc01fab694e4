package httpclient

import (
	"bufio"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const _httpOnlyPrefix = "#HttpOnly_"

// LoadCookies reads a Netscape cookies.txt file. Malformed lines are
// skipped. The returned jar is nil if the file holds no cookies.
func LoadCookies(name string) (jar http.CookieJar, err error) {
	file, err := os.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")

		httpOnly := strings.HasPrefix(line, _httpOnlyPrefix)
		if httpOnly {
			line = line[len(_httpOnlyPrefix):]
		}

		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}

		expires, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			continue
		}

		cookie := http.Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Path:     fields[2],
			Domain:   fields[0],
			Secure:   fields[3] == "TRUE",
			HttpOnly: httpOnly,
		}
		if expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
		}

		scheme := "http"
		host := cookie.Domain
		if cookie.Secure {
			scheme = "https"
		}
		if host != "" && host[0] == '.' {
			host = host[1:]
		}

		u, err := url.Parse(scheme + "://" + host + "/")
		if err != nil {
			continue
		}

		if jar == nil {
			jar, err = cookiejar.New(&cookiejar.Options{
				PublicSuffixList: publicsuffix.List,
			})
			if err != nil {
				return nil, err
			}
		}
		jar.SetCookies(u, []*http.Cookie{&cookie})
	}
	err = s.Err()
	return
}
