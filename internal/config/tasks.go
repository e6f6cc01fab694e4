package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const _maxLineSize = 8192

// Entry is one (URL, destination) pair.
type Entry struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// TaskFile is the layout of a YAML task list:
//
//	tasks:
//	  - url: https://example.com/a.iso
//	    path: downloads/a.iso
//	  - url: https://example.com/b.tar.gz
type TaskFile struct {
	Tasks []Entry `yaml:"tasks"`
}

// LoadTaskFile reads a YAML task list. Entries without a path are saved
// under dir, named after their URL; relative paths are kept as they are.
func LoadTaskFile(name, dir string) ([]Entry, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var tf TaskFile
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}

	entries := make([]Entry, 0, len(tf.Tasks))
	for i, e := range tf.Tasks {
		if e.URL == "" {
			return nil, fmt.Errorf("%v: task %v has no url", name, i+1)
		}
		if e.Path == "" {
			p, err := Destination(e.URL, dir)
			if err != nil {
				return nil, err
			}
			e.Path = p
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LoadURLList reads one URL per line. Blank lines and lines starting with
// '#' are skipped.
func LoadURLList(name string) (urls []string, err error) {
	file, err := os.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	s.Buffer(nil, _maxLineSize)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		urls = append(urls, line)
	}
	err = s.Err()
	return
}

// Entries pairs every URL with a destination under dir.
func Entries(urls []string, dir string) ([]Entry, error) {
	entries := make([]Entry, 0, len(urls))
	for _, rawurl := range urls {
		p, err := Destination(rawurl, dir)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{URL: rawurl, Path: p})
	}
	return entries, nil
}

// Destination returns dir joined with the last element of the URL path,
// or with index.html when the path has none.
func Destination(rawurl, dir string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url: %v", rawurl)
	}
	if u.Host == "" {
		return "", errors.New("invalid url: missing host: " + rawurl)
	}
	name := path.Base(u.Path)
	switch name {
	case ".", "..", "/":
		name = "index.html"
	}
	return filepath.Join(dir, name), nil
}
