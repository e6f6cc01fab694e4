package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/b97tsk/p3get"
	"github.com/b97tsk/p3get/internal/config"
	"github.com/b97tsk/p3get/internal/httpclient"
	"github.com/b97tsk/p3get/progress"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "p3get [flags] [URL...]",
		Short:         "Download files in parallel with a progress bar for each",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			header, err := cmd.Flags().GetStringToString("header")
			if err != nil {
				return err
			}
			return run(cmd, cfg, header, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")
	flags.IntP("parallel", "p", 1, "maximum number of parallel downloads")
	flags.StringP("dir", "d", ".", "directory for downloads given without a path")
	flags.StringP("file", "f", "", "YAML task list")
	flags.StringP("input", "i", "", "file with one URL per line")
	flags.StringP("user-agent", "A", "", "User-Agent header (default "+p3get.DefaultUserAgent+")")
	flags.String("referer", "", "Referer header")
	flags.StringP("proxy", "x", "", "proxy URL (http, https or socks5)")
	flags.StringP("cookies", "b", "", "Netscape cookies.txt file")
	flags.StringToStringP("header", "H", nil, "extra request header, key=value")
	flags.BoolP("quiet", "q", false, "do not draw progress bars")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("fail-exit", false, "exit with an error if any download fails")

	for key, name := range map[string]string{
		"parallel":   "parallel",
		"dir":        "dir",
		"file":       "file",
		"input":      "input",
		"user_agent": "user-agent",
		"referer":    "referer",
		"proxy":      "proxy",
		"cookies":    "cookies",
		"quiet":      "quiet",
		"log_level":  "log-level",
		"fail_exit":  "fail-exit",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	return cmd
}

type failure struct {
	task p3get.Task
	err  error
}

func run(cmd *cobra.Command, cfg *config.Config, header map[string]string, args []string) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "p3get",
	})
	ctx := log.WithContext(cmd.Context(), logger)

	entries, err := collectEntries(cfg, args)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("nothing to download, give URLs, --file or --input")
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = p3get.DefaultUserAgent
	}
	client, err := httpclient.New(httpclient.Options{
		UserAgent: userAgent,
		Referer:   cfg.Referer,
		Header:    mergeHeaders(cfg.Headers, header),
		Proxy:     cfg.Proxy,
		Cookies:   cfg.Cookies,
	})
	if err != nil {
		return err
	}

	var surface progress.Surface = progress.NewTerminal(cmd.ErrOrStderr())
	if cfg.Quiet {
		surface = progress.Discard
	}

	var (
		mu       sync.Mutex
		failures []failure
	)
	d := p3get.New().
		Parallel(cfg.Parallel).
		Client(client).
		Surface(surface).
		OnComplete(func(t p3get.Task, err error) {
			if err != nil {
				mu.Lock()
				failures = append(failures, failure{t, err})
				mu.Unlock()
			}
		})
	for _, e := range entries {
		d.AddTask(p3get.NewTask(e.URL, e.Path))
	}

	logger.Info("Downloading", "tasks", d.Len(), "parallel", cfg.Parallel)
	if err := d.Download(ctx); err != nil {
		return err
	}

	for _, f := range failures {
		logger.Warn("Download failed", "url", f.task.URL, "path", f.task.Path, "error", f.err)
	}
	if !cfg.Quiet {
		fprintf(cmd.OutOrStdout(), "%v of %v downloaded\n", d.Len()-len(failures), d.Len())
	}
	if cfg.FailExit && len(failures) > 0 {
		return fmt.Errorf("%v of %v downloads failed", len(failures), d.Len())
	}
	return nil
}

// collectEntries gathers tasks from the task file, the URL list and the
// arguments, in that order. Two tasks may not save to the same file.
func collectEntries(cfg *config.Config, args []string) ([]config.Entry, error) {
	var entries []config.Entry

	if cfg.File != "" {
		fromFile, err := config.LoadTaskFile(cfg.File, cfg.Dir)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fromFile...)
	}

	urls := args
	if cfg.Input != "" {
		list, err := config.LoadURLList(cfg.Input)
		if err != nil {
			return nil, err
		}
		urls = append(list, args...)
	}

	fromURLs, err := config.Entries(urls, cfg.Dir)
	if err != nil {
		return nil, err
	}
	entries = append(entries, fromURLs...)

	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		dest := filepath.Clean(e.Path)
		if first, ok := seen[dest]; ok {
			return nil, fmt.Errorf("%v and %v both save to %v", first, e.URL, dest)
		}
		seen[dest] = e.URL
	}
	return entries, nil
}

func mergeHeaders(configured, flags map[string]string) map[string]string {
	header := make(map[string]string, len(configured)+len(flags))
	for k, v := range configured {
		header[k] = v
	}
	for k, v := range flags {
		header[k] = v
	}
	return header
}
