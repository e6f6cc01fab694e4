package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Parallel != 1 || c.Dir != "." || c.LogLevel != "warn" || c.Quiet || c.FailExit {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	name := filepath.Join(t.TempDir(), "p3get.yaml")
	content := "parallel: 4\n" +
		"dir: downloads\n" +
		"user_agent: p3get/test\n" +
		"headers:\n" +
		"  X-Token: secret\n"
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("P3GET_PROXY", "socks5://127.0.0.1:1080")
	t.Setenv("P3GET_PARALLEL", "3")

	c, err := Load(viper.New(), name)
	if err != nil {
		t.Fatal(err)
	}
	if c.Parallel != 3 {
		t.Errorf("Parallel = %v, env should win over the file", c.Parallel)
	}
	if c.Dir != "downloads" {
		t.Errorf("Dir = %q", c.Dir)
	}
	if c.UserAgent != "p3get/test" {
		t.Errorf("UserAgent = %q", c.UserAgent)
	}
	if c.Proxy != "socks5://127.0.0.1:1080" {
		t.Errorf("Proxy = %q", c.Proxy)
	}
	if c.Headers["x-token"] != "secret" {
		t.Errorf("Headers = %v", c.Headers)
	}
}

func TestLoadClampsParallel(t *testing.T) {
	v := viper.New()
	v.Set("parallel", 0)
	c, err := Load(v, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Parallel != 1 {
		t.Fatalf("Parallel = %v", c.Parallel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error")
	}
}
