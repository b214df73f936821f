package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestCLI() *CLI {
	return New(&bytes.Buffer{}, log.InfoLevel)
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()

	want := []string{"describe", "validate", "resolve", "plan", "build", "graph", "serve", "store", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RootCommand() missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := newTestCLI()
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestLoadDefaultsBuiltin(t *testing.T) {
	d, err := loadDefaults("")
	if err != nil {
		t.Fatalf("loadDefaults() error = %v", err)
	}
	if d.GridStep <= 0 {
		t.Errorf("GridStep = %v, want positive", d.GridStep)
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	if _, err := loadDefaults(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("loadDefaults() should fail on a missing file")
	}
}

func TestWriteOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeOutput(path, []byte("{}")); err != nil {
		t.Fatalf("writeOutput() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("written data = %q", data)
	}
}

func TestNewPromptCacheDisabled(t *testing.T) {
	if cache := newPromptCache(true); cache != nil {
		t.Error("newPromptCache(true) should return nil")
	}
}

func TestNewPromptCacheEnabled(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache := newPromptCache(false)
	if cache == nil {
		t.Fatal("newPromptCache(false) returned nil")
	}
	if cache.Dir() == "" {
		t.Error("cache dir should be set")
	}
}
