package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/voronoi/pkg/cache"
)

// writeConfig writes a TOML config pointing the file cache at dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voronoi.toml")
	body := "[cache]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCachePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diagrams")
	out, err := runCLI(t, "cache", "path", "-c", writeConfig(t, dir))
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.ToSlash(dir) && got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCachePathDefault(t *testing.T) {
	want, err := cache.DefaultDir()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
	if !strings.HasSuffix(want, "voronoi") {
		t.Errorf("default dir %q should end with voronoi", want)
	}
}

func TestCacheClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diagrams")
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, k, []byte(k), cache.TTLArtifact); err != nil {
			t.Fatal(err)
		}
	}

	out, err := runCLI(t, "cache", "clear", "-c", writeConfig(t, dir))
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("output = %q, want 3 cleared entries", out)
	}
	if _, ok, _ := store.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	out, err := runCLI(t, "cache", "clear", "-c", writeConfig(t, dir))
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q, want empty notice", out)
	}
}
