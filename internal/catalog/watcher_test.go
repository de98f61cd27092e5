package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/logoteca/internal/storage"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_DirReload(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	cat := New(DirSource{FS: fs}, nil, quiet)
	if _, _, err := cat.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	go Watch(ctx, cat, dir, quiet, func(*Snapshot) { reloads.Add(1) })
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, barcelona), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return cat.Snapshot().Len() == 1
	}, "new image not picked up by watcher")
	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return reloads.Load() >= 1
	}, "expected reload callback")

	_ = os.Remove(filepath.Join(dir, barcelona))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return cat.Snapshot().Len() == 0
	}, "removed image still in catalog")
}

func TestWatcher_ManifestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logos.yaml")
	_ = os.WriteFile(path, []byte("logos:\n  - \""+barcelona+"\"\n"), 0o644)

	cat := New(ManifestSource{Path: path}, nil, quiet)
	if _, _, err := cat.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, cat, path, quiet, nil)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(path, []byte("logos:\n  - \""+barcelona+"\"\n  - \""+catalunya+"\"\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return cat.Snapshot().Len() == 2
	}, "manifest edit not picked up by watcher")
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	fs, _ := storage.NewFS(dir)
	cat := New(DirSource{FS: fs}, nil, quiet)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, cat, dir, quiet, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
