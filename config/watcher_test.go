package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cellconsole.yml")
	require.NoError(t, os.WriteFile(path, []byte("polling:\n  interval: 1s\n"), 0644))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func(c *Config) { reloaded <- c })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("polling:\n  interval: 3s\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 3*time.Second, cfg.PollIntervalDuration())
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcherSkipsInvalidEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cellconsole.yml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func(c *Config) { reloaded <- c })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("ui:\n  mode: weld\n"), 0644))

	select {
	case <-reloaded:
		t.Fatal("invalid configuration should not be delivered")
	case <-time.After(300 * time.Millisecond):
	}
}
