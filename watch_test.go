package petsite

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	req, trigger := newDebouncer(30 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-req:
		t.Fatal("burst fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{"src/.hidden", "src/data/pet.json~", "src/views/a.md.swp", "src/#draft#", "src/assets/images/Thumbs.db"}
	for _, p := range ignored {
		assert.True(t, shouldIgnoreEvent(p), p)
	}
	for _, p := range []string{"src/data/pet.json", "src/views/about.md", "src/assets/styles/main.css"} {
		assert.False(t, shouldIgnoreEvent(p), p)
	}
}

func TestUnderAny(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	assert.True(t, underAny(dist, []string{dist}))
	assert.True(t, underAny(filepath.Join(dist, "index.html"), []string{dist}))
	assert.False(t, underAny(filepath.Join(root, "distant"), []string{dist}))
	assert.False(t, underAny(root, nil))
}

func TestWatchRebuildsOnChange(t *testing.T) {
	cfg := writeProject(t, EnvDevelopment)
	cfg.WatchDebounce = 20 * time.Millisecond
	s := newTestSite(t, cfg)

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- s.Watch(ctx, func(context.Context) { rebuilds.Add(1) })
	}()

	// Keep touching the file until the watcher has been set up and reacts.
	css := filepath.Join(cfg.SourceDir, "assets", "styles", "main.css")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(css, []byte("body { color: blue; }\n"), 0o644)
		return rebuilds.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
