package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcanvas/internal/catalog"
)

const poolCatalog = `
[[template]]
key = "POOL"
label = "MaxPool"
color = "#f6ad55"
radius = 35
`

func TestWatchCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte(poolCatalog), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	w := New(path, func(p string) { changed <- p }).WithDebounce(10 * time.Millisecond)
	go w.Watch(ctx)
	<-w.Ready()

	// Writes to other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte(poolCatalog), 0644))

	select {
	case p := <-changed:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, p)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatchCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte(poolCatalog), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loaded := make(chan *catalog.Catalog, 4)
	w := WatchCatalog(ctx, path, func(c *catalog.Catalog) { loaded <- c })
	<-w.Ready()

	// An invalid file is skipped
	require.NoError(t, os.WriteFile(path, []byte("[[template]]\nkey = \"\"\n"), 0644))
	time.Sleep(DefaultDebounce + 200*time.Millisecond)
	assert.Len(t, loaded, 0)

	require.NoError(t, os.WriteFile(path, []byte(poolCatalog), 0644))
	select {
	case c := <-loaded:
		_, ok := c.Lookup("POOL")
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
