package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

const testDebounce = 150 * time.Millisecond

type counter struct {
	n     atomic.Int32
	fired chan struct{}
}

func newCounter() *counter {
	return &counter{fired: make(chan struct{}, 16)}
}

func (c *counter) rebuild() {
	c.n.Add(1)
	c.fired <- struct{}{}
}

func (c *counter) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild did not run")
	}
}

func TestRebuildIsDebounced(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	c := newCounter()
	w, err := New([]string{dir}, testDebounce, c.rebuild, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	for _, name := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	c.wait(t)
	time.Sleep(3 * testDebounce)
	assert.EqualValues(t, 1, c.n.Load())
}

func TestNewDirectoriesAreWatched(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	c := newCounter()
	w, err := New([]string{dir}, testDebounce, c.rebuild, nil)
	require.NoError(t, err)
	defer w.Close()

	sub := filepath.Join(dir, "articles")
	require.NoError(t, os.Mkdir(sub, 0o755))
	c.wait(t)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.md"), []byte("# New"), 0o644))
	c.wait(t)
	assert.GreaterOrEqual(t, c.n.Load(), int32(2))
}

func TestCloseCancelsPendingRebuild(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	c := newCounter()
	w, err := New([]string{dir}, time.Second, c.rebuild, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Close())

	time.Sleep(1500 * time.Millisecond)
	assert.Zero(t, c.n.Load())
}

func TestRebuildsNeverOverlap(t *testing.T) {
	defer goleak.VerifyNone(t)

	var active, peak, runs atomic.Int32
	slow := func() {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(300 * time.Millisecond)
		runs.Add(1)
		active.Add(-1)
	}

	dir := t.TempDir()
	w, err := New([]string{dir}, 30*time.Millisecond, slow, nil)
	require.NoError(t, err)

	// Each write settles while the previous rebuild is still sleeping.
	for i := 0; i < 8; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte{byte('a' + i)}, 0o644))
		time.Sleep(100 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)
	require.NoError(t, w.Close())

	assert.EqualValues(t, 1, peak.Load())
	assert.Zero(t, active.Load(), "Close waits for the running rebuild")
}

func TestMissingRootsAreSkipped(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New([]string{filepath.Join(t.TempDir(), "missing")}, 0, func() {}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	require.NoError(t, w.Close())
}
