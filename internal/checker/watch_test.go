package checker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
)

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) record(_ context.Context, c Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *changeRecorder) snapshot() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

func startWatcher(t *testing.T, w *Watcher, rec *changeRecorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, rec.record) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_DebouncesPythonWrites(t *testing.T) {
	root := testutil.NewPythonProject(t, "")
	rec := &changeRecorder{}
	startWatcher(t, &Watcher{Roots: []string{root}, Debounce: 50 * time.Millisecond, Logger: testutil.NewTestLogger(t)}, rec)

	path := filepath.Join(root, "tests", "test_account.py")
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte("def test_ok():\n    pass\n"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("ignored"), 0o600))

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	changes := rec.snapshot()
	require.Len(t, changes, 1)
	assert.Equal(t, []string{path}, changes[0].Paths)
	assert.False(t, changes[0].Config)
}

func TestWatcher_ConfigChange(t *testing.T) {
	root := testutil.NewPythonProject(t, "preview: false\n")
	src := filepath.Join(root, "src")
	rec := &changeRecorder{}
	startWatcher(t, &Watcher{
		Roots:      []string{src},
		ConfigFile: filepath.Join(root, "leaplint.yaml"),
		Debounce:   30 * time.Millisecond,
	}, rec)

	require.NoError(t, os.WriteFile(filepath.Join(root, "leaplint.yaml"), []byte("preview: true\n"), 0o600))

	require.Eventually(t, func() bool {
		changes := rec.snapshot()
		return len(changes) > 0 && changes[0].Config
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := &Watcher{Roots: []string{filepath.Join(t.TempDir(), "missing")}}
	err := w.Run(context.Background(), (&changeRecorder{}).record)
	require.Error(t, err)
}
