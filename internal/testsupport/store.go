package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/ZentrixLabs/SrtExtractor-sub001/internal/batch"
)

// MustOpenBatchStore opens a batch.Store in a temp directory and registers
// cleanup.
func MustOpenBatchStore(t testing.TB) *batch.Store {
	t.Helper()

	store, err := batch.Open(filepath.Join(t.TempDir(), "batch.db"))
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
