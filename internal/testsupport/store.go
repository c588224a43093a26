package testsupport

import (
	"testing"

	"fieldlens/internal/config"
	"fieldlens/internal/portal"
)

// MustOpenStore opens a portal.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *portal.Store {
	t.Helper()

	store, err := portal.Open(cfg)
	if err != nil {
		t.Fatalf("portal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
