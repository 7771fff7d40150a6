package testsupport

import (
	"context"
	"testing"

	"salita/internal/config"
	"salita/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewUser registers a learner for tests using the provided store.
func NewUser(t testing.TB, st *store.Store, name string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), name, "")
	if err != nil {
		t.Fatalf("store.CreateUser: %v", err)
	}
	return user
}
