package testsupport

import (
	"context"
	"testing"

	"overair/internal/config"
	"overair/internal/store"
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

// MustInsertChannel inserts a channel for tests and returns its id.
func MustInsertChannel(t testing.TB, st *store.Store, stationID, channelNumber string) int64 {
	t.Helper()

	id, inserted, err := st.InsertChannel(context.Background(), stationID, channelNumber)
	if err != nil {
		t.Fatalf("InsertChannel: %v", err)
	}
	if !inserted {
		t.Fatalf("channel %s/%s already present", stationID, channelNumber)
	}
	return id
}

// MustInsertProgram inserts a program for tests and returns its id.
func MustInsertProgram(t testing.TB, st *store.Store, remoteID, title string) int64 {
	t.Helper()

	id, inserted, err := st.InsertProgram(context.Background(), &store.Program{RemoteID: remoteID, Title: title})
	if err != nil {
		t.Fatalf("InsertProgram: %v", err)
	}
	if !inserted {
		t.Fatalf("program %s already present", remoteID)
	}
	return id
}
