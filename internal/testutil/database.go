// Package testutil provides test helpers for houseledger: in-memory
// databases with migrations applied and common seed data.
package testutil

import (
	"context"
	"testing"

	"github.com/mstannard/houseledger/internal/model"
	"github.com/mstannard/houseledger/internal/storage"
)

// TestDB wraps an in-memory storage instance for tests.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations applied.
// Cleanup is registered automatically.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return &TestDB{Storage: store, t: t}
}

// MustCreateAccount seeds an account and returns its id.
func (db *TestDB) MustCreateAccount(name string) int64 {
	db.t.Helper()

	account := &model.Account{Name: name, CurrencyCode: "EUR"}
	if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account.ID
}

// MustCreateRoom seeds a room and returns its id.
func (db *TestDB) MustCreateRoom(name string) int64 {
	db.t.Helper()

	room := &model.Room{Name: name}
	if err := db.Storage.CreateRoom(context.Background(), room); err != nil {
		db.t.Fatalf("failed to seed room %q: %v", name, err)
	}
	return room.ID
}
