package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/model"
)

func seedRoom(t *testing.T, store *SQLiteStorage, name string) int64 {
	t.Helper()

	room := &model.Room{Name: name, Floor: "ground"}
	if err := store.CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
	return room.ID
}

func TestRenewHouseThing(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	roomID := seedRoom(t, store, "Kitchen")

	original := &model.HouseThing{
		RoomID:       roomID,
		Name:         "Dishwasher",
		Brand:        "Bosch",
		PurchaseDate: time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateHouseThing(ctx, original); err != nil {
		t.Fatalf("CreateHouseThing failed: %v", err)
	}

	replacement := &model.HouseThing{
		Name:         "Dishwasher",
		Brand:        "Miele",
		PurchaseDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.RenewHouseThing(ctx, original.ID, replacement); err != nil {
		t.Fatalf("RenewHouseThing failed: %v", err)
	}

	// The chain's grouping key carries forward
	if replacement.HistoryID != original.HistoryID {
		t.Errorf("HistoryID = %s, want %s", replacement.HistoryID, original.HistoryID)
	}

	// The old row is retired, the new one active
	if _, err := store.GetHouseThingByID(ctx, original.ID); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("old thing should be soft-deleted, got %v", err)
	}
	got, err := store.GetHouseThingByID(ctx, replacement.ID)
	if err != nil {
		t.Fatalf("GetHouseThingByID failed: %v", err)
	}
	if got.Brand != "Miele" {
		t.Errorf("Brand = %q, want Miele", got.Brand)
	}
	if got.RoomID != roomID {
		t.Errorf("replacement should inherit the room, got %d", got.RoomID)
	}

	// History lists both rows, oldest first, exactly one active
	history, err := store.ListHouseThingHistory(ctx, original.HistoryID)
	if err != nil {
		t.Fatalf("ListHouseThingHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	active := 0
	for _, thing := range history {
		if thing.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active rows in chain = %d, want 1", active)
	}
}

func TestRenewHouseThing_NotFound(t *testing.T) {
	store := newTestStorage(t)

	replacement := &model.HouseThing{Name: "Fridge"}
	err := store.RenewHouseThing(context.Background(), 9999, replacement)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenewHouseThing_SoftDeletedIsNotRenewable(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	roomID := seedRoom(t, store, "Bedroom")

	thing := &model.HouseThing{RoomID: roomID, Name: "Lamp"}
	if err := store.CreateHouseThing(ctx, thing); err != nil {
		t.Fatalf("CreateHouseThing failed: %v", err)
	}
	if err := store.SoftDeleteHouseThing(ctx, thing.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	err := store.RenewHouseThing(ctx, thing.ID, &model.HouseThing{Name: "Lamp"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for soft-deleted thing, got %v", err)
	}
}

func TestCreateHouseThing_AssignsHistoryID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	roomID := seedRoom(t, store, "Garage")

	thing := &model.HouseThing{RoomID: roomID, Name: "Drill"}
	if err := store.CreateHouseThing(ctx, thing); err != nil {
		t.Fatalf("CreateHouseThing failed: %v", err)
	}
	if thing.HistoryID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("create should assign a history id")
	}
}
