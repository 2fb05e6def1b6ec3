package model

import (
	"time"

	"github.com/google/uuid"
)

// Room is a location in the house things are tracked against.
type Room struct {
	Name  string `json:"name"`
	Floor string `json:"floor,omitempty"`
	ID    int64  `json:"id"`
	Audit
}

// HouseThing is a tracked household item (appliance, furniture, ...).
// HistoryID groups an item with its replacements: renewing a thing
// soft-deletes the old row and inserts a new one carrying the same
// HistoryID, so replacement chains stay queryable.
type HouseThing struct {
	PurchaseDate time.Time `json:"purchaseDate"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand,omitempty"`
	HistoryID    uuid.UUID `json:"historyId"`
	ID           int64     `json:"id"`
	RoomID       int64     `json:"roomId,omitempty"`
	Audit
}
