package model

import "time"

// Audit holds the bookkeeping fields shared by every persisted entity.
// CreatedDate and LastUpdatedDate are stamped by the storage layer on
// insert; LastUpdatedDate is refreshed on every mutation. IsActive drives
// soft deletion: queries only ever return active rows.
type Audit struct {
	CreatedDate     time.Time `json:"createdDate"`
	LastUpdatedDate time.Time `json:"lastUpdatedDate"`
	IsActive        bool      `json:"isActive"`
}

// StampCreate initializes the audit fields for a new row. Both timestamps
// are set to the same instant so callers can detect a never-updated row.
func (a *Audit) StampCreate(now time.Time) {
	a.CreatedDate = now
	a.LastUpdatedDate = now
	a.IsActive = true
}

// StampUpdate refreshes LastUpdatedDate, leaving CreatedDate untouched.
func (a *Audit) StampUpdate(now time.Time) {
	a.LastUpdatedDate = now
}
