package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single financial transaction against an account.
type Transaction struct {
	Date        time.Time
	Category    *Category // nil means uncategorized
	Description string
	Note        string
	DedupKey    string
	Amount      decimal.Decimal
	ID          int64
	AccountID   int64
	Audit
}

// GenerateDedupKey derives the fingerprint used for duplicate detection:
// same account, same calendar day, same absolute amount. Sign and
// description are deliberately ignored, so a refund collides with the
// charge it reverses.
func (t *Transaction) GenerateDedupKey() string {
	return fmt.Sprintf("%d_%s_%s",
		t.AccountID,
		t.Date.Format("20060102"),
		t.Amount.Abs().StringFixed(2))
}
