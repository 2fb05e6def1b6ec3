package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salary is one month's pay record.
type Salary struct {
	Month        time.Time       `json:"month"` // first day of the month
	Employer     string          `json:"employer"`
	CurrencyCode string          `json:"currencyCode"`
	GrossAmount  decimal.Decimal `json:"grossAmount"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	ID           int64           `json:"id"`
	Audit
}
