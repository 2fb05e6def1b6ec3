package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a bank account transactions are recorded against.
type Account struct {
	Name         string `json:"name"`
	Number       string `json:"number,omitempty"`
	CurrencyCode string `json:"currencyCode"`
	Description  string `json:"description,omitempty"`
	ID           int64  `json:"id"`
	BankID       int64  `json:"bankId,omitempty"`
	Audit
}

// Balance is a point-in-time snapshot of an account's balance.
type Balance struct {
	AsOfDate  time.Time       `json:"asOfDate"`
	Amount    decimal.Decimal `json:"amount"`
	ID        int64           `json:"id"`
	AccountID int64           `json:"accountId"`
	Audit
}

// Card is a payment card attached to an account.
type Card struct {
	ExpiryDate time.Time `json:"expiryDate"`
	Name       string    `json:"name"`
	ID         int64     `json:"id"`
	AccountID  int64     `json:"accountId"`
	Audit
}
