package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bank is a financial institution accounts belong to.
type Bank struct {
	Name      string `json:"name"`
	ID        int64  `json:"id"`
	CountryID int64  `json:"countryId,omitempty"`
	Audit
}

// Country is reference data for banks and suppliers.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"` // ISO 3166-1 alpha-2
	ID   int64  `json:"id"`
	Audit
}

// Currency is reference data for accounts and salaries.
type Currency struct {
	Code   string `json:"code"` // ISO 4217
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
	ID     int64  `json:"id"`
	Audit
}

// CurrencyConversionRate is an exchange rate between two currencies on a date.
type CurrencyConversionRate struct {
	RateDate time.Time       `json:"rateDate"`
	FromCode string          `json:"fromCode"`
	ToCode   string          `json:"toCode"`
	Rate     decimal.Decimal `json:"rate"`
	ID       int64           `json:"id"`
	Audit
}

// Supplier is a company providing a household service.
type Supplier struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	ID      int64  `json:"id"`
	Audit
}

// ServiceUser is a household subscription or contract with a supplier.
type ServiceUser struct {
	Name       string `json:"name"`
	Reference  string `json:"reference,omitempty"` // supplier-side customer/contract reference
	ID         int64  `json:"id"`
	SupplierID int64  `json:"supplierId"`
	Audit
}
