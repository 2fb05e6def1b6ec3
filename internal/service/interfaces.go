// Package service defines the interfaces and request/response types shared
// between the HTTP layer, the transaction-creation pipeline, and storage.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/model"
)

// CreateTransactionRequest is the input contract for the transaction-creation
// pipeline. Category fields are optional; an absent CategoryName means the
// transaction is uncategorized.
type CreateTransactionRequest struct {
	TransactionDate     time.Time
	Description         string
	CategoryName        string
	Note                string
	Amount              decimal.Decimal
	AccountID           int64
	IsCategoryConfirmed bool
}

// CategoryView is the client-facing projection of a category value.
type CategoryView struct {
	Name        string `json:"name"`
	IsConfirmed bool   `json:"isConfirmed"`
}

// TransactionView is the enriched projection returned after creating or
// fetching a transaction. AccountName is looked up for caller convenience.
type TransactionView struct {
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedDate     time.Time       `json:"createdDate"`
	Category        *CategoryView   `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	Note            string          `json:"note,omitempty"`
	AccountName     string          `json:"accountName"`
	Amount          decimal.Decimal `json:"amount"`
	ID              int64           `json:"id"`
	AccountID       int64           `json:"accountId"`
}

// TransactionCreator is the single call the HTTP layer makes for the
// transaction-creation flow. It returns common.ValidationError,
// common.ErrAccountNotFound, or common.ErrDuplicateTransaction on the three
// business failure paths.
type TransactionCreator interface {
	Create(ctx context.Context, req CreateTransactionRequest) (*TransactionView, error)
}

// Storage defines the contract for our persistence layer. Every lookup
// returns active rows only; SoftDelete is idempotent and HardDelete is
// permanent.
type Storage interface {
	// Transaction operations
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	TransactionExistsByDedupKey(ctx context.Context, key string) (bool, error)
	SoftDeleteTransaction(ctx context.Context, id int64) error
	HardDeleteTransaction(ctx context.Context, id int64) error

	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error
	SoftDeleteAccount(ctx context.Context, id int64) error
	HardDeleteAccount(ctx context.Context, id int64) error
	AccountExists(ctx context.Context, id int64) (bool, error)
	GetAccountName(ctx context.Context, id int64) (string, error)

	// Balance operations
	CreateBalance(ctx context.Context, balance *model.Balance) error
	GetBalanceByID(ctx context.Context, id int64) (*model.Balance, error)
	ListBalances(ctx context.Context, accountID int64) ([]model.Balance, error)
	UpdateBalance(ctx context.Context, balance *model.Balance) error
	SoftDeleteBalance(ctx context.Context, id int64) error
	HardDeleteBalance(ctx context.Context, id int64) error

	// Card operations
	CreateCard(ctx context.Context, card *model.Card) error
	GetCardByID(ctx context.Context, id int64) (*model.Card, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	UpdateCard(ctx context.Context, card *model.Card) error
	SoftDeleteCard(ctx context.Context, id int64) error
	HardDeleteCard(ctx context.Context, id int64) error

	// Bank operations
	CreateBank(ctx context.Context, bank *model.Bank) error
	GetBankByID(ctx context.Context, id int64) (*model.Bank, error)
	ListBanks(ctx context.Context) ([]model.Bank, error)
	UpdateBank(ctx context.Context, bank *model.Bank) error
	SoftDeleteBank(ctx context.Context, id int64) error
	HardDeleteBank(ctx context.Context, id int64) error

	// Country operations
	CreateCountry(ctx context.Context, country *model.Country) error
	GetCountryByID(ctx context.Context, id int64) (*model.Country, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
	UpdateCountry(ctx context.Context, country *model.Country) error
	SoftDeleteCountry(ctx context.Context, id int64) error
	HardDeleteCountry(ctx context.Context, id int64) error

	// Currency operations
	CreateCurrency(ctx context.Context, currency *model.Currency) error
	GetCurrencyByID(ctx context.Context, id int64) (*model.Currency, error)
	ListCurrencies(ctx context.Context) ([]model.Currency, error)
	UpdateCurrency(ctx context.Context, currency *model.Currency) error
	SoftDeleteCurrency(ctx context.Context, id int64) error
	HardDeleteCurrency(ctx context.Context, id int64) error

	// Currency conversion rate operations
	CreateConversionRate(ctx context.Context, rate *model.CurrencyConversionRate) error
	GetConversionRateByID(ctx context.Context, id int64) (*model.CurrencyConversionRate, error)
	ListConversionRates(ctx context.Context) ([]model.CurrencyConversionRate, error)
	UpdateConversionRate(ctx context.Context, rate *model.CurrencyConversionRate) error
	SoftDeleteConversionRate(ctx context.Context, id int64) error
	HardDeleteConversionRate(ctx context.Context, id int64) error

	// Supplier operations
	CreateSupplier(ctx context.Context, supplier *model.Supplier) error
	GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *model.Supplier) error
	SoftDeleteSupplier(ctx context.Context, id int64) error
	HardDeleteSupplier(ctx context.Context, id int64) error

	// Service user operations
	CreateServiceUser(ctx context.Context, user *model.ServiceUser) error
	GetServiceUserByID(ctx context.Context, id int64) (*model.ServiceUser, error)
	ListServiceUsers(ctx context.Context) ([]model.ServiceUser, error)
	UpdateServiceUser(ctx context.Context, user *model.ServiceUser) error
	SoftDeleteServiceUser(ctx context.Context, id int64) error
	HardDeleteServiceUser(ctx context.Context, id int64) error

	// Room operations
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoomByID(ctx context.Context, id int64) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	UpdateRoom(ctx context.Context, room *model.Room) error
	SoftDeleteRoom(ctx context.Context, id int64) error
	HardDeleteRoom(ctx context.Context, id int64) error

	// House thing operations
	CreateHouseThing(ctx context.Context, thing *model.HouseThing) error
	GetHouseThingByID(ctx context.Context, id int64) (*model.HouseThing, error)
	ListHouseThings(ctx context.Context) ([]model.HouseThing, error)
	ListHouseThingHistory(ctx context.Context, historyID uuid.UUID) ([]model.HouseThing, error)
	UpdateHouseThing(ctx context.Context, thing *model.HouseThing) error
	RenewHouseThing(ctx context.Context, id int64, replacement *model.HouseThing) error
	SoftDeleteHouseThing(ctx context.Context, id int64) error
	HardDeleteHouseThing(ctx context.Context, id int64) error

	// Salary operations
	CreateSalary(ctx context.Context, salary *model.Salary) error
	GetSalaryByID(ctx context.Context, id int64) (*model.Salary, error)
	ListSalaries(ctx context.Context) ([]model.Salary, error)
	UpdateSalary(ctx context.Context, salary *model.Salary) error
	SoftDeleteSalary(ctx context.Context, id int64) error
	HardDeleteSalary(ctx context.Context, id int64) error

	// Maintenance
	PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
