package ledger

import (
	"context"
	"sync"

	"github.com/mstannard/houseledger/internal/model"
)

// MockStorage is a test double for the pipeline's storage contract. It
// records inserts and lets tests script account and dedup lookups.
type MockStorage struct {
	mu sync.Mutex

	Accounts     map[int64]string // id -> display name
	ExistingKeys map[string]bool

	Inserted  []model.Transaction
	InsertErr error
	LookupErr error

	nextID int64
}

// NewMockStorage creates an empty mock.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		Accounts:     make(map[int64]string),
		ExistingKeys: make(map[string]bool),
	}
}

// AccountExists reports whether the account was registered on the mock.
func (m *MockStorage) AccountExists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupErr != nil {
		return false, m.LookupErr
	}
	_, ok := m.Accounts[id]
	return ok, nil
}

// GetAccountName returns the registered display name.
func (m *MockStorage) GetAccountName(_ context.Context, id int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupErr != nil {
		return "", m.LookupErr
	}
	return m.Accounts[id], nil
}

// InsertTransaction records the transaction and marks its key as taken.
func (m *MockStorage) InsertTransaction(_ context.Context, txn *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.nextID++
	txn.ID = m.nextID
	m.Inserted = append(m.Inserted, *txn)
	m.ExistingKeys[txn.DedupKey] = true
	return nil
}

// TransactionExistsByDedupKey reports whether the key was scripted or
// previously inserted.
func (m *MockStorage) TransactionExistsByDedupKey(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupErr != nil {
		return false, m.LookupErr
	}
	return m.ExistingKeys[key], nil
}

// InsertCount returns the number of recorded inserts.
func (m *MockStorage) InsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inserted)
}
