package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/service"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestCreator(t *testing.T) (*Creator, *MockStorage) {
	t.Helper()

	store := NewMockStorage()
	store.Accounts[1] = "Checking"
	creator := NewWithClock(store, func() time.Time { return testNow })
	return creator, store
}

func validRequest() service.CreateTransactionRequest {
	return service.CreateTransactionRequest{
		TransactionDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromFloat(100),
		AccountID:       1,
	}
}

func TestCreate_Success(t *testing.T) {
	creator, store := newTestCreator(t)

	req := validRequest()
	req.Description = "SUPERMARKET"

	view, err := creator.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, view)

	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, "Checking", view.AccountName)
	assert.Equal(t, "SUPERMARKET", view.Description)
	assert.Nil(t, view.Category)
	assert.Equal(t, 1, store.InsertCount())
}

func TestCreate_ZeroAmountRejected(t *testing.T) {
	creator, store := newTestCreator(t)

	req := validRequest()
	req.Amount = decimal.Zero

	_, err := creator.Create(context.Background(), req)

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "amount")
	assert.Equal(t, 0, store.InsertCount(), "validation failure must not insert")
}

func TestCreate_FutureDateBoundary(t *testing.T) {
	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{name: "exactly one day ahead accepted", date: testNow.Add(24 * time.Hour)},
		{name: "just past one day rejected", date: testNow.Add(24*time.Hour + time.Minute), wantErr: true},
		{name: "past date accepted", date: testNow.AddDate(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator, _ := newTestCreator(t)

			req := validRequest()
			req.TransactionDate = tt.date

			_, err := creator.Create(context.Background(), req)
			if tt.wantErr {
				var validationErr *common.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields, "transactionDate")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreate_ValidationCollectsAllViolations(t *testing.T) {
	creator, _ := newTestCreator(t)

	req := service.CreateTransactionRequest{
		Amount:       decimal.Zero,
		AccountID:    0,
		Description:  string(make([]byte, 501)),
		CategoryName: string(make([]byte, 101)),
		Note:         string(make([]byte, 1001)),
	}

	_, err := creator.Create(context.Background(), req)

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	for _, field := range []string{"transactionDate", "amount", "accountId", "description", "categoryName", "note"} {
		assert.Contains(t, validationErr.Fields, field)
	}
}

func TestCreate_LengthLimitsCountCharacters(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{name: "500 multi-byte characters accepted", description: strings.Repeat("é", 500)},
		{name: "501 multi-byte characters rejected", description: strings.Repeat("é", 501), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator, _ := newTestCreator(t)

			req := validRequest()
			req.Description = tt.description

			_, err := creator.Create(context.Background(), req)
			if tt.wantErr {
				var validationErr *common.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields, "description")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreate_AccountNotFound(t *testing.T) {
	creator, store := newTestCreator(t)

	req := validRequest()
	req.AccountID = 42

	_, err := creator.Create(context.Background(), req)
	require.ErrorIs(t, err, common.ErrAccountNotFound)
	assert.Equal(t, 0, store.InsertCount(), "unknown account must not insert")
}

func TestCreate_DuplicateRejected(t *testing.T) {
	creator, store := newTestCreator(t)
	ctx := context.Background()

	req := validRequest()

	_, err := creator.Create(ctx, req)
	require.NoError(t, err)

	// Same account, day, and amount collides; description differs
	req.Description = "something else"
	_, err = creator.Create(ctx, req)
	require.ErrorIs(t, err, common.ErrDuplicateTransaction)
	assert.Equal(t, 1, store.InsertCount())
}

func TestCreate_DuplicateIgnoresSign(t *testing.T) {
	creator, _ := newTestCreator(t)
	ctx := context.Background()

	req := validRequest()
	req.Amount = decimal.NewFromFloat(-42)
	_, err := creator.Create(ctx, req)
	require.NoError(t, err)

	req.Amount = decimal.NewFromFloat(42)
	_, err = creator.Create(ctx, req)
	require.ErrorIs(t, err, common.ErrDuplicateTransaction)
}

func TestCreate_CategoryAttachment(t *testing.T) {
	creator, store := newTestCreator(t)

	req := validRequest()
	req.CategoryName = "  Groceries  "
	req.IsCategoryConfirmed = true

	view, err := creator.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, view.Category)

	assert.Equal(t, "Groceries", view.Category.Name, "category name should be trimmed")
	assert.True(t, view.Category.IsConfirmed)

	require.Len(t, store.Inserted, 1)
	require.NotNil(t, store.Inserted[0].Category)
	assert.Equal(t, "Groceries", store.Inserted[0].Category.Name())
}

func TestCreate_NoCategoryMeansNil(t *testing.T) {
	creator, store := newTestCreator(t)

	view, err := creator.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, view.Category)
	require.Len(t, store.Inserted, 1)
	assert.Nil(t, store.Inserted[0].Category)
}

func TestCreate_WhitespaceCategoryTreatedAsAbsent(t *testing.T) {
	creator, _ := newTestCreator(t)

	req := validRequest()
	req.CategoryName = "   "

	view, err := creator.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, view.Category)
}

func TestCreate_StorageFailureSurfaces(t *testing.T) {
	creator, store := newTestCreator(t)
	store.InsertErr = errors.New("disk full")

	_, err := creator.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDuplicateTransaction)
}
