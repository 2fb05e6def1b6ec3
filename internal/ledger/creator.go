package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/model"
	"github.com/mstannard/houseledger/internal/service"
)

// Creator runs the transaction-creation pipeline. All three business
// failures (validation, unknown account, duplicate) short-circuit before any
// write; the single insert is the only side effect.
type Creator struct {
	store Storage
	now   func() time.Time
}

// New creates a transaction creator backed by the given storage.
func New(store Storage) *Creator {
	return &Creator{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewWithClock creates a creator with an injected clock. Tests use this to
// pin "now" for the future-date boundary.
func NewWithClock(store Storage, now func() time.Time) *Creator {
	return &Creator{store: store, now: now}
}

// Create validates the request, rejects duplicates, persists the
// transaction, and returns a view enriched with the account name.
//
// Failure modes, all terminal and reported synchronously:
//   - *common.ValidationError for input-contract violations
//   - common.ErrAccountNotFound when the account id does not resolve
//   - common.ErrDuplicateTransaction when an active transaction with the
//     same dedup key exists
func (c *Creator) Create(ctx context.Context, req service.CreateTransactionRequest) (*service.TransactionView, error) {
	if err := validate(req, c.now()); err != nil {
		return nil, err
	}

	exists, err := c.store.AccountExists(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", common.ErrAccountNotFound, req.AccountID)
	}

	txn := &model.Transaction{
		Date:        req.TransactionDate,
		Amount:      req.Amount,
		Description: req.Description,
		Note:        req.Note,
		AccountID:   req.AccountID,
	}

	if strings.TrimSpace(req.CategoryName) != "" {
		category, catErr := model.NewCategory(req.CategoryName, req.IsCategoryConfirmed)
		if catErr != nil {
			return nil, catErr
		}
		txn.Category = &category
	}

	txn.DedupKey = txn.GenerateDedupKey()

	duplicate, err := c.store.TransactionExistsByDedupKey(ctx, txn.DedupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if duplicate {
		return nil, fmt.Errorf("%w: key %s", common.ErrDuplicateTransaction, txn.DedupKey)
	}

	if err := c.store.InsertTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to persist transaction: %w", err)
	}

	accountName, err := c.store.GetAccountName(ctx, txn.AccountID)
	if err != nil {
		// The row is already committed; degrade to an unenriched view
		// rather than failing the whole request.
		slog.Warn("failed to enrich transaction with account name",
			"transaction_id", txn.ID,
			"account_id", txn.AccountID,
			"error", err)
		accountName = ""
	}

	return newView(txn, accountName), nil
}

func newView(txn *model.Transaction, accountName string) *service.TransactionView {
	view := &service.TransactionView{
		ID:              txn.ID,
		TransactionDate: txn.Date,
		Amount:          txn.Amount,
		Description:     txn.Description,
		Note:            txn.Note,
		AccountID:       txn.AccountID,
		AccountName:     accountName,
		CreatedDate:     txn.CreatedDate,
	}
	if txn.Category != nil {
		view.Category = &service.CategoryView{
			Name:        txn.Category.Name(),
			IsConfirmed: txn.Category.IsConfirmed(),
		}
	}
	return view
}
