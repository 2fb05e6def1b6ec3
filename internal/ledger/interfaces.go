// Package ledger implements the transaction-creation pipeline: validation,
// account resolution, duplicate detection, persistence, and enrichment.
package ledger

import (
	"context"

	"github.com/mstannard/houseledger/internal/model"
)

// Storage is the narrow persistence contract the pipeline consumes.
// *storage.SQLiteStorage satisfies it.
type Storage interface {
	AccountExists(ctx context.Context, id int64) (bool, error)
	GetAccountName(ctx context.Context, id int64) (string, error)
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	TransactionExistsByDedupKey(ctx context.Context, key string) (bool, error)
}
