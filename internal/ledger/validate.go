package ledger

import (
	"time"
	"unicode/utf8"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/service"
)

const (
	maxDescriptionLen  = 500
	maxCategoryNameLen = 100
	maxNoteLen         = 1000

	// A transaction may be dated up to one day ahead, to absorb timezone
	// skew between the caller and the server.
	maxFutureOffset = 24 * time.Hour
)

// validate checks the request against the input contract, collecting one
// message per violated field. A nil return means the request is valid.
func validate(req service.CreateTransactionRequest, now time.Time) error {
	fields := make(map[string]string)

	if req.TransactionDate.IsZero() {
		fields["transactionDate"] = "transaction date is required"
	} else if req.TransactionDate.After(now.Add(maxFutureOffset)) {
		fields["transactionDate"] = "transaction date cannot be more than 1 day in the future"
	}

	if req.Amount.IsZero() {
		fields["amount"] = "amount must be non-zero"
	}

	if req.AccountID <= 0 {
		fields["accountId"] = "account id must be positive"
	}

	// Limits count characters, not bytes.
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		fields["description"] = "description must be 500 characters or fewer"
	}

	if utf8.RuneCountInString(req.CategoryName) > maxCategoryNameLen {
		fields["categoryName"] = "category name must be 100 characters or fewer"
	}

	if utf8.RuneCountInString(req.Note) > maxNoteLen {
		fields["note"] = "note must be 1000 characters or fewer"
	}

	if len(fields) == 0 {
		return nil
	}
	return common.NewValidationError(fields)
}
