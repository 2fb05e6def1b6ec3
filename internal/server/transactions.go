package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/model"
	"github.com/mstannard/houseledger/internal/service"
)

// createTransactionBody is the wire shape for POST /transactions.
type createTransactionBody struct {
	TransactionDate     time.Time       `json:"transactionDate"`
	Description         string          `json:"description"`
	CategoryName        string          `json:"categoryName"`
	Note                string          `json:"note"`
	Amount              decimal.Decimal `json:"amount"`
	AccountID           int64           `json:"accountId"`
	IsCategoryConfirmed bool            `json:"isCategoryConfirmed"`
}

func (b createTransactionBody) toRequest() service.CreateTransactionRequest {
	return service.CreateTransactionRequest{
		TransactionDate:     b.TransactionDate,
		Description:         b.Description,
		CategoryName:        b.CategoryName,
		Note:                b.Note,
		Amount:              b.Amount,
		AccountID:           b.AccountID,
		IsCategoryConfirmed: b.IsCategoryConfirmed,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body createTransactionBody
	if !decodeBody(w, r, &body) {
		return
	}

	view, err := s.creator.Create(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	txn, err := s.store.GetTransactionByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.transactionView(r, txn, map[int64]string{}))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	names := make(map[int64]string)
	views := make([]*service.TransactionView, 0, len(txns))
	for i := range txns {
		views = append(views, s.transactionView(r, &txns[i], names))
	}
	writeJSON(w, http.StatusOK, views)
}

// transactionView enriches a transaction with its account name, caching
// lookups in names so listing does one query per distinct account.
func (s *Server) transactionView(r *http.Request, txn *model.Transaction, names map[int64]string) *service.TransactionView {
	name, ok := names[txn.AccountID]
	if !ok {
		var err error
		name, err = s.store.GetAccountName(r.Context(), txn.AccountID)
		if err != nil {
			slog.Warn("failed to resolve account name",
				"account_id", txn.AccountID, "error", err)
			name = ""
		}
		names[txn.AccountID] = name
	}

	view := &service.TransactionView{
		ID:              txn.ID,
		TransactionDate: txn.Date,
		Amount:          txn.Amount,
		Description:     txn.Description,
		Note:            txn.Note,
		AccountID:       txn.AccountID,
		AccountName:     name,
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

// importSummary reports the outcome of an OFX import. Each statement
// transaction lands in exactly one bucket.
type importSummary struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// handleImportOFX reads an OFX/QFX document from the request body and feeds
// every statement transaction through the creation pipeline. Duplicates are
// expected on re-import and are counted, not failed.
func (s *Server) handleImportOFX(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(r.URL.Query().Get("accountId"), 10, 64)
	if err != nil || accountID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "accountId query parameter is required"})
		return
	}

	requests, err := s.parser.Parse(r.Body, accountID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var summary importSummary
	for _, req := range requests {
		_, err := s.creator.Create(r.Context(), req)
		switch {
		case err == nil:
			summary.Imported++
		case errors.Is(err, common.ErrDuplicateTransaction):
			summary.Duplicates++
		default:
			slog.Warn("failed to import transaction",
				"account_id", accountID,
				"date", req.TransactionDate,
				"error", err)
			summary.Failed++
		}
	}

	slog.Info("OFX import finished",
		"account_id", accountID,
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed)
	writeJSON(w, http.StatusOK, summary)
}
