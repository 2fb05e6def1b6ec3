package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstannard/houseledger/internal/ledger"
	"github.com/mstannard/houseledger/internal/service"
	"github.com/mstannard/houseledger/internal/testutil"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *testutil.TestDB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}

	srv, err := New(cfg, db.Storage, ledger.New(db.Storage))
	require.NoError(t, err)
	return srv, db
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateTransaction_Success(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	accountID := db.MustCreateAccount("Checking")

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", map[string]any{
		"transactionDate":     time.Now().UTC().Format(time.RFC3339),
		"description":         "Groceries",
		"categoryName":        "Food",
		"isCategoryConfirmed": true,
		"amount":              "-42.50",
		"accountId":           accountID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view service.TransactionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.NotZero(t, view.ID)
	assert.Equal(t, "Checking", view.AccountName)
	assert.Equal(t, "-42.5", view.Amount.String())
	require.NotNil(t, view.Category)
	assert.Equal(t, "Food", view.Category.Name)
	assert.True(t, view.Category.IsConfirmed)
}

func TestCreateTransaction_CategoryRoundTripsThroughJSON(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	accountID := db.MustCreateAccount("Checking")

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", map[string]any{
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
		"categoryName":    "Groceries",
		"amount":          "-10.00",
		"accountId":       accountID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Contains(t, raw, "category")

	var category struct {
		Name        string `json:"name"`
		IsConfirmed bool   `json:"isConfirmed"`
	}
	require.NoError(t, json.Unmarshal(raw["category"], &category))
	assert.Equal(t, "Groceries", category.Name)
	assert.False(t, category.IsConfirmed)
}

func TestCreateTransaction_ValidationFields(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", map[string]any{
		"amount":    "0",
		"accountId": 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "amount")
	assert.Contains(t, resp.Fields, "accountId")
	assert.Contains(t, resp.Fields, "transactionDate")
}

func TestCreateTransaction_AccountNotFound(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", map[string]any{
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
		"amount":          "10.00",
		"accountId":       999,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "account not found")
}

func TestCreateTransaction_Duplicate(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	accountID := db.MustCreateAccount("Checking")

	body := map[string]any{
		"transactionDate": time.Now().UTC().Format(time.RFC3339),
		"amount":          "15.00",
		"accountId":       accountID,
	}
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate transaction")
}

func TestGetTransaction_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/transactions/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBankCRUD_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/banks", map[string]any{"name": "First National"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var bank struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bank))
	require.NotZero(t, bank.ID)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/banks/%d", bank.ID),
		map[string]any{"name": "First National Trust"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/banks/%d", bank.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "First National Trust")

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/banks/%d", bank.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/banks/%d", bank.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_PermanentBypassesSoftDelete(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/rooms", map[string]any{"name": "Kitchen"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var room struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &room))

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/rooms/%d?permanent=true", room.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/rooms/%d", room.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenewHouseThing_Endpoint(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	h := srv.Handler()
	roomID := db.MustCreateRoom("Living Room")

	rec := doJSON(t, h, http.MethodPost, "/api/v1/house-things", map[string]any{
		"name":         "Sofa",
		"roomId":       roomID,
		"purchaseDate": "2020-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var thing struct {
		ID        int64  `json:"id"`
		HistoryID string `json:"historyId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &thing))

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/house-things/%d/renew", thing.ID), map[string]any{
		"name":         "Sofa (new)",
		"purchaseDate": "2026-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var renewed struct {
		ID        int64  `json:"id"`
		HistoryID string `json:"historyId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renewed))
	assert.NotEqual(t, thing.ID, renewed.ID)
	assert.Equal(t, thing.HistoryID, renewed.HistoryID)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/house-things/history/"+thing.HistoryID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 2)

	// The original row is soft-deleted, so the direct lookup misses.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/house-things/%d", thing.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBalances_FilterByAccount(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	h := srv.Handler()
	first := db.MustCreateAccount("First")
	second := db.MustCreateAccount("Second")

	for _, accountID := range []int64{first, second} {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/balances", map[string]any{
			"asOfDate":  "2026-01-31T00:00:00Z",
			"amount":    "100.00",
			"accountId": accountID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/balances?accountId=%d", first), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balances []struct {
		AccountID int64 `json:"accountId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balances))
	require.Len(t, balances, 1)
	assert.Equal(t, first, balances[0].AccountID)
}

func TestAuth_RejectsMissingAndBadTokens(t *testing.T) {
	srv, _ := newTestServer(t, Config{AuthEnabled: true, AuthSecret: "test-secret"})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/v1/accounts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	srv, _ := newTestServer(t, Config{AuthEnabled: true, AuthSecret: "test-secret"})

	token, err := GenerateToken("admin", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_HealthzStaysOpen(t *testing.T) {
	srv, _ := newTestServer(t, Config{AuthEnabled: true, AuthSecret: "test-secret"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

const importFixture = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20260115120000
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>EUR
<BANKACCTFROM>
<BANKID>123456
<ACCTID>987654321
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20260101
<DTEND>20260115
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260110
<TRNAMT>-25.50
<FITID>001
<NAME>COFFEE SHOP
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20260112
<TRNAMT>-125.00
<FITID>002
<NAME>GROCERY STORE
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20260115
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestImportOFX_CountsBuckets(t *testing.T) {
	srv, db := newTestServer(t, Config{})
	h := srv.Handler()
	accountID := db.MustCreateAccount("Checking")

	importOnce := func() importSummary {
		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/transactions/import/ofx?accountId=%d", accountID),
			strings.NewReader(importFixture))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var summary importSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		return summary
	}

	first := importOnce()
	assert.Equal(t, importSummary{Imported: 2}, first)

	// Re-importing the same statement hits the dedup keys.
	second := importOnce()
	assert.Equal(t, importSummary{Duplicates: 2}, second)
}

func TestImportOFX_RequiresAccountID(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import/ofx",
		strings.NewReader(importFixture))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNew_RequiresSecretWhenAuthEnabled(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, err := New(Config{Addr: "127.0.0.1:0", AuthEnabled: true}, db.Storage, ledger.New(db.Storage))
	assert.Error(t, err)
}
