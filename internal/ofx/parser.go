// Package ofx parses OFX/QFX bank statements into create-transaction
// requests for the ledger pipeline.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/service"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX document and returns one create-transaction request
// per statement transaction, all targeting the given account.
func (p *Parser) Parse(reader io.Reader, accountID int64) ([]service.CreateTransactionRequest, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX document: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX document: %w", err)
	}

	var requests []service.CreateTransactionRequest
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			requests = append(requests, p.convertStatement(stmt.BankTranList, accountID)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			requests = append(requests, p.convertStatement(stmt.BankTranList, accountID)...)
		}
	}

	slog.Info("parsed OFX document",
		"transactions", len(requests),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return requests, nil
}

func (p *Parser) convertStatement(list *ofxgo.TransactionList, accountID int64) []service.CreateTransactionRequest {
	if list == nil {
		return nil
	}

	requests := make([]service.CreateTransactionRequest, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		requests = append(requests, p.convertTransaction(ofxTx, accountID))
	}
	return requests
}

func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID int64) service.CreateTransactionRequest {
	// OFX amounts are rationals; render them at two decimal places to match
	// the dedup key's precision, without a float round trip.
	amount, _ := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))

	description := p.extractDescription(ofxTx)

	return service.CreateTransactionRequest{
		TransactionDate: ofxTx.DtPosted.Time,
		Amount:          amount,
		Description:     description,
		AccountID:       accountID,
	}
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}
