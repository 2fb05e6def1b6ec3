package ofx

import (
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
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
<DTSERVER>20240315120000[0:GMT]
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
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParse_BankStatement(t *testing.T) {
	parser := NewParser()

	requests, err := parser.Parse(strings.NewReader(sampleBankOFX), 7)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	first := requests[0]
	assert.Equal(t, int64(7), first.AccountID)
	assert.True(t, first.Amount.Equal(decimal.NewFromFloat(-25.50)),
		"amount = %s, want -25.50", first.Amount)
	assert.Equal(t, "STARBUCKS STORE #1234", first.Description)
	assert.Equal(t, time.January, first.TransactionDate.Month())
	assert.Equal(t, 15, first.TransactionDate.Day())

	second := requests[1]
	assert.True(t, second.Amount.Equal(decimal.NewFromFloat(-125.00)))
	assert.Equal(t, "Whole Foods Market", second.Description)
}

func TestConvertTransaction_PreservesWideAmounts(t *testing.T) {
	parser := NewParser()

	// Wide enough that a float64 round trip would lose the cents.
	var amt ofxgo.Amount
	_, ok := amt.SetString("-123456789012345.67")
	require.True(t, ok)

	tx := ofxgo.Transaction{
		TrnAmt: amt,
		Name:   ofxgo.String("WIRE TRANSFER"),
	}

	req := parser.convertTransaction(tx, 3)
	assert.Equal(t, "-123456789012345.67", req.Amount.StringFixed(2))
	assert.Equal(t, int64(3), req.AccountID)
}

func TestParse_InvalidDocument(t *testing.T) {
	parser := NewParser()

	_, err := parser.Parse(strings.NewReader("not an ofx file"), 1)
	require.Error(t, err)
}

func TestPreprocessOFX(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mixed-case severity normalized",
			input: "<SEVERITY>Info</SEVERITY>",
			want:  "<SEVERITY>INFO</SEVERITY>",
		},
		{
			name:  "leading whitespace trimmed",
			input: "\n\n  OFXHEADER:100",
			want:  "OFXHEADER:100",
		},
		{
			name:  "missing closing bracket restored",
			input: "<TRNAMT",
			want:  "<TRNAMT>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.preprocessOFX(tt.input))
		})
	}
}
