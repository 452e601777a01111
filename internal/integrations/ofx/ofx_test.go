package ofx

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashlane/advance-service/internal/models"
)

const sampleStatement = `<?xml version="1.0" encoding="UTF-8"?>
<OFX>
  <BANKMSGSRSV1>
    <STMTTRNRS>
      <STMTRS>
        <BANKTRANLIST>
          <DTSTART>20250301</DTSTART>
          <DTEND>20250331</DTEND>
          <STMTTRN>
            <TRNTYPE>CREDIT</TRNTYPE>
            <DTPOSTED>20250305120000</DTPOSTED>
            <TRNAMT>1500.00</TRNAMT>
            <FITID>A-1</FITID>
            <NAME>ACME PAYROLL</NAME>
            <MEMO>Direct deposit</MEMO>
          </STMTTRN>
          <STMTTRN>
            <TRNTYPE>DEBIT</TRNTYPE>
            <DTPOSTED>20250307</DTPOSTED>
            <TRNAMT>-42.15</TRNAMT>
            <FITID>A-2</FITID>
            <NAME>CORNER GROCERY</NAME>
          </STMTTRN>
        </BANKTRANLIST>
      </STMTRS>
    </STMTTRNRS>
  </BANKMSGSRSV1>
</OFX>`

func testParser() *Parser {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewParser(log)
}

func TestParseStatement(t *testing.T) {
	txs, err := testParser().ParseStatement([]byte(sampleStatement))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	deposit := txs[0]
	assert.Equal(t, "A-1", deposit.TransactionID)
	assert.Equal(t, "2025-03-05", deposit.Date)
	assert.Equal(t, models.TransactionCredit, deposit.Type)
	require.NotNil(t, deposit.AmountCents)
	assert.Equal(t, int64(150000), *deposit.AmountCents)
	assert.Equal(t, "ACME PAYROLL", deposit.Merchant)
	assert.Equal(t, "Direct deposit", deposit.Description)

	purchase := txs[1]
	assert.Equal(t, "2025-03-07", purchase.Date)
	assert.Equal(t, models.TransactionDebit, purchase.Type)
	require.NotNil(t, purchase.AmountCents)
	assert.Equal(t, int64(4215), *purchase.AmountCents)
}

func TestParseStatement_NoTransactions(t *testing.T) {
	_, err := testParser().ParseStatement([]byte(`<OFX><BANKMSGSRSV1></BANKMSGSRSV1></OFX>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transactions")
}

func TestParseStatement_NotXML(t *testing.T) {
	_, err := testParser().ParseStatement([]byte("definitely < not > xml <"))
	require.Error(t, err)
}

func TestParseStatement_MissingAmount(t *testing.T) {
	body := `<OFX><BANKTRANLIST><STMTTRN><FITID>X-9</FITID><DTPOSTED>20250301</DTPOSTED></STMTTRN></BANKTRANLIST></OFX>`

	_, err := testParser().ParseStatement([]byte(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "X-9")
}
