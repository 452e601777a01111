package ofx

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/models"
)

// Parser converts OFX (XML) bank statements into raw ledger records for the
// risk engine's normalizer.
type Parser struct {
	log *logrus.Logger
}

// NewParser initializes a new statement parser
func NewParser(log *logrus.Logger) *Parser {
	return &Parser{log: log}
}

// ParseStatement extracts the transaction list from an OFX statement body.
// Amounts are dollar decimals in OFX; they are converted to cents with the
// sign deciding debit vs credit.
func (p *Parser) ParseStatement(body []byte) ([]models.RawTransaction, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse OFX: %w", err)
	}

	stmts := doc.FindElements("//BANKTRANLIST/STMTTRN")
	if len(stmts) == 0 {
		return nil, fmt.Errorf("no transactions found in OFX statement")
	}

	txs := make([]models.RawTransaction, 0, len(stmts))
	for _, el := range stmts {
		tx, err := p.parseTransaction(el)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	p.log.Infof("Parsed OFX statement: %d transactions", len(txs))
	return txs, nil
}

func (p *Parser) parseTransaction(el *etree.Element) (models.RawTransaction, error) {
	fitID := childText(el, "FITID")

	amtText := childText(el, "TRNAMT")
	if amtText == "" {
		return models.RawTransaction{}, fmt.Errorf("transaction %s: missing TRNAMT", fitID)
	}
	amt, err := strconv.ParseFloat(amtText, 64)
	if err != nil {
		return models.RawTransaction{}, fmt.Errorf("transaction %s: bad TRNAMT %q: %w", fitID, amtText, err)
	}

	dateText := childText(el, "DTPOSTED")
	if len(dateText) < 8 {
		return models.RawTransaction{}, fmt.Errorf("transaction %s: bad DTPOSTED %q", fitID, dateText)
	}
	// DTPOSTED is YYYYMMDD with an optional time suffix.
	date := fmt.Sprintf("%s-%s-%s", dateText[0:4], dateText[4:6], dateText[6:8])

	typ := models.TransactionDebit
	if amt > 0 {
		typ = models.TransactionCredit
	}
	cents := int64(math.Round(math.Abs(amt) * 100))

	return models.RawTransaction{
		TransactionID: fitID,
		Date:          date,
		Type:          typ,
		AmountCents:   &cents,
		Description:   childText(el, "MEMO"),
		Merchant:      childText(el, "NAME"),
	}, nil
}

func childText(el *etree.Element, tag string) string {
	child := el.FindElement("./" + tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
