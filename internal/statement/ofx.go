package statement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/subscout/subscout/internal/model"
)

// OFXParser reads OFX/QFX exports. Bank and credit-card statements both
// map to Transaction records with OFX's sign convention preserved: debits
// negative, credits positive.
type OFXParser struct{}

// NewOFXParser creates a new OFX parser.
func NewOFXParser() *OFXParser {
	return &OFXParser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *OFXParser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR).
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing angle bracket on a tag
	// that ends the line.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into transactions, deduplicated by
// content hash within the file.
func (p *OFXParser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	seen := make(map[string]struct{})
	var bankStmts, ccStmts int

	appendTxns := func(list *ofxgo.TransactionList, accountID string) {
		if list == nil {
			return
		}
		for _, ofxTx := range list.Transactions {
			tx := p.convertTransaction(ofxTx, accountID)
			if _, dup := seen[tx.Hash]; dup {
				continue
			}
			seen[tx.Hash] = struct{}{}
			transactions = append(transactions, tx)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			appendTxns(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			appendTxns(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))
		}
	}

	slog.Info("parsed OFX file",
		"transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction maps an OFX transaction to the engine's model.
func (p *OFXParser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txType := model.TypeCredit
	if amount < 0 {
		txType = model.TypeDebit
	}

	tx := model.Transaction{
		ID:          string(ofxTx.FiTID),
		Date:        ofxTx.DtPosted.Time,
		Description: p.extractDescription(ofxTx),
		Amount:      amount,
		Currency:    "USD",
		Type:        txType,
		AccountID:   accountID,
	}
	tx.Hash = tx.GenerateHash()
	return tx
}

// extractDescription picks the most informative text field from OFX data.
func (p *OFXParser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic to be a
// useful merchant description.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT", "CREDIT", "PURCHASE", "PAYMENT",
		"POS TRANSACTION", "CARD PURCHASE",
	}
	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
