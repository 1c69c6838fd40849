// Package model defines the core data types shared across the engine.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction type labels, assigned by the sign of the amount.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction represents a single statement line from any source.
// Instances are immutable once parsed; the engine annotates copies,
// never the originals.
type Transaction struct {
	Date        time.Time
	ID          string
	Hash        string // Content hash for duplicate detection
	Description string // Raw statement text
	MerchantKey string // Normalized merchant key, set by the resolver
	Brand       string // Canonical brand name when a lexicon rule matched
	Category    string // Brand category when a lexicon rule matched
	Currency    string
	Type        string
	AccountID   string
	Amount      float64 // Signed: debits negative, credits positive
}

// IsDebit reports whether the transaction is an outgoing charge.
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// AbsAmount returns the unsigned charge amount.
func (t *Transaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// GenerateHash creates a content hash for duplicate detection across imports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
