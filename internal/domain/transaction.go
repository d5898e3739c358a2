package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a customer. It is the stable key into the ledger
// registry.
type ClientID uint16

// TransactionID identifies a transaction. IDs are globally unique across all
// clients, not scoped per client; disputes reference transactions by this id.
type TransactionID uint32

// TransactionKind enumerates the supported transaction types.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// ParseTransactionKind parses a textual kind token. Matching is
// case-insensitive.
func ParseTransactionKind(s string) (TransactionKind, error) {
	kind := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return kind, nil
	}

	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Transaction is one input event applied to an account. Deposits and
// withdrawals carry an amount and are retained in the owning account's
// history so that later disputes can reference them; dispute, resolve and
// chargeback records are transient and only reference an earlier transaction
// through their ID field.
type Transaction struct {
	Kind     TransactionKind
	ClientID ClientID
	ID       TransactionID
	Amount   decimal.NullDecimal

	// UnderDispute is set while a stored deposit is being contested. It is
	// only meaningful on history entries, never on incoming records.
	UnderDispute bool
}

// RequiresAmount reports whether this transaction kind must carry an amount.
// Only deposits and withdrawals move money directly; the other kinds
// reference a stored transaction and take their amount from it.
func (t *Transaction) RequiresAmount() bool {
	return t.Kind == KindDeposit || t.Kind == KindWithdrawal
}

// amount returns the transaction amount. The input boundary guarantees that
// deposits and withdrawals carry one, so a missing amount here is a defect in
// the caller, not bad input.
func (t *Transaction) amount() decimal.Decimal {
	if !t.Amount.Valid {
		panic(fmt.Sprintf("transaction %d has no amount", t.ID))
	}

	return t.Amount.Decimal
}
