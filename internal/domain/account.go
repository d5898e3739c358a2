package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account owns one client's balance state and transaction history. It is
// created on first sight of a client id, mutated only through Execute, and
// serialized once at the end of a run.
//
// Balances always satisfy Total == Available + Held; Execute verifies this
// after every successful mutation. Locked is monotonic: once set it is never
// cleared, and every further Execute call fails.
type Account struct {
	ClientID  ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	// history holds the account's deposits and withdrawals keyed by
	// transaction id. Only the owning account ever touches it.
	history map[TransactionID]*Transaction
}

// NewAccount creates an empty, unlocked account for the given client.
func NewAccount(clientID ClientID) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
		history:   make(map[TransactionID]*Transaction),
	}
}

// Execute applies one transaction to the account. On success balances,
// history and the lock flag reflect the transaction; on failure the account
// is left exactly as it was, because every check runs before the first
// mutation. Failures are terminal for that one transaction only and never
// retried.
func (a *Account) Execute(tx *Transaction) error {
	if a.Locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.ClientID)
	}

	var err error

	switch tx.Kind {
	case KindDeposit:
		err = a.deposit(tx)
	case KindWithdrawal:
		err = a.withdraw(tx)
	case KindDispute:
		err = a.dispute(tx.ID)
	case KindResolve:
		err = a.resolve(tx.ID)
	case KindChargeback:
		err = a.chargeback(tx.ID)
	default:
		panic(fmt.Sprintf("unknown transaction kind %q", tx.Kind))
	}

	if err != nil {
		return err
	}

	a.checkConsistency()

	return nil
}

// deposit credits the available balance and records the transaction. It
// cannot fail on an unlocked account.
func (a *Account) deposit(tx *Transaction) error {
	amount := tx.amount()

	a.Available = a.Available.Add(amount)
	a.Total = a.Total.Add(amount)
	a.history[tx.ID] = tx

	return nil
}

// withdraw debits the available balance and records the transaction. A
// withdrawal that would overdraw the account fails and is not stored.
func (a *Account) withdraw(tx *Transaction) error {
	amount := tx.amount()

	if a.Available.LessThan(amount) {
		return fmt.Errorf("%w: withdrawal of %s exceeds available %s",
			ErrInsufficientFunds, amount, a.Available)
	}

	a.Available = a.Available.Sub(amount)
	a.Total = a.Total.Sub(amount)
	a.history[tx.ID] = tx

	return nil
}

// dispute moves the referenced deposit's amount from available to held and
// marks the deposit as contested. Only stored deposits can be disputed, and
// only while enough of the funds are still available.
func (a *Account) dispute(id TransactionID) error {
	ref, ok := a.history[id]
	if !ok {
		return fmt.Errorf("%w: transaction %d for client %d",
			ErrTransactionNotFound, id, a.ClientID)
	}

	if ref.UnderDispute {
		return fmt.Errorf("%w: transaction %d", ErrAlreadyDisputed, id)
	}

	switch ref.Kind {
	case KindDeposit:
		amount := ref.amount()
		if a.Available.LessThan(amount) {
			return fmt.Errorf("%w: disputing %s exceeds available %s",
				ErrInsufficientFunds, amount, a.Available)
		}

		a.Available = a.Available.Sub(amount)
		a.Held = a.Held.Add(amount)
	case KindWithdrawal:
		return fmt.Errorf("%w: transaction %d", ErrInvalidDisputeTarget, id)
	default:
		panic(fmt.Sprintf("transaction %d: kind %q stored in history", id, ref.Kind))
	}

	ref.UnderDispute = true

	return nil
}

// resolve releases a disputed deposit: held funds return to available and
// the dispute flag clears, so the deposit can be disputed again later.
func (a *Account) resolve(id TransactionID) error {
	ref, ok := a.history[id]
	if !ok {
		return fmt.Errorf("%w: transaction %d for client %d",
			ErrTransactionNotFound, id, a.ClientID)
	}

	if !ref.UnderDispute {
		return fmt.Errorf("%w: transaction %d", ErrNotUnderDispute, id)
	}

	switch ref.Kind {
	case KindDeposit:
		amount := ref.amount()
		a.Available = a.Available.Add(amount)
		a.Held = a.Held.Sub(amount)
	case KindWithdrawal:
		// Withdrawals can never enter dispute, so this branch is
		// unreachable unless the history itself is corrupted.
		return fmt.Errorf("%w: transaction %d", ErrInvalidDisputeTarget, id)
	default:
		panic(fmt.Sprintf("transaction %d: kind %q stored in history", id, ref.Kind))
	}

	ref.UnderDispute = false

	return nil
}

// chargeback withdraws the disputed funds from the account entirely and
// freezes it. The referenced transaction keeps its dispute flag: the account
// never processes another transaction, so the flag never needs to clear.
func (a *Account) chargeback(id TransactionID) error {
	ref, ok := a.history[id]
	if !ok {
		return fmt.Errorf("%w: transaction %d for client %d",
			ErrTransactionNotFound, id, a.ClientID)
	}

	if !ref.UnderDispute {
		return fmt.Errorf("%w: transaction %d", ErrNotUnderDispute, id)
	}

	amount := ref.amount()

	a.Held = a.Held.Sub(amount)
	a.Total = a.Total.Sub(amount)
	a.Locked = true

	return nil
}

// checkConsistency asserts Total == Available + Held after a successful
// mutation. Decimal arithmetic is exact, so any mismatch is a defect in the
// handlers above rather than rounding, and processing must not continue
// past it.
func (a *Account) checkConsistency() {
	if !a.Total.Equal(a.Available.Add(a.Held)) {
		panic(fmt.Sprintf("account %d out of balance: total=%s available=%s held=%s",
			a.ClientID, a.Total, a.Available, a.Held))
	}
}
