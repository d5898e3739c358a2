package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// dec parses a decimal literal for test fixtures.
func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// deposit builds a deposit transaction carrying the given amount.
func deposit(client ClientID, id TransactionID, amount string) *Transaction {
	return &Transaction{
		Kind:     KindDeposit,
		ClientID: client,
		ID:       id,
		Amount:   decimal.NewNullDecimal(dec(amount)),
	}
}

// withdrawal builds a withdrawal transaction carrying the given amount.
func withdrawal(client ClientID, id TransactionID, amount string) *Transaction {
	return &Transaction{
		Kind:     KindWithdrawal,
		ClientID: client,
		ID:       id,
		Amount:   decimal.NewNullDecimal(dec(amount)),
	}
}

// reference builds an amount-less transaction pointing at an earlier
// transaction id.
func reference(kind TransactionKind, client ClientID, id TransactionID) *Transaction {
	return &Transaction{Kind: kind, ClientID: client, ID: id}
}

// apply executes transactions the test expects to succeed.
func apply(t *testing.T, acc *Account, txs ...*Transaction) {
	t.Helper()

	for _, tx := range txs {
		if err := acc.Execute(tx); err != nil {
			t.Fatalf("transaction %d: unexpected error: %v", tx.ID, err)
		}
	}
}

// checkBalances asserts all three balances and the lock flag.
func checkBalances(t *testing.T, acc *Account, available, held, total string, locked bool) {
	t.Helper()

	if !acc.Available.Equal(dec(available)) {
		t.Errorf("expected available %s, got %s", available, acc.Available)
	}

	if !acc.Held.Equal(dec(held)) {
		t.Errorf("expected held %s, got %s", held, acc.Held)
	}

	if !acc.Total.Equal(dec(total)) {
		t.Errorf("expected total %s, got %s", total, acc.Total)
	}

	if acc.Locked != locked {
		t.Errorf("expected locked %v, got %v", locked, acc.Locked)
	}
}

func TestAccount_DepositWithdrawFlow(t *testing.T) {
	acc := NewAccount(1)

	apply(t, acc, deposit(1, 1, "1.0"))
	checkBalances(t, acc, "1.0", "0", "1.0", false)

	apply(t, acc, deposit(1, 3, "2.0"))
	checkBalances(t, acc, "3.0", "0", "3.0", false)

	apply(t, acc, withdrawal(1, 4, "1.5"))
	checkBalances(t, acc, "1.5", "0", "1.5", false)
}

func TestAccount_WithdrawalInsufficientFunds(t *testing.T) {
	acc := NewAccount(2)
	apply(t, acc, deposit(2, 2, "2.0"))

	err := acc.Execute(withdrawal(2, 5, "3.0"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	checkBalances(t, acc, "2.0", "0", "2.0", false)
}

func TestAccount_NegativeAmountsApplyArithmetically(t *testing.T) {
	acc := NewAccount(1)

	// Signs pass through unchecked, so a negative deposit debits the
	// account and a negative withdrawal credits it.
	apply(t, acc, deposit(1, 1, "5.0"), deposit(1, 2, "-2.0"))
	checkBalances(t, acc, "3.0", "0", "3.0", false)

	apply(t, acc, withdrawal(1, 3, "-1.5"))
	checkBalances(t, acc, "4.5", "0", "4.5", false)
}

func TestAccount_Dispute(t *testing.T) {
	tests := []struct {
		name    string
		setup   []*Transaction
		dispute TransactionID
		wantErr error
	}{
		{
			name:    "unknown transaction",
			setup:   []*Transaction{deposit(1, 1, "1.0")},
			dispute: 99,
			wantErr: ErrTransactionNotFound,
		},
		{
			name:    "withdrawal is not disputable",
			setup:   []*Transaction{deposit(1, 1, "2.0"), withdrawal(1, 2, "1.0")},
			dispute: 2,
			wantErr: ErrInvalidDisputeTarget,
		},
		{
			name: "second dispute of the same transaction",
			setup: []*Transaction{
				deposit(1, 1, "1.0"),
				reference(KindDispute, 1, 1),
			},
			dispute: 1,
			wantErr: ErrAlreadyDisputed,
		},
		{
			name:    "disputed funds already withdrawn",
			setup:   []*Transaction{deposit(1, 1, "2.0"), withdrawal(1, 2, "1.5")},
			dispute: 1,
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			apply(t, acc, tt.setup...)

			available, held, total := acc.Available, acc.Held, acc.Total

			err := acc.Execute(reference(KindDispute, 1, tt.dispute))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// A failed dispute must not move any funds.
			checkBalances(t, acc, available.String(), held.String(), total.String(), false)
		})
	}
}

func TestAccount_DisputeHoldsFunds(t *testing.T) {
	acc := NewAccount(3)
	apply(t, acc, deposit(3, 6, "5.0"), deposit(3, 7, "1.017"))

	apply(t, acc, reference(KindDispute, 3, 7))
	checkBalances(t, acc, "5.0", "1.017", "6.017", false)
}

func TestAccount_DisputeIgnoresOwnAmount(t *testing.T) {
	acc := NewAccount(1)
	apply(t, acc, deposit(1, 1, "2.0"))

	dispute := reference(KindDispute, 1, 1)
	dispute.Amount = decimal.NewNullDecimal(dec("0.5"))
	apply(t, acc, dispute)

	// Held follows the referenced deposit, not the dispute record.
	checkBalances(t, acc, "0", "2.0", "2.0", false)
}

func TestAccount_DisputeResolveFlow(t *testing.T) {
	acc := NewAccount(3)
	apply(t, acc, deposit(3, 6, "5.0"), deposit(3, 7, "1.017"))

	apply(t, acc, reference(KindDispute, 3, 7))
	checkBalances(t, acc, "5.0", "1.017", "6.017", false)

	// Resolving returns the balances exactly to their pre-dispute values.
	apply(t, acc, reference(KindResolve, 3, 7))
	checkBalances(t, acc, "6.017", "0", "6.017", false)

	// Resolve cleared the flag, so the chargeback no longer applies.
	err := acc.Execute(reference(KindChargeback, 3, 7))
	if !errors.Is(err, ErrNotUnderDispute) {
		t.Fatalf("expected ErrNotUnderDispute, got %v", err)
	}

	// The same transaction can be disputed again after a resolve.
	apply(t, acc, reference(KindDispute, 3, 7))
	checkBalances(t, acc, "5.0", "1.017", "6.017", false)
}

func TestAccount_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		setup   []*Transaction
		resolve TransactionID
		wantErr error
	}{
		{
			name:    "unknown transaction",
			setup:   []*Transaction{deposit(1, 1, "1.0")},
			resolve: 99,
			wantErr: ErrTransactionNotFound,
		},
		{
			name:    "transaction not under dispute",
			setup:   []*Transaction{deposit(1, 1, "1.0")},
			resolve: 1,
			wantErr: ErrNotUnderDispute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			apply(t, acc, tt.setup...)

			err := acc.Execute(reference(KindResolve, 1, tt.resolve))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccount_Chargeback(t *testing.T) {
	tests := []struct {
		name       string
		setup      []*Transaction
		chargeback TransactionID
		wantErr    error
	}{
		{
			name:       "unknown transaction",
			setup:      []*Transaction{deposit(1, 1, "1.0")},
			chargeback: 99,
			wantErr:    ErrTransactionNotFound,
		},
		{
			name:       "transaction not under dispute",
			setup:      []*Transaction{deposit(1, 1, "1.0")},
			chargeback: 1,
			wantErr:    ErrNotUnderDispute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1)
			apply(t, acc, tt.setup...)

			err := acc.Execute(reference(KindChargeback, 1, tt.chargeback))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if acc.Locked {
				t.Error("failed chargeback must not lock the account")
			}
		})
	}
}

func TestAccount_ChargebackFlow(t *testing.T) {
	acc := NewAccount(4)
	apply(t, acc, deposit(4, 8, "3.0"), deposit(4, 9, "4.0"))

	apply(t, acc, reference(KindDispute, 4, 8))
	checkBalances(t, acc, "4.0", "3.0", "7.0", false)

	apply(t, acc, reference(KindChargeback, 4, 8))
	checkBalances(t, acc, "4.0", "0", "4.0", true)

	// The charged back transaction keeps its dispute flag.
	if !acc.history[8].UnderDispute {
		t.Error("expected charged back transaction to stay flagged")
	}

	// Every kind of transaction bounces off the locked account.
	rejected := []*Transaction{
		deposit(4, 10, "1.0"),
		withdrawal(4, 11, "1.0"),
		reference(KindDispute, 4, 9),
		reference(KindResolve, 4, 8),
		reference(KindChargeback, 4, 8),
	}

	for _, tx := range rejected {
		if err := acc.Execute(tx); !errors.Is(err, ErrAccountLocked) {
			t.Errorf("%s: expected ErrAccountLocked, got %v", tx.Kind, err)
		}
	}

	checkBalances(t, acc, "4.0", "0", "4.0", true)
}

func TestAccount_UnknownKindPanics(t *testing.T) {
	acc := NewAccount(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown transaction kind")
		}
	}()

	_ = acc.Execute(&Transaction{Kind: TransactionKind("transfer"), ClientID: 1, ID: 1})
}

func TestAccount_InconsistentBalancesPanic(t *testing.T) {
	acc := NewAccount(1)
	apply(t, acc, deposit(1, 1, "1.0"))

	// Corrupt the books behind Execute's back; the next successful
	// transaction must trip the consistency check.
	acc.Total = dec("5.0")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on inconsistent balances")
		}
	}()

	_ = acc.Execute(deposit(1, 2, "1.0"))
}
