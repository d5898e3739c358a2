package domain

import "errors"

// Per-transaction failures. All of these are recoverable: the failed
// transaction is dropped with a warning and the rest of the stream continues
// unaffected. Balance-invariant violations are not part of this taxonomy;
// they signal a defect in the state machine itself and panic instead of
// returning.
var (
	ErrAccountLocked        = errors.New("account is locked")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAlreadyDisputed      = errors.New("transaction is already under dispute")
	ErrNotUnderDispute      = errors.New("transaction is not under dispute")
	ErrInvalidDisputeTarget = errors.New("withdrawal is not a valid dispute target")
)
