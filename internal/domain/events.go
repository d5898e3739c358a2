package domain

import "time"

// Event types
const (
	EventTypeTransactionApplied  = "transaction.applied"
	EventTypeTransactionRejected = "transaction.rejected"
	EventTypeAccountLocked       = "account.locked"
)

// Event describes one ledger occurrence for downstream consumers. Events are
// advisory: the state machine never depends on their delivery.
type Event struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	ClientID      ClientID      `json:"client"`
	TransactionID TransactionID `json:"tx"`
	Payload       any           `json:"payload,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// TransactionAppliedEvent payload
type TransactionAppliedEvent struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount,omitempty"`
}

// TransactionRejectedEvent payload
type TransactionRejectedEvent struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// AccountLockedEvent payload
type AccountLockedEvent struct {
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
}
