package usecase

import (
	"context"
	"fmt"

	"github.com/iho/payengine/internal/domain"
)

// TransactionSource yields transaction records in input order.
type TransactionSource interface {
	// Next returns the next transaction, or io.EOF once the input is
	// exhausted. A *RecordError marks a single undecodable record; the
	// source stays usable and the caller may continue with the record
	// after it. Any other error means the input itself failed.
	Next() (*domain.Transaction, error)
}

// SnapshotSink receives final account snapshots.
type SnapshotSink interface {
	Write(account *domain.Account) error
	Flush() error
}

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// RecordError reports one input record that could not be decoded into a
// transaction. It carries the record's line number in the input.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record on line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
