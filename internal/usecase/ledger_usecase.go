package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// LedgerUseCase drives transaction processing. It owns the account registry,
// routes each transaction to the account of the client named in the record
// and reports outcomes through logs, metrics and events.
//
// It is not safe for concurrent use. Transactions are applied strictly in
// input order by a single caller, so accounts never need locking.
type LedgerUseCase struct {
	accounts  map[domain.ClientID]*domain.Account
	logger    zerolog.Logger
	idGen     IDGenerator
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. The publisher and metrics may
// be nil, in which case the corresponding reporting is skipped.
func NewLedgerUseCase(
	logger zerolog.Logger,
	idGen IDGenerator,
	publisher EventPublisher,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		accounts:  make(map[domain.ClientID]*domain.Account),
		logger:    logger,
		idGen:     idGen,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Stats summarizes one processing run.
type Stats struct {
	// Processed counts decoded transactions handed to an account.
	Processed int
	// Applied counts transactions that mutated an account.
	Applied int
	// Rejected counts transactions an account refused.
	Rejected int
	// Malformed counts input records that never became a transaction.
	Malformed int
	// Accounts counts distinct clients seen.
	Accounts int
}

// ProcessStream drains the source and applies every transaction it yields.
// Malformed records and rejected transactions are logged and skipped; only a
// failure of the source itself aborts the run. The returned stats cover
// everything processed up to that point.
func (uc *LedgerUseCase) ProcessStream(ctx context.Context, src TransactionSource) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	for {
		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		var recErr *RecordError
		if errors.As(err, &recErr) {
			stats.Malformed++

			if uc.metrics != nil {
				uc.metrics.MalformedRecords.Inc()
			}

			uc.logger.Warn().Err(recErr.Err).
				Int("line", recErr.Line).
				Msg("skipping malformed record")

			continue
		}

		if err != nil {
			stats.Accounts = len(uc.accounts)
			return stats, fmt.Errorf("reading transactions: %w", err)
		}

		stats.Processed++

		if err := uc.Execute(ctx, tx); err != nil {
			stats.Rejected++

			uc.logger.Warn().Err(err).
				Str("kind", string(tx.Kind)).
				Uint16("client", uint16(tx.ClientID)).
				Uint32("tx", uint32(tx.ID)).
				Msg("transaction failed")

			continue
		}

		stats.Applied++
	}

	stats.Accounts = len(uc.accounts)

	if uc.metrics != nil {
		uc.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Int("processed", stats.Processed).
		Int("applied", stats.Applied).
		Int("rejected", stats.Rejected).
		Int("malformed", stats.Malformed).
		Int("accounts", stats.Accounts).
		Msg("run completed")

	return stats, nil
}

// Execute routes one transaction to the owning account and applies it. A
// returned error is one of the domain rejection errors; the caller decides
// whether to skip or abort.
func (uc *LedgerUseCase) Execute(ctx context.Context, tx *domain.Transaction) error {
	account := uc.Account(tx.ClientID)

	if uc.metrics != nil {
		uc.metrics.TransactionsProcessed.WithLabelValues(string(tx.Kind)).Inc()
	}

	if err := account.Execute(tx); err != nil {
		if uc.metrics != nil {
			uc.metrics.TransactionsRejected.Inc()
		}

		uc.emit(ctx, domain.EventTypeTransactionRejected, tx, &domain.TransactionRejectedEvent{
			Kind:   string(tx.Kind),
			Reason: err.Error(),
		})

		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsApplied.Inc()
	}

	applied := &domain.TransactionAppliedEvent{Kind: string(tx.Kind)}
	if tx.Amount.Valid {
		applied.Amount = tx.Amount.Decimal.String()
	}

	uc.emit(ctx, domain.EventTypeTransactionApplied, tx, applied)

	// Only a successful chargeback can leave the account locked here.
	if account.Locked {
		if uc.metrics != nil {
			uc.metrics.AccountsLocked.Inc()
		}

		uc.emit(ctx, domain.EventTypeAccountLocked, tx, &domain.AccountLockedEvent{
			Available: account.Available.String(),
			Held:      account.Held.String(),
			Total:     account.Total.String(),
		})
	}

	return nil
}

// Account returns the account for the given client, creating an empty one on
// first sight.
func (uc *LedgerUseCase) Account(clientID domain.ClientID) *domain.Account {
	if account, ok := uc.accounts[clientID]; ok {
		return account
	}

	account := domain.NewAccount(clientID)
	uc.accounts[clientID] = account

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account
}

// Snapshots returns every account ordered by ascending client id.
func (uc *LedgerUseCase) Snapshots() []*domain.Account {
	accounts := make([]*domain.Account, 0, len(uc.accounts))
	for _, account := range uc.accounts {
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ClientID < accounts[j].ClientID
	})

	return accounts
}

// WriteSnapshots writes every account to the sink in ascending client id
// order and flushes it.
func (uc *LedgerUseCase) WriteSnapshots(sink SnapshotSink) error {
	for _, account := range uc.Snapshots() {
		if err := sink.Write(account); err != nil {
			return fmt.Errorf("writing snapshot for client %d: %w", account.ClientID, err)
		}
	}

	return sink.Flush()
}

// emit publishes one event when a publisher is configured. Delivery is best
// effort: a publish failure is logged and never fails the transaction that
// produced the event.
func (uc *LedgerUseCase) emit(ctx context.Context, eventType string, tx *domain.Transaction, payload any) {
	if uc.publisher == nil {
		return
	}

	event := &domain.Event{
		ID:            uc.idGen.Generate(),
		Type:          eventType,
		ClientID:      tx.ClientID,
		TransactionID: tx.ID,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(ctx, DefaultPublishTimeout)
	defer cancel()

	if err := uc.publisher.Publish(pubCtx, event); err != nil {
		if uc.metrics != nil {
			uc.metrics.EventErrors.Inc()
		}

		uc.logger.Warn().Err(err).
			Str("type", eventType).
			Msg("event publish failed")

		return
	}

	if uc.metrics != nil {
		uc.metrics.EventsPublished.Inc()
	}
}
