package mocks

import (
	"fmt"
	"io"
	"sync"

	"github.com/iho/payengine/internal/domain"
)

// MockTransactionSource is a mock implementation of TransactionSource. By
// default it replays queued results in order and ends with io.EOF.
type MockTransactionSource struct {
	mu    sync.Mutex
	queue []sourceResult

	NextFunc func() (*domain.Transaction, error)
}

type sourceResult struct {
	tx  *domain.Transaction
	err error
}

func NewMockTransactionSource(txs ...*domain.Transaction) *MockTransactionSource {
	src := &MockTransactionSource{}
	for _, tx := range txs {
		src.Push(tx)
	}
	return src
}

// Push queues a transaction result.
func (m *MockTransactionSource) Push(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, sourceResult{tx: tx})
}

// PushError queues an error result.
func (m *MockTransactionSource) PushError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, sourceResult{err: err})
}

func (m *MockTransactionSource) Next() (*domain.Transaction, error) {
	if m.NextFunc != nil {
		return m.NextFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil, io.EOF
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next.tx, next.err
}

// MockSnapshotSink is a mock implementation of SnapshotSink. It records the
// accounts written to it in order.
type MockSnapshotSink struct {
	mu       sync.Mutex
	Accounts []*domain.Account
	Flushed  bool

	WriteFunc func(account *domain.Account) error
	FlushFunc func() error
}

func NewMockSnapshotSink() *MockSnapshotSink {
	return &MockSnapshotSink{}
}

func (m *MockSnapshotSink) Write(account *domain.Account) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts = append(m.Accounts, account)
	return nil
}

func (m *MockSnapshotSink) Flush() error {
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed = true
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}
