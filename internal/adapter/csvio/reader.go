package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/usecase"
)

// Reader decodes transactions from CSV input shaped as
//
//	type, client, tx, amount
//
// with a header on the first line. Fields are trimmed, the amount column is
// optional for dispute, resolve and chargeback records, and columns past the
// fourth are ignored.
type Reader struct {
	csv        *csv.Reader
	headerRead bool
}

// NewReader wraps r in a transaction decoder.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	// Field counts vary per record kind, so disable the per-record count
	// check and validate field by field instead.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{csv: cr}
}

// Next decodes one record. It returns io.EOF at end of input and a
// *usecase.RecordError for any line, header included, that cannot be parsed
// or decoded, so the caller can skip it and keep reading.
func (r *Reader) Next() (*domain.Transaction, error) {
	if !r.headerRead {
		r.headerRead = true

		if _, err := r.csv.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}

			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &usecase.RecordError{Line: parseErr.Line, Err: err}
			}

			return nil, fmt.Errorf("reading header: %w", err)
		}
	}

	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return nil, &usecase.RecordError{Line: parseErr.Line, Err: err}
	}

	if err != nil {
		return nil, err
	}

	line, _ := r.csv.FieldPos(0)

	tx, err := decode(record)
	if err != nil {
		return nil, &usecase.RecordError{Line: line, Err: err}
	}

	return tx, nil
}

func decode(record []string) (*domain.Transaction, error) {
	if len(record) < 3 {
		return nil, fmt.Errorf("record has %d fields, want at least 3", len(record))
	}

	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}

	kind, err := domain.ParseTransactionKind(record[0])
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(record[1], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("client id %q: %w", record[1], err)
	}

	id, err := strconv.ParseUint(record[2], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("transaction id %q: %w", record[2], err)
	}

	tx := &domain.Transaction{
		Kind:     kind,
		ClientID: domain.ClientID(client),
		ID:       domain.TransactionID(id),
	}

	if len(record) > 3 && record[3] != "" {
		amount, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", record[3], err)
		}

		tx.Amount = decimal.NewNullDecimal(amount)
	}

	if tx.RequiresAmount() && !tx.Amount.Valid {
		return nil, fmt.Errorf("%s record without amount", tx.Kind)
	}

	return tx, nil
}
