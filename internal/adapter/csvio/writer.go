package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
)

// snapshotHeader is the column layout of the snapshot output.
var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer encodes final account snapshots as CSV with amounts rendered at
// four decimal places.
type Writer struct {
	csv         *csv.Writer
	wroteHeader bool
}

// NewWriter wraps w in a snapshot encoder.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Write emits one account snapshot row, preceded by the header on the first
// call.
func (w *Writer) Write(account *domain.Account) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	return w.csv.Write([]string{
		strconv.FormatUint(uint64(account.ClientID), 10),
		account.Available.StringFixed(4),
		account.Held.StringFixed(4),
		account.Total.StringFixed(4),
		strconv.FormatBool(account.Locked),
	})
}

// Flush writes buffered rows to the underlying writer. An empty snapshot set
// still produces the header line.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.csv.Flush()

	return w.csv.Error()
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}

	w.wroteHeader = true

	return w.csv.Write(snapshotHeader)
}
