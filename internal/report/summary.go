// Package report renders human readable run summaries for operators.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/usecase"
)

// Summary renders run statistics and final balances as text tables. It
// writes to its own writer so the CSV snapshot on stdout stays clean.
type Summary struct {
	out io.Writer
}

// NewSummary creates a Summary writing to out.
func NewSummary(out io.Writer) *Summary {
	return &Summary{out: out}
}

// Write renders the run statistics followed by one row per account.
// Accounts are printed in the order given.
func (s *Summary) Write(stats *usecase.Stats, accounts []*domain.Account) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Run summary")

	statsTable := tablewriter.NewWriter(s.out)
	statsTable.SetHeader([]string{"Processed", "Applied", "Rejected", "Malformed", "Accounts"})
	statsTable.Append([]string{
		strconv.Itoa(stats.Processed),
		strconv.Itoa(stats.Applied),
		strconv.Itoa(stats.Rejected),
		strconv.Itoa(stats.Malformed),
		strconv.Itoa(stats.Accounts),
	})
	statsTable.Render()

	if len(accounts) == 0 {
		return
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Final balances")

	accountsTable := tablewriter.NewWriter(s.out)
	accountsTable.SetHeader([]string{"Client", "Available", "Held", "Total", "Locked"})
	for _, account := range accounts {
		accountsTable.Append([]string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			account.Available.StringFixed(4),
			account.Held.StringFixed(4),
			account.Total.StringFixed(4),
			strconv.FormatBool(account.Locked),
		})
	}
	accountsTable.Render()
}
