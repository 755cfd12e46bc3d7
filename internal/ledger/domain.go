// Package ledger implements the double-entry bookkeeping core: account
// classification and the propagation of one transaction into every report
// file that has been initialised.
package ledger

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Category splits accounts into the two statement groups.
type Category string

const (
	// CategoryBalanceSheet covers aktiva, kewajiban and modal accounts ("neraca").
	CategoryBalanceSheet Category = "neraca"
	// CategoryIncomeStatement covers pendapatan and beban accounts ("laba rugi").
	CategoryIncomeStatement Category = "laba_rugi"
)

// Side marks which column of a report a posting affects.
type Side string

const (
	SideDebit  Side = "debet"
	SideCredit Side = "kredit"
)

// Posting is the atomic unit of work handed to the report updaters.
type Posting struct {
	Account string
	Amount  float64
	Side    Side
}

// Transaction is one double-entry record as submitted by the user. Debit and
// credit are not required to balance; a zero-amount side is simply skipped.
type Transaction struct {
	Date          time.Time
	Description   string
	DebitAccount  string
	DebitAmount   float64
	CreditAccount string
	CreditAmount  float64
}

// ErrNoAmount rejects a transaction where neither side carries an amount.
var ErrNoAmount = errors.New("nilai debet atau kredit harus lebih dari 0")

// Validate checks the submission contract. Anything beyond the amount rule
// is deliberately accepted, including unbalanced entries.
func (t Transaction) Validate() error {
	if t.DebitAmount <= 0 && t.CreditAmount <= 0 {
		return ErrNoAmount
	}
	return nil
}

// Postings decomposes the transaction into its non-zero sides.
func (t Transaction) Postings() []Posting {
	out := make([]Posting, 0, 2)
	if t.DebitAmount > 0 {
		out = append(out, Posting{Account: t.DebitAccount, Amount: t.DebitAmount, Side: SideDebit})
	}
	if t.CreditAmount > 0 {
		out = append(out, Posting{Account: t.CreditAccount, Amount: t.CreditAmount, Side: SideCredit})
	}
	return out
}

// knownAccounts is the fixed chart of accounts offered by the input form.
var knownAccounts = []string{
	"Kas",
	"Perlengkapan",
	"Peralatan",
	"Utang Bank",
	"Modal",
	"Penjualan",
	"Pembelian",
	"Beban Gaji",
	"Beban Pengiriman",
	"Beban Pemeliharaan",
	"Beban Sewa",
	"Beban Bunga",
	"Ikhtisar Laba Rugi",
}

// KnownAccounts returns the fixed set of account display names.
func KnownAccounts() []string {
	return append([]string(nil), knownAccounts...)
}

// IsKnownAccount reports whether name is part of the fixed chart of accounts.
// The comparison is case-insensitive.
func IsKnownAccount(name string) bool {
	for _, acc := range knownAccounts {
		if strings.EqualFold(acc, name) {
			return true
		}
	}
	return false
}

// ParseAmount coerces a stored cell to a number. Empty or unparsable cells
// count as zero; stored data never aborts an update.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatAmount renders an amount the way report files store it.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DateLayout is the display format used in all journal files.
const DateLayout = "02/01/2006"
