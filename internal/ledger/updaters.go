package ledger

import (
	"strings"

	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
)

// ensureColumns makes sure the table carries every column of the schema,
// appending missing ones and padding existing rows. Report files written by
// this application always match their schema; this guards tables edited by
// hand.
func ensureColumns(t *csvdb.Table, columns []string) {
	for _, col := range columns {
		if t.ColumnIndex(col) >= 0 {
			continue
		}
		t.Columns = append(t.Columns, col)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
}

// journalDescription builds the row description: the account name alone when
// the user left the description empty, otherwise account and description
// joined by a space.
func journalDescription(account, description string) string {
	if strings.TrimSpace(description) == "" {
		return account
	}
	return account + " " + description
}

// appendJournalRow appends one general/closing journal row. Journals are
// append-only: every posting produces its own row, nothing is merged.
func appendJournalRow(t *csvdb.Table, date, description string, debit, credit float64) {
	ensureColumns(t, journalColumns)
	row := make([]string, len(t.Columns))
	row[t.ColumnIndex("Tanggal")] = date
	row[t.ColumnIndex("Keterangan")] = description
	row[t.ColumnIndex("Debet")] = FormatAmount(debit)
	row[t.ColumnIndex("Kredit")] = FormatAmount(credit)
	t.Rows = append(t.Rows, row)
}

// appendLedgerRow appends one per-account ledger row. Debit postings fill the
// left date/amount pair, credit postings the right pair; the unused side
// stays zero with an empty date.
func appendLedgerRow(t *csvdb.Table, date string, debit, credit float64) {
	ensureColumns(t, ledgerColumns)
	row := make([]string, len(t.Columns))
	for i := range row {
		row[i] = ""
	}
	row[t.ColumnIndex("Debet")] = FormatAmount(0)
	row[t.ColumnIndex("Kredit")] = FormatAmount(0)
	if debit > 0 {
		row[t.ColumnIndex("Tanggal")] = date
		row[t.ColumnIndex("Debet")] = FormatAmount(debit)
	} else if credit > 0 {
		row[t.ColumnIndex("Tanggal.1")] = date
		row[t.ColumnIndex("Kredit")] = FormatAmount(credit)
	}
	t.Rows = append(t.Rows, row)
}

// accumulateBalanceRow folds a posting into a one-row-per-account balance
// table (trial balance, post-closing trial balance). An existing row for the
// account accumulates into its debit/credit cells; otherwise a new row is
// appended. Unparsable stored cells count as zero.
func accumulateBalanceRow(t *csvdb.Table, account string, debit, credit float64) {
	ensureColumns(t, trialBalanceColumns)
	accountIdx := t.ColumnIndex("Nama Akun")
	debitIdx := t.ColumnIndex("Debet")
	creditIdx := t.ColumnIndex("Kredit")

	for _, row := range t.Rows {
		if row[accountIdx] != account {
			continue
		}
		if debit > 0 {
			row[debitIdx] = FormatAmount(ParseAmount(row[debitIdx]) + debit)
		}
		if credit > 0 {
			row[creditIdx] = FormatAmount(ParseAmount(row[creditIdx]) + credit)
		}
		return
	}

	row := make([]string, len(t.Columns))
	row[accountIdx] = account
	row[debitIdx] = FormatAmount(debit)
	row[creditIdx] = FormatAmount(credit)
	t.Rows = append(t.Rows, row)
}

// accumulateWorksheetRow folds a posting into the worksheet. The trial
// balance columns always accumulate; the income statement or balance sheet
// pair additionally accumulates depending on the account category.
func accumulateWorksheetRow(t *csvdb.Table, account string, debit, credit float64) {
	ensureColumns(t, worksheetColumns)
	category := Classify(account)

	accountIdx := t.ColumnIndex("Nama Akun")
	nsDebitIdx := t.ColumnIndex("Neraca Saldo Debet")
	nsCreditIdx := t.ColumnIndex("Neraca Saldo Kredit")
	lrDebitIdx := t.ColumnIndex("Laba Rugi Debet")
	lrCreditIdx := t.ColumnIndex("Laba Rugi Kredit")
	nDebitIdx := t.ColumnIndex("Neraca Debet")
	nCreditIdx := t.ColumnIndex("Neraca Kredit")

	add := func(row []string, idx int, amount float64) {
		row[idx] = FormatAmount(ParseAmount(row[idx]) + amount)
	}

	for _, row := range t.Rows {
		if row[accountIdx] != account {
			continue
		}
		if debit > 0 {
			add(row, nsDebitIdx, debit)
			if category == CategoryIncomeStatement {
				add(row, lrDebitIdx, debit)
			} else {
				add(row, nDebitIdx, debit)
			}
		}
		if credit > 0 {
			add(row, nsCreditIdx, credit)
			if category == CategoryIncomeStatement {
				add(row, lrCreditIdx, credit)
			} else {
				add(row, nCreditIdx, credit)
			}
		}
		return
	}

	row := make([]string, len(t.Columns))
	for i := range row {
		row[i] = FormatAmount(0)
	}
	row[accountIdx] = account
	row[nsDebitIdx] = FormatAmount(debit)
	row[nsCreditIdx] = FormatAmount(credit)
	if category == CategoryIncomeStatement {
		row[lrDebitIdx] = FormatAmount(debit)
		row[lrCreditIdx] = FormatAmount(credit)
	} else {
		row[nDebitIdx] = FormatAmount(debit)
		row[nCreditIdx] = FormatAmount(credit)
	}
	t.Rows = append(t.Rows, row)
}

// appendClosingRows writes the textbook closing entry for one income
// statement posting: the account is zeroed against Ikhtisar Laba Rugi. A
// debit posting closes with a credit and vice versa.
func appendClosingRows(t *csvdb.Table, date, account string, debit, credit float64) {
	if debit > 0 {
		appendJournalRow(t, date, "Penutupan "+account, 0, debit)
		appendJournalRow(t, date, "Ikhtisar Laba Rugi", debit, 0)
	}
	if credit > 0 {
		appendJournalRow(t, date, "Penutupan "+account, credit, 0)
		appendJournalRow(t, date, "Ikhtisar Laba Rugi", 0, credit)
	}
}
