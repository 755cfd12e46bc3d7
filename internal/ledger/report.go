package ledger

import "fmt"

// Kind identifies one stored report table. The slug doubles as the URL
// parameter of the report endpoints.
type Kind string

const (
	KindGeneralJournal          Kind = "jurnal-umum"
	KindGeneralLedger           Kind = "buku-besar"
	KindTrialBalance            Kind = "neraca-saldo"
	KindWorksheet               Kind = "neraca-lajur"
	KindClosingJournal          Kind = "jurnal-penutup"
	KindPostClosingTrialBalance Kind = "jurnal-saldo-setelah-penutupan"
	KindIncomeStatement         Kind = "lap-laba-rugi"
	KindEquityChanges           Kind = "lap-perubahan-modal"
	KindBalanceSheet            Kind = "neraca"
	KindPriorTrialBalance       Kind = "neraca-periode-sebelumnya"
)

// Column headers exactly as the report files store them. The duplicated
// "Tanggal.1" header in per-account ledgers is part of the on-disk format.
var (
	journalColumns      = []string{"Tanggal", "Keterangan", "Debet", "Kredit"}
	ledgerColumns       = []string{"Tanggal", "Debet", "Tanggal.1", "Kredit"}
	trialBalanceColumns = []string{"Nama Akun", "Debet", "Kredit"}
	worksheetColumns    = []string{
		"Nama Akun",
		"Neraca Saldo Debet",
		"Neraca Saldo Kredit",
		"Laba Rugi Debet",
		"Laba Rugi Kredit",
		"Neraca Debet",
		"Neraca Kredit",
	}
	incomeStatementColumns = []string{"Kategori", "Akun", "Debet", "Kredit"}
	equityChangesColumns   = []string{"Keterangan", "Debet", "Kredit"}
	balanceSheetColumns    = []string{"AKTIVA", "AKTIVA.1", "AKTIVA.2", "PASIVA", "PASIVA.1", "PASIVA.2"}
	priorBalanceColumns    = []string{"Nama Akun", "Debit", "Kredit"}
)

type reportSpec struct {
	display  string
	filename string
	columns  []string
}

var reportSpecs = map[Kind]reportSpec{
	KindGeneralJournal:          {"Jurnal Umum", "jurnal_umum.csv", journalColumns},
	KindGeneralLedger:           {"Buku Besar", "", ledgerColumns},
	KindTrialBalance:            {"Neraca Saldo", "neraca_saldo.csv", trialBalanceColumns},
	KindWorksheet:               {"Neraca Lajur", "neraca_lajur.csv", worksheetColumns},
	KindClosingJournal:          {"Jurnal Penutup", "jurnal_penutup.csv", journalColumns},
	KindPostClosingTrialBalance: {"Jurnal Saldo Setelah Penutupan", "jurnal_saldo_setelah_penutupan.csv", trialBalanceColumns},
	KindIncomeStatement:         {"Laporan Laba Rugi", "lap_labarugi.csv", incomeStatementColumns},
	KindEquityChanges:           {"Laporan Perubahan Modal", "lap_perubahanmodal.csv", equityChangesColumns},
	KindBalanceSheet:            {"Neraca", "neraca.csv", balanceSheetColumns},
	KindPriorTrialBalance:       {"Neraca Saldo Periode Sebelumnya", "neraca_periode_sebelumnya.csv", priorBalanceColumns},
}

// Kinds lists every report kind in presentation order.
func Kinds() []Kind {
	return []Kind{
		KindGeneralJournal,
		KindGeneralLedger,
		KindTrialBalance,
		KindWorksheet,
		KindClosingJournal,
		KindPostClosingTrialBalance,
		KindIncomeStatement,
		KindEquityChanges,
		KindBalanceSheet,
		KindPriorTrialBalance,
	}
}

// ParseKind resolves a URL slug into a Kind.
func ParseKind(slug string) (Kind, error) {
	k := Kind(slug)
	if _, ok := reportSpecs[k]; !ok {
		return "", fmt.Errorf("laporan %q tidak dikenal", slug)
	}
	return k, nil
}

// DisplayName returns the human-readable report name shown to the user.
func (k Kind) DisplayName() string {
	return reportSpecs[k].display
}

// Columns returns the fixed column schema of the report.
func (k Kind) Columns() []string {
	return append([]string(nil), reportSpecs[k].columns...)
}

// Filename returns the file the report is stored in, relative to the data
// directory. Per-account ledgers have no single file; use LedgerFile.
func (k Kind) Filename() string {
	return reportSpecs[k].filename
}

// LedgerFile returns the per-account ledger file for a normalized account key.
func LedgerFile(key string) string {
	return "bukubesar/bukbes_" + key + ".csv"
}

// LedgerColumns returns the column schema of per-account ledger files.
func LedgerColumns() []string {
	return append([]string(nil), ledgerColumns...)
}
