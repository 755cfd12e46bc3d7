// Package reports serves the stored report tables: listing, viewing with
// computed totals, row-level edits, and CSV export. Row edits here are the
// direct path that may create a report's backing file; the propagation
// engine never does.
package reports

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
	"github.com/lembarbuku/lembarbuku/internal/shared"
)

// Status describes one report kind for the navigation list.
type Status struct {
	Kind     string `json:"kind"`
	Nama     string `json:"nama"`
	Tersedia bool   `json:"tersedia"`
}

// LedgerStatus describes one per-account ledger.
type LedgerStatus struct {
	Akun     string `json:"akun"`
	Kunci    string `json:"kunci"`
	Tersedia bool   `json:"tersedia"`
}

// View is the table view model served to the UI.
type View struct {
	Kind    string            `json:"kind"`
	Laporan string            `json:"laporan"`
	Kolom   []string          `json:"kolom"`
	Baris   [][]string        `json:"baris"`
	Total   map[string]string `json:"total,omitempty"`
}

// Service reads and mutates report tables through the CSV store.
type Service struct {
	store  ledger.TableStore
	logger *slog.Logger
}

// NewService constructs the report service.
func NewService(store ledger.TableStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// target resolves a kind (plus account for per-account ledgers) to its file,
// schema and display name.
type target struct {
	file    string
	columns []string
	display string
}

func (s *Service) resolve(kind ledger.Kind, akun string) (target, error) {
	if kind == ledger.KindGeneralLedger {
		if akun == "" {
			return target{}, fmt.Errorf("akun wajib diisi untuk buku besar")
		}
		key := ledger.NormalizeKey(akun)
		return target{
			file:    ledger.LedgerFile(key),
			columns: ledger.LedgerColumns(),
			display: fmt.Sprintf("%s (%s)", kind.DisplayName(), akun),
		}, nil
	}
	return target{file: kind.Filename(), columns: kind.Columns(), display: kind.DisplayName()}, nil
}

// List returns the status of every file-backed report kind.
func (s *Service) List(_ context.Context) []Status {
	out := make([]Status, 0, len(ledger.Kinds()))
	for _, kind := range ledger.Kinds() {
		if kind == ledger.KindGeneralLedger {
			continue
		}
		out = append(out, Status{
			Kind:     string(kind),
			Nama:     kind.DisplayName(),
			Tersedia: s.store.Exists(kind.Filename()),
		})
	}
	return out
}

// LedgerList returns the status of the per-account ledgers for the fixed
// chart of accounts.
func (s *Service) LedgerList(_ context.Context) []LedgerStatus {
	accounts := ledger.KnownAccounts()
	out := make([]LedgerStatus, 0, len(accounts))
	for _, akun := range accounts {
		key := ledger.NormalizeKey(akun)
		out = append(out, LedgerStatus{
			Akun:     akun,
			Kunci:    key,
			Tersedia: s.store.Exists(ledger.LedgerFile(key)),
		})
	}
	return out
}

// Get loads the view model for one report. A report whose backing file has
// not been created yet yields shared.ErrReportNotInitialized.
func (s *Service) Get(_ context.Context, kind ledger.Kind, akun string) (View, error) {
	tgt, err := s.resolve(kind, akun)
	if err != nil {
		return View{}, err
	}
	if !s.store.Exists(tgt.file) {
		return View{}, fmt.Errorf("%s: %w", tgt.display, shared.ErrReportNotInitialized)
	}
	table, err := s.store.Load(tgt.file, tgt.columns)
	if err != nil {
		return View{}, err
	}
	view := View{
		Kind:    string(kind),
		Laporan: tgt.display,
		Kolom:   table.Columns,
		Baris:   table.Rows,
		Total:   columnTotals(table, numericColumns(kind)),
	}
	if view.Baris == nil {
		view.Baris = [][]string{}
	}
	return view, nil
}

// Init creates the report's backing file with its schema and no rows. The
// operation is idempotent: an existing report is left untouched.
func (s *Service) Init(_ context.Context, kind ledger.Kind, akun string) error {
	tgt, err := s.resolve(kind, akun)
	if err != nil {
		return err
	}
	if s.store.Exists(tgt.file) {
		return nil
	}
	s.logger.Info("membuat laporan", slog.String("laporan", tgt.display))
	return s.store.Save(tgt.file, csvdb.Table{Columns: tgt.columns})
}

// AddRow appends one row, creating the backing file when missing.
func (s *Service) AddRow(_ context.Context, kind ledger.Kind, akun string, row []string) error {
	tgt, err := s.resolve(kind, akun)
	if err != nil {
		return err
	}
	return s.store.Update(tgt.file, tgt.columns, func(t *csvdb.Table) error {
		t.Append(row)
		return nil
	})
}

// UpdateRow replaces the row at index.
func (s *Service) UpdateRow(_ context.Context, kind ledger.Kind, akun string, index int, row []string) error {
	tgt, err := s.resolve(kind, akun)
	if err != nil {
		return err
	}
	if !s.store.Exists(tgt.file) {
		return fmt.Errorf("%s: %w", tgt.display, shared.ErrReportNotInitialized)
	}
	return s.store.Update(tgt.file, tgt.columns, func(t *csvdb.Table) error {
		if index < 0 || index >= len(t.Rows) {
			return shared.ErrRowOutOfRange
		}
		fitted := make([]string, len(t.Columns))
		copy(fitted, row)
		t.Rows[index] = fitted
		return nil
	})
}

// DeleteRow removes the row at index.
func (s *Service) DeleteRow(_ context.Context, kind ledger.Kind, akun string, index int) error {
	tgt, err := s.resolve(kind, akun)
	if err != nil {
		return err
	}
	if !s.store.Exists(tgt.file) {
		return fmt.Errorf("%s: %w", tgt.display, shared.ErrReportNotInitialized)
	}
	return s.store.Update(tgt.file, tgt.columns, func(t *csvdb.Table) error {
		if index < 0 || index >= len(t.Rows) {
			return shared.ErrRowOutOfRange
		}
		t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
		return nil
	})
}

// numericColumns lists the money columns totalled in each report's footer.
func numericColumns(kind ledger.Kind) []string {
	switch kind {
	case ledger.KindWorksheet:
		return []string{
			"Neraca Saldo Debet", "Neraca Saldo Kredit",
			"Laba Rugi Debet", "Laba Rugi Kredit",
			"Neraca Debet", "Neraca Kredit",
		}
	case ledger.KindBalanceSheet:
		return []string{"AKTIVA.2", "PASIVA.2"}
	case ledger.KindPriorTrialBalance:
		return []string{"Debit", "Kredit"}
	default:
		return []string{"Debet", "Kredit"}
	}
}

func columnTotals(t csvdb.Table, columns []string) map[string]string {
	totals := make(map[string]string, len(columns))
	for _, col := range columns {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		sum := 0.0
		for _, row := range t.Rows {
			if idx < len(row) {
				sum += ledger.ParseAmount(row[idx])
			}
		}
		totals[col] = shared.FormatRupiah(sum)
	}
	return totals
}
