// Package statements computes the summary figures of the derived financial
// statements: laporan laba rugi, laporan perubahan modal, and neraca. The
// statements themselves are stored tables maintained through the report
// endpoints; this package only derives their totals.
package statements

import (
	"context"
	"errors"
	"math"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
)

// IncomeStatementSummary totals the laba rugi statement. LabaBersih is
// credit minus debit: positive means profit.
type IncomeStatementSummary struct {
	Tersedia    bool
	TotalDebet  float64
	TotalKredit float64
	LabaBersih  float64
}

// EquityChangesSummary totals the perubahan modal statement.
type EquityChangesSummary struct {
	Tersedia    bool
	TotalDebet  float64
	TotalKredit float64
}

// BalanceSheetSummary totals the neraca. Balanced allows a small rounding
// tolerance, the same 0.01 the consolidation reports use.
type BalanceSheetSummary struct {
	Tersedia    bool
	TotalAktiva float64
	TotalPasiva float64
	Balanced    bool
}

// Service derives statement summaries from the stored tables.
type Service struct {
	store ledger.TableStore
}

// NewService constructs the statement service.
func NewService(store ledger.TableStore) *Service {
	return &Service{store: store}
}

// IncomeStatement builds the laba rugi summary.
func (s *Service) IncomeStatement(_ context.Context) (IncomeStatementSummary, error) {
	if s == nil || s.store == nil {
		return IncomeStatementSummary{}, errors.New("statements: service not initialised")
	}
	kind := ledger.KindIncomeStatement
	if !s.store.Exists(kind.Filename()) {
		return IncomeStatementSummary{}, nil
	}
	table, err := s.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return IncomeStatementSummary{}, err
	}
	debit := sumColumn(table, "Debet")
	credit := sumColumn(table, "Kredit")
	return IncomeStatementSummary{
		Tersedia:    true,
		TotalDebet:  debit,
		TotalKredit: credit,
		LabaBersih:  credit - debit,
	}, nil
}

// EquityChanges builds the perubahan modal summary.
func (s *Service) EquityChanges(_ context.Context) (EquityChangesSummary, error) {
	if s == nil || s.store == nil {
		return EquityChangesSummary{}, errors.New("statements: service not initialised")
	}
	kind := ledger.KindEquityChanges
	if !s.store.Exists(kind.Filename()) {
		return EquityChangesSummary{}, nil
	}
	table, err := s.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return EquityChangesSummary{}, err
	}
	return EquityChangesSummary{
		Tersedia:    true,
		TotalDebet:  sumColumn(table, "Debet"),
		TotalKredit: sumColumn(table, "Kredit"),
	}, nil
}

// BalanceSheet builds the neraca summary. Amount columns are the third
// column of each side ("AKTIVA.2" / "PASIVA.2"); the first two hold group
// and account labels.
func (s *Service) BalanceSheet(_ context.Context) (BalanceSheetSummary, error) {
	if s == nil || s.store == nil {
		return BalanceSheetSummary{}, errors.New("statements: service not initialised")
	}
	kind := ledger.KindBalanceSheet
	if !s.store.Exists(kind.Filename()) {
		return BalanceSheetSummary{}, nil
	}
	table, err := s.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return BalanceSheetSummary{}, err
	}
	aktiva := sumColumn(table, "AKTIVA.2")
	pasiva := sumColumn(table, "PASIVA.2")
	return BalanceSheetSummary{
		Tersedia:    true,
		TotalAktiva: aktiva,
		TotalPasiva: pasiva,
		Balanced:    math.Abs(aktiva-pasiva) <= 0.01,
	}, nil
}

func sumColumn(t csvdb.Table, column string) float64 {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0
	}
	sum := 0.0
	for _, row := range t.Rows {
		if idx < len(row) {
			sum += ledger.ParseAmount(row[idx])
		}
	}
	return sum
}
