package statements

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
)

func TestIncomeStatementSummary(t *testing.T) {
	store := csvdb.New(t.TempDir())
	svc := NewService(store)
	ctx := context.Background()

	// Missing file is not an error, just an unavailable statement.
	summary, err := svc.IncomeStatement(ctx)
	require.NoError(t, err)
	assert.False(t, summary.Tersedia)

	kind := ledger.KindIncomeStatement
	require.NoError(t, store.Save(kind.Filename(), csvdb.Table{
		Columns: kind.Columns(),
		Rows: [][]string{
			{"Pendapatan", "Penjualan", "0", "5000"},
			{"Beban", "Beban Gaji", "2000", "0"},
			{"Beban", "Beban Sewa", "500", "0"},
		},
	}))

	summary, err = svc.IncomeStatement(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Tersedia)
	assert.Equal(t, 2500.0, summary.TotalDebet)
	assert.Equal(t, 5000.0, summary.TotalKredit)
	assert.Equal(t, 2500.0, summary.LabaBersih)
}

func TestEquityChangesSummary(t *testing.T) {
	store := csvdb.New(t.TempDir())
	svc := NewService(store)
	ctx := context.Background()

	kind := ledger.KindEquityChanges
	require.NoError(t, store.Save(kind.Filename(), csvdb.Table{
		Columns: kind.Columns(),
		Rows: [][]string{
			{"Modal awal", "0", "10000"},
			{"Prive", "1000", "0"},
		},
	}))

	summary, err := svc.EquityChanges(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Tersedia)
	assert.Equal(t, 1000.0, summary.TotalDebet)
	assert.Equal(t, 10000.0, summary.TotalKredit)
}

func TestBalanceSheetSummary(t *testing.T) {
	store := csvdb.New(t.TempDir())
	svc := NewService(store)
	ctx := context.Background()

	kind := ledger.KindBalanceSheet
	require.NoError(t, store.Save(kind.Filename(), csvdb.Table{
		Columns: kind.Columns(),
		Rows: [][]string{
			{"Aktiva Lancar", "Kas", "7000", "Kewajiban", "Utang Bank", "3000"},
			{"Aktiva Tetap", "Peralatan", "3000", "Ekuitas", "Modal", "7000"},
		},
	}))

	summary, err := svc.BalanceSheet(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Tersedia)
	assert.Equal(t, 10000.0, summary.TotalAktiva)
	assert.Equal(t, 10000.0, summary.TotalPasiva)
	assert.True(t, summary.Balanced)
}

func TestBalanceSheetUnbalanced(t *testing.T) {
	store := csvdb.New(t.TempDir())
	svc := NewService(store)

	kind := ledger.KindBalanceSheet
	require.NoError(t, store.Save(kind.Filename(), csvdb.Table{
		Columns: kind.Columns(),
		Rows: [][]string{
			{"Aktiva Lancar", "Kas", "7000", "Kewajiban", "Utang Bank", "3000"},
		},
	}))

	summary, err := svc.BalanceSheet(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.Balanced)
}
