package csvdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsSchema(t *testing.T) {
	store := New(t.TempDir())
	columns := []string{"Tanggal", "Debet", "Kredit"}

	table, err := store.Load("jurnal_umum.csv", columns)
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(table.Rows))
	}
	if len(table.Columns) != 3 || table.Columns[0] != "Tanggal" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	if store.Exists("jurnal_umum.csv") {
		t.Fatal("Load must not create the file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	in := Table{
		Columns: []string{"Nama Akun", "Debet", "Kredit"},
		Rows: [][]string{
			{"Kas", "100", "0"},
			{"Penjualan", "0", "100"},
		},
	}
	if err := store.Save("neraca_saldo.csv", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists("neraca_saldo.csv") {
		t.Fatal("Exists should report true after save")
	}

	out, err := store.Load("neraca_saldo.csv", in.Columns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}
	if out.Rows[0][0] != "Kas" || out.Rows[1][2] != "100" {
		t.Fatalf("unexpected rows %v", out.Rows)
	}
}

func TestSaveCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	table := Table{Columns: []string{"Tanggal", "Debet", "Tanggal.1", "Kredit"}}

	if err := store.Save("bukubesar/bukbes_kas.csv", table); err != nil {
		t.Fatalf("Save nested: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bukubesar", "bukbes_kas.csv")); err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
}

func TestUpdateReadModifyWrite(t *testing.T) {
	store := New(t.TempDir())
	columns := []string{"Nama Akun", "Debet", "Kredit"}

	err := store.Update("neraca_saldo.csv", columns, func(t *Table) error {
		t.Append([]string{"Kas", "100", "0"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	err = store.Update("neraca_saldo.csv", columns, func(t *Table) error {
		t.Append([]string{"Penjualan", "0", "100"})
		return nil
	})
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}

	table, err := store.Load("neraca_saldo.csv", columns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	store := New(t.TempDir())
	columns := []string{"Nama Akun", "Debet", "Kredit"}
	if err := store.Save("neraca_saldo.csv", Table{Columns: columns, Rows: [][]string{{"Kas", "1", "0"}}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	boom := errors.New("boom")
	err := store.Update("neraca_saldo.csv", columns, func(t *Table) error {
		t.Rows = nil
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}

	table, err := store.Load("neraca_saldo.csv", columns)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("failed update must not persist, got %d rows", len(table.Rows))
	}
}

func TestAppendFitsRowToColumns(t *testing.T) {
	table := Table{Columns: []string{"A", "B", "C"}}
	table.Append([]string{"1"})
	table.Append([]string{"1", "2", "3", "4"})
	if len(table.Rows[0]) != 3 || len(table.Rows[1]) != 3 {
		t.Fatalf("rows not fitted: %v", table.Rows)
	}
	if table.Rows[1][2] != "3" {
		t.Fatalf("truncation lost data: %v", table.Rows[1])
	}
}

func TestColumnIndex(t *testing.T) {
	table := Table{Columns: []string{"Tanggal", "Debet", "Tanggal.1", "Kredit"}}
	if got := table.ColumnIndex("Tanggal.1"); got != 2 {
		t.Fatalf("ColumnIndex(Tanggal.1) = %d", got)
	}
	if got := table.ColumnIndex("Tidak Ada"); got != -1 {
		t.Fatalf("ColumnIndex missing = %d, want -1", got)
	}
}
