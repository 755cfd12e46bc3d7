// Package csvdb persists report tables as flat CSV files. Each report is a
// whole-table resource: reads load the full file, writes replace it. File
// presence is the signal other packages use to decide whether a report has
// been initialised.
package csvdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Table is an in-memory snapshot of one report file.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []string) {
	if len(t.Columns) == 0 {
		t.Rows = append(t.Rows, row)
		return
	}
	fitted := make([]string, len(t.Columns))
	copy(fitted, row)
	t.Rows = append(t.Rows, fitted)
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Store reads and writes CSV tables under a single data directory.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a Store rooted at dir. The directory is created lazily on
// the first save.
func New(dir string) *Store {
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// fileLock returns the single-writer mutex for one report file.
func (s *Store) fileLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Exists reports whether the backing file for name has been created.
func (s *Store) Exists(name string) bool {
	if s == nil {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(name)))
	return err == nil && !info.IsDir()
}

// Load reads the table stored under name. A missing file is not an error:
// the result is an empty table carrying the given column schema.
func (s *Store) Load(name string, columns []string) (Table, error) {
	if s == nil {
		return Table{}, fmt.Errorf("csvdb: store not initialised")
	}
	lock := s.fileLock(name)
	lock.Lock()
	defer lock.Unlock()
	return s.loadLocked(name, columns)
}

func (s *Store) loadLocked(name string, columns []string) (Table, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{Columns: append([]string(nil), columns...)}, nil
		}
		return Table{}, fmt.Errorf("csvdb: open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return Table{Columns: append([]string(nil), columns...)}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("csvdb: read header %s: %w", name, err)
	}

	table := Table{Columns: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("csvdb: read row %s: %w", name, err)
		}
		table.Append(rec)
	}
	return table, nil
}

// Save overwrites the table stored under name, creating the backing file and
// any parent directories if needed. The write goes through a temp file and
// rename so readers never observe a half-written table.
func (s *Store) Save(name string, table Table) error {
	if s == nil {
		return fmt.Errorf("csvdb: store not initialised")
	}
	lock := s.fileLock(name)
	lock.Lock()
	defer lock.Unlock()
	return s.saveLocked(name, table)
}

func (s *Store) saveLocked(name string, table Table) error {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csvdb: mkdir for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".csvdb-*")
	if err != nil {
		return fmt.Errorf("csvdb: temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := csv.NewWriter(tmp)
	if err := w.Write(table.Columns); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csvdb: write header %s: %w", name, err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("csvdb: write row %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("csvdb: flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvdb: close temp for %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("csvdb: rename %s: %w", name, err)
	}
	return nil
}

// Update loads a table, applies fn, and saves the result while holding the
// file lock for the whole read-modify-write cycle.
func (s *Store) Update(name string, columns []string, fn func(*Table) error) error {
	if s == nil {
		return fmt.Errorf("csvdb: store not initialised")
	}
	if fn == nil {
		return fmt.Errorf("csvdb: update func required")
	}
	lock := s.fileLock(name)
	lock.Lock()
	defer lock.Unlock()

	table, err := s.loadLocked(name, columns)
	if err != nil {
		return err
	}
	if err := fn(&table); err != nil {
		return err
	}
	return s.saveLocked(name, table)
}
