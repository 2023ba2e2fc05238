package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

var ledgerHeader = []string{"id", "story"}

// CSVLedger keeps processed story ids in a two-column CSV file.
type CSVLedger struct {
	path string

	mu      sync.Mutex
	entries []domain.LedgerEntry
	seen    map[string]struct{}
}

var _ ports.Ledger = (*CSVLedger)(nil)

// NewCSVLedger returns an empty ledger bound to path; call Load to read it.
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path, seen: make(map[string]struct{})}
}

// Load reads the file; a missing file is an empty ledger.
func (l *CSVLedger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.seen = make(map[string]struct{})

	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	first := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read ledger: %w", err)
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == ledgerHeader[0] {
				continue
			}
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		entry := domain.LedgerEntry{ID: row[0]}
		if len(row) > 1 {
			entry.Title = row[1]
		}
		l.addLocked(entry)
	}

	return nil
}

// Seen reports whether id was loaded or added.
func (l *CSVLedger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Add records an entry in memory; duplicates are ignored.
func (l *CSVLedger) Add(entry domain.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(entry)
}

func (l *CSVLedger) addLocked(entry domain.LedgerEntry) {
	if _, ok := l.seen[entry.ID]; ok {
		return
	}
	l.seen[entry.ID] = struct{}{}
	l.entries = append(l.entries, entry)
}

// Len is the number of distinct ids.
func (l *CSVLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Commit rewrites the whole file atomically.
func (l *CSVLedger) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	rows := make([][]string, 0, len(l.entries)+1)
	rows = append(rows, ledgerHeader)
	for _, e := range l.entries {
		rows = append(rows, []string{e.ID, e.Title})
	}
	l.mu.Unlock()

	if err := writeCSVAtomic(l.path, rows); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	return nil
}

// writeCSVAtomic writes rows to a sibling temp file and renames it over path.
func writeCSVAtomic(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
