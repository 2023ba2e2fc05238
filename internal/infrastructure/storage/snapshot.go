package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

const snapshotColumn = "all_info"

// CSVSnapshot stores the latest enriched records, one JSON document per row.
type CSVSnapshot struct {
	path string
}

var _ ports.SnapshotStore = (*CSVSnapshot)(nil)

// NewCSVSnapshot binds the snapshot to path.
func NewCSVSnapshot(path string) *CSVSnapshot {
	return &CSVSnapshot{path: path}
}

// Save replaces the snapshot with records, keeping their order.
func (s *CSVSnapshot) Save(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{snapshotColumn})
	for _, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}
		rows = append(rows, []string{string(raw)})
	}

	if err := writeCSVAtomic(s.path, rows); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back; a missing file is an error.
func (s *CSVSnapshot) Load(ctx context.Context) ([]domain.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if len(header) != 1 || header[0] != snapshotColumn {
		return nil, fmt.Errorf("%w: unexpected snapshot header %v", domain.ErrMalformedPayload, header)
	}

	records := []domain.Record{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot row: %w", err)
		}

		var rec domain.Record
		if err := json.Unmarshal([]byte(row[0]), &rec); err != nil {
			return nil, fmt.Errorf("%w: decode snapshot row: %v", domain.ErrMalformedPayload, err)
		}
		records = append(records, rec)
	}

	return records, nil
}
