package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"TrendingNews/internal/config"
	"TrendingNews/internal/domain"
	"TrendingNews/internal/ports"
)

const ledgerTable = "story_ledger"

// SQLLedger persists processed story ids into SQLite or Postgres.
// Ids are cached in memory after Load; Commit inserts only pending rows.
type SQLLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType

	mu      sync.Mutex
	seen    map[string]struct{}
	pending []domain.LedgerEntry
}

var _ ports.Ledger = (*SQLLedger)(nil)

// OpenSQLLedger opens the database for backend and ensures the table exists.
func OpenSQLLedger(ctx context.Context, backend, dsn string) (*SQLLedger, error) {
	driver := ""
	var placeholder sq.PlaceholderFormat = sq.Question
	switch backend {
	case config.LedgerSQLite:
		driver = "sqlite"
	case config.LedgerPostgres:
		driver, placeholder = "postgres", sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported ledger backend %q", backend)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	ledger := NewSQLLedger(db, placeholder)
	if err := ledger.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ledger, nil
}

// NewSQLLedger wires an existing sql.DB.
func NewSQLLedger(db *sql.DB, placeholder sq.PlaceholderFormat) *SQLLedger {
	return &SQLLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		seen:    make(map[string]struct{}),
	}
}

func (l *SQLLedger) migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + ledgerTable + ` (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT ''
	)`
	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *SQLLedger) Close() error {
	return l.db.Close()
}

// Load caches every stored id.
func (l *SQLLedger) Load(ctx context.Context) error {
	query, args, err := l.builder.Select("id").From(ledgerTable).ToSql()
	if err != nil {
		return fmt.Errorf("build select: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query ledger: %w", err)
	}

	seen := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan id: %w", err)
		}
		seen[id] = struct{}{}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("close rows: %w", closeErr)
	}

	l.mu.Lock()
	l.seen = seen
	l.pending = nil
	l.mu.Unlock()
	return nil
}

// Seen reports whether id is stored or pending.
func (l *SQLLedger) Seen(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[id]
	return ok
}

// Add queues an entry for the next Commit.
func (l *SQLLedger) Add(entry domain.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[entry.ID]; ok {
		return
	}
	l.seen[entry.ID] = struct{}{}
	l.pending = append(l.pending, entry)
}

// Len is the number of distinct ids known.
func (l *SQLLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

// Commit inserts pending entries in one transaction.
func (l *SQLLedger) Commit(ctx context.Context) error {
	l.mu.Lock()
	pending := l.pending
	l.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	insert := l.builder.Insert(ledgerTable).Columns("id", "title")
	for _, e := range pending {
		insert = insert.Values(e.ID, e.Title)
	}
	query, args, err := insert.Suffix("ON CONFLICT (id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert ledger rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	l.mu.Lock()
	l.pending = l.pending[len(pending):]
	l.mu.Unlock()
	return nil
}
