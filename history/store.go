package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go_renamer/logging"
)

// Store owns the rename log and counters. Writes normally flow through the
// async writer; reads go straight to the database.
type Store struct {
	db     *sql.DB
	writer *asyncWriter
	logger *logging.Logger
}

// NewStore creates a Store over an open, migrated database and starts the
// background writer.
func NewStore(db *sql.DB, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{
		db:     db,
		logger: logger.Named("history"),
	}
	s.writer = newAsyncWriter(func(e Entry) {
		if err := s.recordSync(e); err != nil {
			s.logger.Error("failed to record history entry",
				zap.String("original", e.Original),
				zap.String("outcome", string(e.Outcome)),
				zap.Error(err))
		}
	})
	return s
}

// Record queues an entry for persistence. When the queue is unavailable the
// write happens synchronously; either way the entry is not lost. Recording
// failures are logged, never surfaced, so bookkeeping cannot fail a rename.
func (s *Store) Record(e Entry) {
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if s.writer.enqueue(e) {
		return
	}
	if err := s.recordSync(e); err != nil {
		s.logger.Error("failed to record history entry",
			zap.String("original", e.Original),
			zap.String("outcome", string(e.Outcome)),
			zap.Error(err))
	}
}

// recordSync inserts one entry and maintains the retention cap and counters
// in a single transaction, so a crash can never leave them disagreeing.
func (s *Store) recordSync(e Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO rename_history
		 (timestamp, outcome, original_filename, new_filename, caption, error, file_type, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp, string(e.Outcome), e.Original, e.Renamed, e.Caption, e.Error, e.FileType, e.Source,
	); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	// Evict beyond the newest MaxEntries rows.
	if _, err := tx.Exec(
		`DELETE FROM rename_history WHERE id NOT IN
		 (SELECT id FROM rename_history ORDER BY id DESC LIMIT ?)`,
		MaxEntries,
	); err != nil {
		return fmt.Errorf("evict entries: %w", err)
	}

	counters := []string{"total", counterFor(e.Outcome)}
	for _, key := range counters {
		if _, err := tx.Exec(
			`UPDATE rename_stats SET value = value + 1 WHERE key = ?`, key,
		); err != nil {
			return fmt.Errorf("bump %s counter: %w", key, err)
		}
	}

	if e.Source != "" {
		if _, err := tx.Exec(
			`INSERT INTO source_counts (source, count) VALUES (?, 1)
			 ON CONFLICT(source) DO UPDATE SET count = count + 1`,
			e.Source,
		); err != nil {
			return fmt.Errorf("bump source counter: %w", err)
		}
	}

	return tx.Commit()
}

func counterFor(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return "successful"
	case OutcomeFailure:
		return "failed"
	default:
		return "skipped"
	}
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns the full retained log.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, outcome, original_filename, new_filename,
		        caption, error, file_type, source
		 FROM rename_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var outcome string
		if err := rows.Scan(&e.ID, &e.Timestamp, &outcome, &e.Original, &e.Renamed,
			&e.Caption, &e.Error, &e.FileType, &e.Source); err != nil {
			return nil, fmt.Errorf("history: scan entry: %w", err)
		}
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats returns the aggregate counters.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{BySource: make(map[string]int64)}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM rename_stats`)
	if err != nil {
		return stats, fmt.Errorf("history: query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return stats, fmt.Errorf("history: scan stat: %w", err)
		}
		switch key {
		case "total":
			stats.TotalRenames = value
		case "successful":
			stats.Successful = value
		case "failed":
			stats.Failed = value
		case "skipped":
			stats.Skipped = value
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	srcRows, err := s.db.QueryContext(ctx, `SELECT source, count FROM source_counts`)
	if err != nil {
		return stats, fmt.Errorf("history: query source counts: %w", err)
	}
	defer srcRows.Close()

	for srcRows.Next() {
		var source string
		var count int64
		if err := srcRows.Scan(&source, &count); err != nil {
			return stats, fmt.Errorf("history: scan source count: %w", err)
		}
		stats.BySource[source] = count
	}
	return stats, srcRows.Err()
}

// Close drains pending writes and closes the database.
func (s *Store) Close() error {
	s.writer.stop()
	return s.db.Close()
}
