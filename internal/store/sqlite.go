package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Starman965/mongoose-sub000/internal/achievement"
	"github.com/Starman965/mongoose-sub000/internal/match"

	_ "modernc.org/sqlite"
)

// Rules and matches are stored as JSON documents beside a few queryable
// columns; progress is fully columnar so the lifecycle fields can be
// inspected with plain SQL.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rules (
	id         TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	doc        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS progress (
	rule_id           TEXT PRIMARY KEY REFERENCES rules(id) ON DELETE CASCADE,
	status            TEXT NOT NULL,
	current           INTEGER NOT NULL,
	completions       INTEGER NOT NULL,
	last_completed_at INTEGER,
	updated_at        INTEGER NOT NULL,
	locked            INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id  TEXT PRIMARY KEY,
	ts  INTEGER NOT NULL,
	doc TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matches_ts ON matches(ts DESC);
`

// SQLiteStore persists the catalog in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the catalog database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadCatalog returns entries ordered by rule creation time then id, so
// catalog iteration order is stable across restarts.
func (s *SQLiteStore) LoadCatalog(ctx context.Context) ([]achievement.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.doc,
		       p.status, p.current, p.completions, p.last_completed_at, p.updated_at, p.locked
		FROM rules r
		LEFT JOIN progress p ON p.rule_id = r.id
		ORDER BY r.created_at, r.id`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var entries []achievement.Entry
	for rows.Next() {
		var (
			doc         string
			status      sql.NullString
			current     sql.NullInt64
			completions sql.NullInt64
			lastDone    sql.NullInt64
			updatedAt   sql.NullInt64
			locked      sql.NullInt64
		)
		if err := rows.Scan(&doc, &status, &current, &completions, &lastDone, &updatedAt, &locked); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}

		var rule achievement.Rule
		if err := json.Unmarshal([]byte(doc), &rule); err != nil {
			return nil, fmt.Errorf("parse rule doc: %w", err)
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("stored catalog: %w", err)
		}

		prog := achievement.NewProgress(rule.ID)
		if status.Valid {
			prog.Status = achievement.Status(status.String)
			prog.Current = int(current.Int64)
			prog.Completions = int(completions.Int64)
			prog.UpdatedAt = fromMillis(updatedAt.Int64)
			prog.Locked = locked.Int64 != 0
			if lastDone.Valid {
				t := fromMillis(lastDone.Int64)
				prog.LastCompletedAt = &t
			}
		}
		entries = append(entries, achievement.Entry{Rule: rule, Progress: prog})
	}
	return entries, rows.Err()
}

// SaveRule upserts a rule document.
func (s *SQLiteStore) SaveRule(ctx context.Context, rule achievement.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("marshal rule: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rules (id, created_at, doc) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`,
		rule.ID, toMillis(rule.CreatedAt), string(doc))
	if err != nil {
		return fmt.Errorf("save rule %s: %w", rule.ID, err)
	}
	return nil
}

// SaveProgress upserts the running state for a known rule.
func (s *SQLiteStore) SaveProgress(ctx context.Context, prog achievement.Progress) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rules WHERE id = ?`, prog.RuleID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check rule %s: %w", prog.RuleID, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRule, prog.RuleID)
	}

	var lastDone any
	if prog.LastCompletedAt != nil {
		lastDone = toMillis(*prog.LastCompletedAt)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (rule_id, status, current, completions, last_completed_at, updated_at, locked)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rule_id) DO UPDATE SET
			status = excluded.status,
			current = excluded.current,
			completions = excluded.completions,
			last_completed_at = excluded.last_completed_at,
			updated_at = excluded.updated_at,
			locked = excluded.locked`,
		prog.RuleID, string(prog.Status), prog.Current, prog.Completions,
		lastDone, toMillis(prog.UpdatedAt), boolToInt(prog.Locked))
	if err != nil {
		return fmt.Errorf("save progress %s: %w", prog.RuleID, err)
	}
	return nil
}

// DeleteRule removes a rule; its progress row goes with it via the
// foreign key cascade.
func (s *SQLiteStore) DeleteRule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRule, id)
	}
	return nil
}

// AddMatch inserts one match record.
func (s *SQLiteStore) AddMatch(ctx context.Context, rec *match.Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (id, ts, doc) VALUES (?, ?, ?)`,
		rec.ID, toMillis(rec.Timestamp), string(doc))
	if err != nil {
		return fmt.Errorf("save match %s: %w", rec.ID, err)
	}
	return nil
}

// ListMatches returns up to limit matches, most recent first.
// A non-positive limit returns the full history.
func (s *SQLiteStore) ListMatches(ctx context.Context, limit int) ([]match.Record, error) {
	q := `SELECT doc FROM matches ORDER BY ts DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []match.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		var rec match.Record
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("parse match doc: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
