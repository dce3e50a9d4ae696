// Package storage persists profile snapshots in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"xpdash/internal/core"
	"xpdash/internal/log"

	_ "modernc.org/sqlite"
)

// DefaultListLimit applies when ListSnapshots is called with a
// non-positive limit.
const DefaultListLimit = 100

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot stores s and returns its row ID.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s core.Snapshot) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, fmt.Errorf("invalid snapshot: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profile_snapshots (
			login, user_id, campus, total_xp, school_xp, piscine_go_xp, piscine_js_xp,
			total_up, total_up_bonus, total_down, projects, exercises, taken_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Login, s.UserID, s.Campus, s.TotalXP, s.SchoolXP, s.PiscineGoXP, s.PiscineJSXP,
		s.TotalUp, s.TotalUpBonus, s.TotalDown, s.Projects, s.Exercises, s.TakenAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).InfoContext(ctx, "Snapshot saved to SQLite",
		"id", id,
		log.FieldLogin, s.Login,
		"total_xp", s.TotalXP)
	return id, nil
}

// ListSnapshots returns the newest snapshots of login first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, login string, limit int) ([]core.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT login, user_id, campus, total_xp, school_xp, piscine_go_xp, piscine_js_xp,
		       total_up, total_up_bonus, total_down, projects, exercises, taken_at
		FROM profile_snapshots
		WHERE login = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT ?`, login, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []core.Snapshot
	for rows.Next() {
		var (
			s       core.Snapshot
			takenAt int64
		)
		if err := rows.Scan(
			&s.Login, &s.UserID, &s.Campus, &s.TotalXP, &s.SchoolXP, &s.PiscineGoXP, &s.PiscineJSXP,
			&s.TotalUp, &s.TotalUpBonus, &s.TotalDown, &s.Projects, &s.Exercises, &takenAt,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.TakenAt = time.UnixMilli(takenAt).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// PruneOlderThan deletes snapshots taken before cutoff and returns how many
// were removed.
func (r *SQLiteRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profile_snapshots WHERE taken_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return n, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
