package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

// memoryDSN keeps the journal inside the process; nothing outlives it.
const memoryDSN = ":memory:"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenMemory opens a private in-memory database and applies migrations.
// A single connection is used so every query sees the same database.
func OpenMemory(ctx context.Context) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) AppendActivity(ctx context.Context, in Activity) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (seq, kind, task_id, column_id, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		int64(in.Seq), in.Kind, in.TaskID, in.ColumnID, in.Detail, formatTime(in.At),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id int64) (Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, task_id, column_id, detail, occurred_at
		FROM activity WHERE id = ?`, id)
	item, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Activity{}, ErrNotFound
		}
		return Activity{}, err
	}
	return item, nil
}

// ListActivity returns entries newest first.
func (r *SQLiteRepository) ListActivity(ctx context.Context, filter ActivityListFilter) ([]Activity, error) {
	query := `SELECT id, seq, kind, task_id, column_id, detail, occurred_at FROM activity`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.TaskID != "" {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		item, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountActivity(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// PruneActivity keeps the newest keep entries. keep <= 0 disables pruning.
func (r *SQLiteRepository) PruneActivity(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM activity
		WHERE id NOT IN (SELECT id FROM activity ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func formatTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(s scanner) (Activity, error) {
	var out Activity
	var seq int64
	var at string
	if err := s.Scan(&out.ID, &seq, &out.Kind, &out.TaskID, &out.ColumnID, &out.Detail, &at); err != nil {
		return Activity{}, err
	}
	parsed, err := time.Parse(sqliteTimeLayout, at)
	if err != nil {
		return Activity{}, fmt.Errorf("storage: parse occurred_at: %w", err)
	}
	out.Seq = uint64(seq)
	out.At = parsed
	return out, nil
}
