package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Durga-Talluri/cloudops-pro/pkg/model"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a SQLite database that lives only as long as the process.
const MemoryPath = ":memory:"

const alertColumns = "id, title, description, severity, status, resource, category, metadata, timestamp, updated_at"

// SQLite implements AlertStore on an SQLite database.
type SQLite struct {
	db  *sql.DB
	ids IDGenerator
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string, ids IDGenerator) (*SQLite, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = dbPath + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps an in-memory database shared and serializes writers.
	db.SetMaxOpenConns(1)

	if dbPath != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLite{db: db, ids: ids}
	if err := s.advanceIDs(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// advanceIDs moves a sequential generator past ids already on disk.
func (s *SQLite) advanceIDs() error {
	seq, ok := s.ids.(*SequentialIDs)
	if !ok {
		return nil
	}

	rows, err := s.db.Query("SELECT id FROM alerts")
	if err != nil {
		return fmt.Errorf("scan existing ids: %w", err)
	}
	defer rows.Close()

	var highest int64
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan id row: %w", err)
		}
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	seq.Advance(highest)
	return nil
}

func (s *SQLite) Create(ctx context.Context, alert *model.Alert) error {
	metadata, err := encodeMetadata(alert.Metadata)
	if err != nil {
		return err
	}

	id := s.ids.Next()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, title, description, severity, status, resource, category, metadata, timestamp, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, alert.Title, alert.Description, string(alert.Severity), string(alert.Status),
		alert.Resource, alert.Category, metadata, alert.Timestamp.UTC(), nullTime(alert.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	alert.ID = id
	return nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*model.Alert, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+alertColumns+" FROM alerts WHERE id = ?", id)
	return scanAlert(row)
}

func (s *SQLite) UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) (*model.Alert, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update alert status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrAlertNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLite) Delete(ctx context.Context, id string) (*model.Alert, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	alert, err := scanAlert(tx.QueryRowContext(ctx, "SELECT "+alertColumns+" FROM alerts WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM alerts WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete alert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return alert, nil
}

func (s *SQLite) Acknowledge(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin acknowledge: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "UPDATE alerts SET status = ? WHERE id = ?")
	if err != nil {
		return 0, fmt.Errorf("prepare acknowledge: %w", err)
	}
	defer stmt.Close()

	// Each occurrence of a repeated id is counted.
	updated := 0
	for _, id := range ids {
		result, err := stmt.ExecContext(ctx, string(model.StatusAcknowledged), id)
		if err != nil {
			return 0, fmt.Errorf("acknowledge alert %s: %w", id, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("check rows affected: %w", err)
		}
		updated += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit acknowledge: %w", err)
	}
	return updated, nil
}

func (s *SQLite) List(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+alertColumns+" FROM alerts ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []model.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*model.Alert, error) {
	var (
		a         model.Alert
		severity  string
		status    string
		metadata  sql.NullString
		updatedAt sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Title, &a.Description, &severity, &status,
		&a.Resource, &a.Category, &metadata, &a.Timestamp, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan alert row: %w", err)
	}

	a.Severity = model.Severity(severity)
	a.Status = model.Status(status)
	if updatedAt.Valid {
		at := updatedAt.Time
		a.UpdatedAt = &at
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for alert %s: %w", a.ID, err)
		}
	}
	return &a, nil
}

func encodeMetadata(m map[string]any) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode metadata: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
