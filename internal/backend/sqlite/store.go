// Package sqlite implements service.Service on a local SQLite file, for use
// without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"orange/internal/service"
	"orange/internal/todo"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS todo (
	id INTEGER PRIMARY KEY,
	heading TEXT NOT NULL,
	body TEXT NOT NULL,
	checked INTEGER NOT NULL DEFAULT 0,
	alarm_date TEXT,
	alarm_time TEXT,
	tags TEXT
)`

const (
	selectAllSQL = `SELECT id, heading, body, checked, tags FROM todo ORDER BY id`
	deleteSQL    = `DELETE FROM todo WHERE id = ?`
	existsSQL    = `SELECT EXISTS(SELECT 1 FROM todo WHERE id = ?)`
	updateSQL    = `UPDATE todo SET heading = ?, body = ?, checked = ?, tags = ? WHERE id = ?`
	insertSQL    = `INSERT INTO todo (heading, body, checked, tags, id) VALUES (?, ?, ?, ?, ?)`
)

// Store implements service.Service on a SQLite database file.
type Store struct {
	db *sql.DB
}

var _ service.Service = (*Store)(nil)

// New opens (creating if needed) the database at path.
func New(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrConnectionFailed, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrConnectionFailed, err)
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create todo table: %v", service.ErrConnectionFailed, err)
	}
	log.WithField("path", path).Trace("sqlite store opened")
	return &Store{db: db}, nil
}

// LoadAll implements service.Service.
func (s *Store) LoadAll(ctx context.Context) ([]todo.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	defer rows.Close()

	var result []todo.Task
	for rows.Next() {
		var (
			id            int64
			heading, body sql.NullString
			checked       sql.NullBool
			tags          sql.NullString
		)
		if err := rows.Scan(&id, &heading, &body, &checked, &tags); err != nil {
			log.WithError(err).Debug("skipping unreadable todo row")
			continue
		}
		task, err := todo.New(id, heading.String, body.String)
		if err != nil {
			log.WithError(err).WithField("row", id).Debug("skipping invalid todo row")
			continue
		}
		task.SetChecked(checked.Bool)
		task.AddTags(decodeTags(tags.String)...)
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	return result, nil
}

// Flush implements service.Service.
func (s *Store) Flush(ctx context.Context, tasks []todo.Task, removed []int64) error {
	for _, id := range removed {
		if _, err := s.db.ExecContext(ctx, deleteSQL, id); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}
	}
	for _, t := range tasks {
		if err := s.save(ctx, t); err != nil {
			return fmt.Errorf("save todo %d: %w", t.ID(), err)
		}
	}
	return nil
}

func (s *Store) save(ctx context.Context, t todo.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, t); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, t todo.Task) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, existsSQL, t.ID()).Scan(&exists); err != nil {
		return err
	}

	tags, err := encodeTags(t.Tags())
	if err != nil {
		return err
	}

	query := insertSQL
	if exists {
		query = updateSQL
	}
	_, err = tx.ExecContext(ctx, query, t.Heading(), t.Body(), t.Checked(), tags, t.ID())
	return err
}

// Close implements service.Service.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := sonic.ConfigStd.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// decodeTags reads the JSON array stored in the tags column. Anything else
// is read as no tags.
func decodeTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	if err := sonic.ConfigStd.Unmarshal([]byte(s), &tags); err != nil {
		log.WithError(err).Debug("ignoring malformed tags")
		return nil
	}
	return tags
}
