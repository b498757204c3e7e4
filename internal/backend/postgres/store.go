// Package postgres implements service.Service on the PostgreSQL todo table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"orange/internal/config"
	"orange/internal/service"
	"orange/internal/todo"
)

// alarm_date and alarm_time are part of the table but unused.
const createTableSQL = `CREATE TABLE IF NOT EXISTS todo (
	id SERIAL PRIMARY KEY,
	heading TEXT NOT NULL,
	body TEXT NOT NULL,
	checked BOOLEAN NOT NULL,
	alarm_date DATE,
	alarm_time TIME,
	tags TEXT[]
)`

const (
	selectAllSQL    = `SELECT id, heading, body, checked, tags FROM todo ORDER BY id`
	deleteSQL       = `DELETE FROM todo WHERE id = $1`
	existsSQL       = `SELECT EXISTS(SELECT 1 FROM todo WHERE id = $1)`
	updateSQL       = `UPDATE todo SET heading = $2, body = $3, checked = $4, tags = $5 WHERE id = $1`
	insertSQL       = `INSERT INTO todo (id, heading, body, checked, tags) VALUES ($1, $2, $3, $4, $5)`
	syncSequenceSQL = `SELECT setval(pg_get_serial_sequence('todo', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM todo`
)

// Conn is the subset of *pgx.Conn the store uses.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// Store implements service.Service using a single PostgreSQL connection.
type Store struct {
	conn Conn
}

var _ service.Service = (*Store)(nil)

// New connects with the credentials from cfg and makes sure the todo table
// exists.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrConnectionFailed, err)
	}
	s, err := NewWithConn(ctx, conn)
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	return s, nil
}

// NewWithConn creates a store on an existing connection (for testing).
func NewWithConn(ctx context.Context, conn Conn) (*Store, error) {
	if _, err := conn.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("create todo table: %w", err)
	}
	log.Trace("db initialized successfully")
	return &Store{conn: conn}, nil
}

// LoadAll implements service.Service.
func (s *Store) LoadAll(ctx context.Context) ([]todo.Task, error) {
	rows, err := s.conn.Query(ctx, selectAllSQL)
	if err != nil {
		return nil, fmt.Errorf("read todos: %w", err)
	}
	defer rows.Close()

	var result []todo.Task
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			log.WithError(err).Debug("skipping unreadable todo row")
			continue
		}
		task, err := decodeRow(vals)
		if err != nil {
			log.WithError(err).WithField("row", vals[0]).Debug("skipping invalid todo row")
			continue
		}
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
		if _, err := s.conn.Exec(ctx, deleteSQL, id); err != nil {
			return fmt.Errorf("delete todo %d: %w", id, err)
		}
	}

	for _, t := range tasks {
		if err := s.save(ctx, t); err != nil {
			return fmt.Errorf("save todo %d: %w", t.ID(), err)
		}
	}

	// Explicit ids bypass the serial default; keep the sequence ahead of them.
	if _, err := s.conn.Exec(ctx, syncSequenceSQL); err != nil {
		return fmt.Errorf("sync id sequence: %w", err)
	}
	return nil
}

// save updates or inserts one task inside its own transaction.
func (s *Store) save(ctx context.Context, t todo.Task) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, t); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func upsert(ctx context.Context, tx pgx.Tx, t todo.Task) error {
	var exists bool
	if err := tx.QueryRow(ctx, existsSQL, t.ID()).Scan(&exists); err != nil {
		return err
	}

	tags := t.Tags()
	if tags == nil {
		tags = []string{}
	}

	query := insertSQL
	if exists {
		query = updateSQL
	}
	_, err := tx.Exec(ctx, query, t.ID(), t.Heading(), t.Body(), t.Checked(), tags)
	return err
}

// Close implements service.Service.
func (s *Store) Close() error {
	return s.conn.Close(context.Background())
}
