// Package journal records every command sent to the bridge in a local
// sqlite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/teei/idctl/pkg/bridge"
)

// StatusError is recorded for commands that got no reply.
const StatusError = "ERROR"

// timeLayout has fixed width so rows sort by time as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultLimit is how many entries List returns when no limit is given.
const DefaultLimit = 20

// Entry is one recorded command.
type Entry struct {
	ID          string        `json:"id" yaml:"id"`
	Time        time.Time     `json:"time" yaml:"time"`
	Application string        `json:"application" yaml:"application"`
	Action      string        `json:"action" yaml:"action"`
	Status      string        `json:"status" yaml:"status"`
	Message     string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}

// Filter narrows List.
type Filter struct {
	Action string
	Limit  int
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// one connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id TEXT PRIMARY KEY,
			time TEXT NOT NULL,
			application TEXT NOT NULL,
			action TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT,
			duration_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS commands_time ON commands(time);
		CREATE INDEX IF NOT EXISTS commands_action ON commands(action);
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e. An entry with an ID already recorded replaces it.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO commands (id, time, application, action, status, message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Time.UTC().Format(timeLayout), e.Application, e.Action, e.Status, e.Message, e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", e.Action, err)
	}
	return nil
}

// List returns the most recent entries first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	query := `SELECT id, time, application, action, status, message, duration_ms FROM commands`
	args := []interface{}{}
	if f.Action != "" {
		query += ` WHERE action = ?`
		args = append(args, f.Action)
	}
	query += ` ORDER BY time DESC LIMIT ?`
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			ts      string
			message sql.NullString
			ms      int64
		)
		if err := rows.Scan(&e.ID, &ts, &e.Application, &e.Action, &e.Status, &message, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if e.Time, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("bad time %q in journal: %w", ts, err)
		}
		e.Message = message.String
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Observer returns a bridge observer that records each command. Failures to
// record are logged, never returned to the caller.
func (s *Store) Observer() bridge.Observer {
	return func(cmd bridge.Command, resp *bridge.Response, err error, elapsed time.Duration) {
		e := Entry{
			ID:          cmd.ID,
			Application: cmd.Application,
			Action:      cmd.Action,
			Duration:    elapsed,
		}
		switch {
		case err != nil:
			e.Status, e.Message = StatusError, err.Error()
		case resp.OK():
			e.Status = bridge.StatusSuccess
		default:
			e.Status, e.Message = resp.Status, resp.Failure()
		}
		if rerr := s.Record(context.Background(), e); rerr != nil {
			log.Warnf("Journal: %v", rerr)
		}
	}
}
