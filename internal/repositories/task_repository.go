package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"tasksource/internal/config"
	"tasksource/internal/models"
)

const fetchAllQuery = `SELECT * FROM tasks`

// Column names of the tasks table. Mapping is by name, so column order does
// not matter and extra columns are ignored.
const (
	ColumnID          = "id"
	ColumnTitle       = "title"
	ColumnDescription = "description"
	ColumnDueDate     = "due_date"
	ColumnPriority    = "priority"
	ColumnStatus      = "status"
	ColumnCompleted   = "completed"
	ColumnAssignedTo  = "assigned_to"
)

// RequiredColumns must be present in every result set.
var RequiredColumns = []string{ColumnID, ColumnTitle, ColumnDescription, ColumnDueDate}

type TaskReader interface {
	FetchAll(ctx context.Context) ([]models.Task, error)
}

// Opener returns a fresh database handle for one FetchAll call.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

type ReaderOption func(*taskReader)

// WithOpener replaces the default lib/pq opener.
func WithOpener(open Opener) ReaderOption {
	return func(r *taskReader) { r.open = open }
}

// WithRetry bounds how many times a transient connection failure is retried.
func WithRetry(attempts int, backoff time.Duration) ReaderOption {
	return func(r *taskReader) {
		r.attempts = attempts
		r.backoff = backoff
	}
}

type taskReader struct {
	cfg      config.DatabaseConfig
	open     Opener
	attempts int
	backoff  time.Duration
}

func NewTaskReader(cfg config.DatabaseConfig, opts ...ReaderOption) (TaskReader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newReadError(ErrConfiguration, "config", err)
	}
	r := &taskReader{
		cfg:      cfg,
		open:     openPostgres,
		attempts: cfg.ConnectAttempts,
		backoff:  cfg.RetryBackoff,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.attempts <= 0 {
		r.attempts = 1
	}
	return r, nil
}

func openPostgres(_ context.Context, dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}

// FetchAll materialises every row of the tasks table. On failure it returns
// nil and a *ReadError; partial results are never returned.
func (r *taskReader) FetchAll(ctx context.Context) ([]models.Task, error) {
	db, err := r.open(ctx, r.cfg.DSN())
	if err != nil {
		return nil, newReadError(ErrConnection, "open", err)
	}
	defer closeLogged("db", db.Close)

	conn, err := r.connect(ctx, db)
	if err != nil {
		log.Printf("[reader][fetchAll][err] %s: %v", r.cfg.Redacted(), err)
		return nil, err
	}
	defer closeLogged("conn", conn.Close)

	rows, err := conn.QueryContext(ctx, fetchAllQuery)
	if err != nil {
		log.Printf("[reader][fetchAll][query][err] %v", err)
		return nil, newReadError(ErrQuery, "query", err)
	}
	defer closeLogged("rows", rows.Close)

	tasks, err := scanTasks(rows)
	if err != nil {
		log.Printf("[reader][fetchAll][scan][err] %v", err)
		return nil, err
	}
	log.Printf("[reader][fetchAll][ok] rows=%d", len(tasks))
	return tasks, nil
}

// connect pins a single connection and pings it, retrying transient failures.
func (r *taskReader) connect(ctx context.Context, db *sql.DB) (*sql.Conn, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		conn, err := db.Conn(ctx)
		if err == nil {
			if err = conn.PingContext(ctx); err == nil {
				return conn, nil
			}
			_ = conn.Close()
		}
		lastErr = err

		if attempt == r.attempts || !isTransient(err) {
			break
		}
		log.Printf("[reader][connect] attempt %d/%d failed: %v; retry in %s", attempt, r.attempts, err, r.backoff)
		select {
		case <-ctx.Done():
			return nil, newReadError(ErrConnection, "connect", ctx.Err())
		case <-time.After(r.backoff):
		}
	}
	return nil, newReadError(ErrConnection, "connect", lastErr)
}

// isTransient reports whether a connection failure is worth retrying.
// Authentication and unknown-database errors are final.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
		return false
	}
	return true
}

func closeLogged(what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Printf("[reader][close][%s][err] %v", what, err)
	}
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, newReadError(ErrQuery, "columns", err)
	}
	m, err := newColumnMap(cols)
	if err != nil {
		return nil, newReadError(ErrMapping, "columns", err)
	}

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := m.scan(rows)
		if err != nil {
			return nil, newReadError(ErrMapping, fmt.Sprintf("row %d", len(tasks)+1), err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, newReadError(ErrQuery, "iterate", err)
	}
	return tasks, nil
}

// columnMap records the position of each known column in a result set.
type columnMap struct {
	width int
	index map[string]int
}

func newColumnMap(cols []string) (*columnMap, error) {
	m := &columnMap{width: len(cols), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		name := strings.ToLower(strings.TrimSpace(c))
		if _, dup := m.index[name]; !dup {
			m.index[name] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := m.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %v (got %v)", missing, cols)
	}
	return m, nil
}

func (m *columnMap) scan(rows *sql.Rows) (models.Task, error) {
	var (
		id          sql.NullInt64
		title       sql.NullString
		description sql.NullString
		due         any
		priority    sql.NullInt64
		status      sql.NullString
		completed   sql.NullBool
		assignedTo  sql.NullInt64
	)
	dest := make([]any, m.width)
	for i := range dest {
		dest[i] = new(any)
	}
	m.bind(dest, ColumnID, &id)
	m.bind(dest, ColumnTitle, &title)
	m.bind(dest, ColumnDescription, &description)
	m.bind(dest, ColumnDueDate, &due)
	m.bind(dest, ColumnPriority, &priority)
	m.bind(dest, ColumnStatus, &status)
	m.bind(dest, ColumnCompleted, &completed)
	m.bind(dest, ColumnAssignedTo, &assignedTo)

	if err := rows.Scan(dest...); err != nil {
		return models.Task{}, err
	}

	if !id.Valid {
		return models.Task{}, fmt.Errorf("%s is NULL", ColumnID)
	}
	if !description.Valid || description.String == "" {
		return models.Task{}, fmt.Errorf("%s is empty", ColumnDescription)
	}

	var t models.Task
	taskID := id.Int64
	t.ID = &taskID
	t.Title = title.String
	t.Description = description.String

	if err := t.DueDate.Scan(due); err != nil {
		return models.Task{}, fmt.Errorf("%s: %w", ColumnDueDate, err)
	}

	if priority.Valid {
		if priority.Int64 < models.PriorityMin || priority.Int64 >= models.PriorityMax {
			return models.Task{}, fmt.Errorf("%s %d outside [%d, %d)", ColumnPriority, priority.Int64, models.PriorityMin, models.PriorityMax)
		}
		t.Priority = int(priority.Int64)
	}

	st, err := m.status(status, completed)
	if err != nil {
		return models.Task{}, err
	}
	t.Status = st

	if assignedTo.Valid {
		a := assignedTo.Int64
		t.AssignedTo = &a
	}
	return t, nil
}

func (m *columnMap) bind(dest []any, col string, target any) {
	if i, ok := m.index[col]; ok {
		dest[i] = target
	}
}

// status prefers the status column and falls back to a boolean completed
// column. Missing or NULL values mean Pending.
func (m *columnMap) status(status sql.NullString, completed sql.NullBool) (models.TaskStatus, error) {
	if status.Valid && status.String != "" {
		for _, s := range []models.TaskStatus{models.StatusPending, models.StatusCompleted} {
			if strings.EqualFold(status.String, string(s)) {
				return s, nil
			}
		}
		return "", fmt.Errorf("unknown %s %q", ColumnStatus, status.String)
	}
	if completed.Valid && completed.Bool {
		return models.StatusCompleted, nil
	}
	return models.StatusPending, nil
}
