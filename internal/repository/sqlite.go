package repository

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/classbet/internal/betting"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB

	mu    sync.RWMutex
	known []string // classes passed to InitializePoints
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS points (
			class_name TEXT PRIMARY KEY,
			points INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Points Methods ====================

// InitializePoints ensures a points row exists for every class.
// Existing rows are never reset.
func (r *Repository) InitializePoints(ctx context.Context, classes []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, class := range classes {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO points (class_name, points) VALUES (?, 0)`, class); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.mu.Lock()
	r.known = append([]string(nil), classes...)
	r.mu.Unlock()
	return nil
}

// GetAllPoints returns the points of every class. After InitializePoints
// has run, a known class without a row is reported as *betting.IntegrityError.
func (r *Repository) GetAllPoints(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT class_name, points FROM points`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make(map[string]int)
	for rows.Next() {
		var class string
		var value int
		if err := rows.Scan(&class, &value); err != nil {
			return nil, err
		}
		points[class] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var missing []string
	for _, class := range r.known {
		if _, ok := points[class]; !ok {
			missing = append(missing, class)
		}
	}
	if len(missing) > 0 {
		return nil, &betting.IntegrityError{Missing: missing}
	}

	return points, nil
}

// GetPoints returns the points of a single class
func (r *Repository) GetPoints(ctx context.Context, class string) (int, error) {
	var value int
	err := r.db.QueryRowContext(ctx, `SELECT points FROM points WHERE class_name = ?`, class).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return value, err
}

// UpdatePoints overwrites the points of the given classes in one
// transaction. Classes not in the map are left unchanged. A class without a
// row aborts the whole update with *betting.IntegrityError.
func (r *Repository) UpdatePoints(ctx context.Context, points map[string]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var missing []string
	for class, value := range points {
		result, err := tx.ExecContext(ctx, `UPDATE points SET points = ? WHERE class_name = ?`, value, class)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			missing = append(missing, class)
		}
	}
	if len(missing) > 0 {
		return &betting.IntegrityError{Missing: missing}
	}

	return tx.Commit()
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
