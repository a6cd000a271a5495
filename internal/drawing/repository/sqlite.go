package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tugisline/internal/drawing/models"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Create сохраняет документ под новым ID.
func (r *Repository) Create(ctx context.Context, name string, document []byte, objectCount int) (*models.Drawing, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO drawings (id, name, document, object_count)
        VALUES (?, ?, ?, ?)
    `, id, name, string(document), objectCount)
	if err != nil {
		return nil, fmt.Errorf("insert drawing: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update перезаписывает документ существующего рисунка.
func (r *Repository) Update(ctx context.Context, id string, document []byte, objectCount int) (*models.Drawing, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE drawings
        SET document = ?, object_count = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
        WHERE id = ?
    `, string(document), objectCount, id)
	if err != nil {
		return nil, fmt.Errorf("update drawing: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*models.Drawing, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, document, object_count, created_at, updated_at
        FROM drawings
        WHERE id = ?
    `, id)

	var d models.Drawing
	if err := row.Scan(&d.ID, &d.Name, &d.Document, &d.ObjectCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List возвращает рисунки без тела документа, новые первыми.
func (r *Repository) List(ctx context.Context) ([]models.Drawing, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, object_count, created_at, updated_at
        FROM drawings
        ORDER BY updated_at DESC, rowid DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	drawings := []models.Drawing{}
	for rows.Next() {
		var d models.Drawing
		if err := rows.Scan(&d.ID, &d.Name, &d.ObjectCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}
	return drawings, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
