package db

import (
	"context"
	"database/sql"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
)

// defines methods for status db operations
type StatusRepositoryInterface interface {
	Create(ctx context.Context, status *models.Status) error
	GetByID(ctx context.Context, id string) (*models.Status, error)
	List(ctx context.Context) ([]*models.Status, error)
	Update(ctx context.Context, status *models.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type StatusRepository struct {
	db *sql.DB
}

func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) Create(ctx context.Context, status *models.Status) error {
	query := `INSERT INTO statuses (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, status.ID, status.Name, status.CreatedAt)
	return err
}

func (r *StatusRepository) GetByID(ctx context.Context, id string) (*models.Status, error) {
	query := `SELECT id, name, created_at FROM statuses WHERE id = $1`
	status := &models.Status{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&status.ID, &status.Name, &status.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (r *StatusRepository) List(ctx context.Context) ([]*models.Status, error) {
	query := `SELECT id, name, created_at FROM statuses ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*models.Status
	for rows.Next() {
		status := &models.Status{}
		if err := rows.Scan(&status.ID, &status.Name, &status.CreatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *StatusRepository) Update(ctx context.Context, status *models.Status) error {
	query := `UPDATE statuses SET name = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status.Name, status.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a status unless a task still references it; the
// reference check and the delete share one transaction.
func (r *StatusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var refs int
	query := `SELECT COUNT(*) FROM tasks WHERE status_id = $1`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *StatusRepository) NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM statuses WHERE name = $1 AND id != $2)`
	err := r.db.QueryRowContext(ctx, query, name, exclude).Scan(&exists)
	return exists, err
}
