package db

import (
	"context"
	"database/sql"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
)

// defines methods for label db operations
type LabelRepositoryInterface interface {
	Create(ctx context.Context, label *models.Label) error
	GetByID(ctx context.Context, id string) (*models.Label, error)
	List(ctx context.Context) ([]*models.Label, error)
	Update(ctx context.Context, label *models.Label) error
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
}

type LabelRepository struct {
	db *sql.DB
}

func NewLabelRepository(db *sql.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

func (r *LabelRepository) Create(ctx context.Context, label *models.Label) error {
	query := `INSERT INTO labels (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, label.ID, label.Name, label.CreatedAt)
	return err
}

func (r *LabelRepository) GetByID(ctx context.Context, id string) (*models.Label, error) {
	query := `SELECT id, name, created_at FROM labels WHERE id = $1`
	label := &models.Label{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&label.ID, &label.Name, &label.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (r *LabelRepository) List(ctx context.Context) ([]*models.Label, error) {
	query := `SELECT id, name, created_at FROM labels ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*models.Label
	for rows.Next() {
		label := &models.Label{}
		if err := rows.Scan(&label.ID, &label.Name, &label.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *LabelRepository) Update(ctx context.Context, label *models.Label) error {
	query := `UPDATE labels SET name = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, label.Name, label.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a label and detaches it from any tasks. Labels carry no
// in-use protection, unlike statuses and users.
func (r *LabelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_labels WHERE label_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *LabelRepository) NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM labels WHERE name = $1 AND id != $2)`
	err := r.db.QueryRowContext(ctx, query, name, exclude).Scan(&exists)
	return exists, err
}
