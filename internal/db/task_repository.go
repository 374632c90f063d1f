package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
)

// TaskFilter holds the optional predicates of the task list. Empty
// fields add no constraint; all present fields combine with AND.
type TaskFilter struct {
	StatusID   string
	ExecutorID string
	LabelID    string
	// AuthorID is set when the request asked for "only my tasks".
	AuthorID string
}

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	Count(ctx context.Context) (int, error)
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO tasks (id, name, description, status_id, author_id, executor_id, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(
		ctx, query, task.ID, task.Name, task.Description, task.StatusID,
		task.AuthorID, task.ExecutorID, task.CreatedAt)
	if err != nil {
		return err
	}
	if err := replaceLabels(ctx, tx, task.ID, labelIDs); err != nil {
		return err
	}
	return tx.Commit()
}

const taskColumns = `t.id, t.name, t.description, t.status_id, t.author_id, t.executor_id, t.created_at,
	 s.name, a.first_name || ' ' || a.last_name, e.first_name || ' ' || e.last_name`

const taskJoins = ` FROM tasks t
	 JOIN statuses s ON s.id = t.status_id
	 JOIN users a ON a.id = t.author_id
	 LEFT JOIN users e ON e.id = t.executor_id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	task := &models.Task{}
	var executorName sql.NullString
	err := row.Scan(
		&task.ID, &task.Name, &task.Description, &task.StatusID,
		&task.AuthorID, &task.ExecutorID, &task.CreatedAt,
		&task.StatusName, &task.AuthorName, &executorName,
	)
	if err != nil {
		return nil, err
	}
	task.ExecutorName = executorName.String
	return task, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	task.Labels, err = r.LabelsFor(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// List composes the supplied filters into a single query. It is a pure
// read; a fixed store state and filter yields a fixed result order.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + taskJoins

	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.StatusID != "" {
		add("t.status_id = $%d", filter.StatusID)
	}
	if filter.ExecutorID != "" {
		add("t.executor_id = $%d", filter.ExecutorID)
	}
	if filter.LabelID != "" {
		add("EXISTS(SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id = $%d)", filter.LabelID)
	}
	if filter.AuthorID != "" {
		add("t.author_id = $%d", filter.AuthorID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task, labelIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// author_id and created_at stay as written at creation
	query := `UPDATE tasks SET name = $1, description = $2, status_id = $3, executor_id = $4
	 WHERE id = $5`
	res, err := tx.ExecContext(
		ctx, query, task.Name, task.Description, task.StatusID, task.ExecutorID, task.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	if err := replaceLabels(ctx, tx, task.ID, labelIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

func (r *TaskRepository) NameExists(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE name = $1 AND id != $2)`
	err := r.db.QueryRowContext(ctx, query, name, exclude).Scan(&exists)
	return exists, err
}

func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n)
	return n, err
}

func (r *TaskRepository) LabelsFor(ctx context.Context, taskID uuid.UUID) ([]*models.Label, error) {
	query := `SELECT l.id, l.name, l.created_at FROM task_labels tl
	 JOIN labels l ON l.id = tl.label_id WHERE tl.task_id = $1 ORDER BY l.created_at`
	rows, err := r.db.QueryContext(ctx, query, taskID)
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

func replaceLabels(ctx context.Context, tx *sql.Tx, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_labels (task_id, label_id) VALUES ($1, $2)`, taskID, labelID)
		if err != nil {
			return err
		}
	}
	return nil
}
