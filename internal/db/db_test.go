package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dbx, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pool connection would see a fresh empty :memory: database
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })
	if err := Migrate(context.Background(), dbx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbx
}

func insertUser(t *testing.T, dbx *sql.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Username:     username,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	if err := NewUserRepository(dbx).Create(context.Background(), user); err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	return user
}

func insertStatus(t *testing.T, dbx *sql.DB, name string) *models.Status {
	t.Helper()
	status := &models.Status{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := NewStatusRepository(dbx).Create(context.Background(), status); err != nil {
		t.Fatalf("insert status %s: %v", name, err)
	}
	return status
}

func insertLabel(t *testing.T, dbx *sql.DB, name string) *models.Label {
	t.Helper()
	label := &models.Label{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := NewLabelRepository(dbx).Create(context.Background(), label); err != nil {
		t.Fatalf("insert label %s: %v", name, err)
	}
	return label
}

func insertTask(t *testing.T, dbx *sql.DB, name string, status *models.Status, author *models.User, executor *models.User, labels ...*models.Label) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:        uuid.New(),
		Name:      name,
		StatusID:  status.ID,
		AuthorID:  author.ID,
		CreatedAt: time.Now().UTC(),
	}
	if executor != nil {
		task.ExecutorID = uuid.NullUUID{UUID: executor.ID, Valid: true}
	}
	var labelIDs []uuid.UUID
	for _, label := range labels {
		labelIDs = append(labelIDs, label.ID)
	}
	if err := NewTaskRepository(dbx).Create(context.Background(), task, labelIDs); err != nil {
		t.Fatalf("insert task %s: %v", name, err)
	}
	return task
}

func countRows(t *testing.T, dbx *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := dbx.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// uniqueness lives on the store as well, not only in the validation layer
func TestUniqueConstraints(t *testing.T) {
	dbx := setupDB(t)

	insertStatus(t, dbx, "new")
	dup := &models.Status{ID: uuid.New(), Name: "new", CreatedAt: time.Now().UTC()}
	if err := NewStatusRepository(dbx).Create(context.Background(), dup); err == nil {
		t.Fatal("expected unique violation for duplicate status name")
	}

	insertUser(t, dbx, "ivan")
	dupUser := &models.User{
		ID: uuid.New(), FirstName: "a", LastName: "b", Username: "ivan",
		PasswordHash: "x", CreatedAt: time.Now().UTC(),
	}
	if err := NewUserRepository(dbx).Create(context.Background(), dupUser); err == nil {
		t.Fatal("expected unique violation for duplicate username")
	}
}
