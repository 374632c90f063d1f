package handlers

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/chepyr/go-task-manager/internal/db"
	"github.com/chepyr/go-task-manager/internal/flash"
	"github.com/chepyr/go-task-manager/internal/i18n"
	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

func setupApp(t *testing.T) (*Handler, *http.ServeMux, *sql.DB) {
	t.Helper()

	dbx, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pool connection would see a fresh empty :memory: database
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })
	if err := db.Migrate(context.Background(), dbx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	h := NewHandler(
		db.NewUserRepository(dbx),
		db.NewStatusRepository(dbx),
		db.NewLabelRepository(dbx),
		db.NewTaskRepository(dbx),
		NewRateLimiter(1000, time.Minute),
		[]byte(strings.Repeat("a", 32)),
		i18n.En,
	)
	return h, h.Routes(), dbx
}

func createUser(t *testing.T, h *Handler, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createStatus(t *testing.T, h *Handler, name string) *models.Status {
	t.Helper()
	status := &models.Status{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := h.Statuses.Create(context.Background(), status); err != nil {
		t.Fatalf("create status %s: %v", name, err)
	}
	return status
}

func createLabel(t *testing.T, h *Handler, name string) *models.Label {
	t.Helper()
	label := &models.Label{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	if err := h.Labels.Create(context.Background(), label); err != nil {
		t.Fatalf("create label %s: %v", name, err)
	}
	return label
}

func createTask(t *testing.T, h *Handler, name string, status *models.Status, author *models.User, executor *models.User, labels ...*models.Label) *models.Task {
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
	if err := h.Tasks.Create(context.Background(), task, labelIDs); err != nil {
		t.Fatalf("create task %s: %v", name, err)
	}
	return task
}

func sessionFor(t *testing.T, h *Handler, user *models.User) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(1 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return &http.Cookie{Name: sessionCookie, Value: signed}
}

func doGet(t *testing.T, mux *http.ServeMux, path string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func doPost(t *testing.T, mux *http.ServeMux, path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d body=%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != location {
		t.Fatalf("expected redirect to %s, got %s", location, loc)
	}
}

func flashText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != "flash" || cookie.Value == "" {
			continue
		}
		raw, err := base64.URLEncoding.DecodeString(cookie.Value)
		if err != nil {
			t.Fatalf("decode flash cookie: %v", err)
		}
		msg := &flash.Message{}
		if err := json.Unmarshal(raw, msg); err != nil {
			t.Fatalf("unmarshal flash cookie: %v", err)
		}
		return msg.Text
	}
	return ""
}

func countTable(t *testing.T, dbx *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := dbx.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
