package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chepyr/go-task-manager/internal/db"
	"github.com/chepyr/go-task-manager/internal/forms"
	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

/*
handles routes:
- GET /users/ - list all users (public, like the registration page)
- GET/POST /users/create/ - registration
- GET/POST /users/{id}/update/ - self only
- GET/POST /users/{id}/delete/ - self only, blocked while tasks reference the user
*/
func (h *Handler) UsersIndex(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "users_index", map[string]any{"Users": users})
}

func (h *Handler) UserCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "users_form", map[string]any{"Form": &forms.UserForm{}})
}

func (h *Handler) UserCreate(w http.ResponseWriter, r *http.Request) {
	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		http.Error(w, "Too many register attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	form := forms.UserFormFromRequest(r)
	taken, err := h.Users.UsernameExists(r.Context(), form.Username, uuid.Nil)
	if err != nil {
		log.Printf("check username: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "users_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs),
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Cannot hash password", http.StatusInternalServerError)
		return
	}
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Username:     form.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Users.Create(r.Context(), user); err != nil {
		log.Printf("create user: %v", err)
		http.Error(w, "Cannot save user", http.StatusInternalServerError)
		return
	}

	log.Printf("User registered: %s", user.Username)
	h.redirectFlash(w, r, "/login/", "success", "User has been registered successfully.")
}

func (h *Handler) UserUpdatePage(w http.ResponseWriter, r *http.Request) {
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireSelf(w, r, target, "You can't edit other user's profile.") {
		return
	}
	form := &forms.UserForm{
		FirstName: target.FirstName,
		LastName:  target.LastName,
		Username:  target.Username,
	}
	h.render(w, r, "users_form", map[string]any{"Form": form, "Update": true})
}

func (h *Handler) UserUpdate(w http.ResponseWriter, r *http.Request) {
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireSelf(w, r, target, "You can't edit other user's profile.") {
		return
	}

	form := forms.UserFormFromRequest(r)
	taken, err := h.Users.UsernameExists(r.Context(), form.Username, target.ID)
	if err != nil {
		log.Printf("check username: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "users_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs), "Update": true,
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		http.Error(w, "Cannot hash password", http.StatusInternalServerError)
		return
	}
	target.FirstName = form.FirstName
	target.LastName = form.LastName
	target.Username = form.Username
	target.PasswordHash = string(hash)

	if err := h.Users.Update(r.Context(), target); err != nil {
		log.Printf("update user: %v", err)
		http.Error(w, "Cannot update user", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/users/", "success", "User updated successfully")
}

func (h *Handler) UserDeletePage(w http.ResponseWriter, r *http.Request) {
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireSelf(w, r, target, "You do not have permission to delete another user.") {
		return
	}
	h.render(w, r, "users_delete", map[string]any{"Target": target})
}

func (h *Handler) UserDelete(w http.ResponseWriter, r *http.Request) {
	target, ok := h.userFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireSelf(w, r, target, "You do not have permission to delete another user.") {
		return
	}

	err := h.Users.Delete(r.Context(), target.ID)
	switch {
	case errors.Is(err, db.ErrInUse):
		h.redirectFlash(w, r, "/users/", "error", "Cannot delete user. User is associated with tasks.")
		return
	case err != nil:
		log.Printf("delete user: %v", err)
		http.Error(w, "Cannot delete user", http.StatusInternalServerError)
		return
	}

	// the deleted account's session must not outlive the account
	h.clearSession(w)
	h.redirectFlash(w, r, "/users/", "success", "User has been deleted successfully.")
}

func (h *Handler) userFromPath(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.NotFound(w, r)
		return nil, false
	}
	target, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("load user %s: %v", id, err)
		}
		h.NotFound(w, r)
		return nil, false
	}
	return target, true
}

// requireSelf enforces the ownership rule on user mutation before any
// state is touched.
func (h *Handler) requireSelf(w http.ResponseWriter, r *http.Request, target *models.User, msg string) bool {
	current := h.currentUser(r)
	if current == nil || current.ID != target.ID {
		h.redirectFlash(w, r, "/users/", "error", msg)
		return false
	}
	return true
}
