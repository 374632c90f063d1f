package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/chepyr/go-task-manager/internal/forms"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", map[string]any{"Form": &forms.LoginForm{}})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	form := forms.LoginFormFromRequest(r)
	if errs := form.Validate(); !errs.Empty() {
		h.render(w, r, "login", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs),
		})
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), form.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("login lookup: %v", err)
		}
		h.render(w, r, "login", map[string]any{
			"Form": form, "LoginError": h.tr("Invalid username or password."),
		})
		return
	}
	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		h.render(w, r, "login", map[string]any{
			"Form": form, "LoginError": h.tr("Invalid username or password."),
		})
		return
	}

	if err := h.issueSession(w, user.ID.String()); err != nil {
		log.Printf("issue session: %v", err)
		http.Error(w, "Cannot create session", http.StatusInternalServerError)
		return
	}
	log.Printf("User logged in: %s", user.Username)
	h.redirectFlash(w, r, "/", "success", "You are logged in")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w)
	h.redirectFlash(w, r, "/", "info", "You are logged out")
}
