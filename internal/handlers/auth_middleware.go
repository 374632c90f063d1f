package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "session"

type ctxKey string

const userKey ctxKey = "current_user"

/*
The session is a signed JWT in an HTTP-only cookie.
RequireLogin verifies it, loads the user and puts them in the request
context; anything without a valid session is flashed and sent to /login/.
*/
func (h *Handler) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.sessionUser(r)
		if user == nil {
			h.redirectFlash(w, r, "/login/", "error", "You are not authorized! Please log in.")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// currentUser returns the user RequireLogin stored in the context, or
// re-reads the cookie on unguarded routes.
func (h *Handler) currentUser(r *http.Request) *models.User {
	if user, ok := r.Context().Value(userKey).(*models.User); ok {
		return user
	}
	return h.sessionUser(r)
}

func (h *Handler) sessionUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] == nil {
		return nil
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil
	}

	user, err := h.Users.GetByID(r.Context(), sub)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("load session user: %v", err)
		}
		return nil
	}
	return user
}

func (h *Handler) issueSession(w http.ResponseWriter, userID string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
	return nil
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
