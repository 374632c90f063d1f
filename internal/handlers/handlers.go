package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/chepyr/go-task-manager/internal/db"
	"github.com/chepyr/go-task-manager/internal/flash"
	"github.com/chepyr/go-task-manager/internal/forms"
	"github.com/chepyr/go-task-manager/internal/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	Users    *db.UserRepository
	Statuses *db.StatusRepository
	Labels   *db.LabelRepository
	Tasks    *db.TaskRepository

	RateLimiter *RateLimiter
	Hub         *WSHub
	JWTSecret   []byte
	Lang        i18n.Lang

	templates *template.Template
}

func NewHandler(
	users *db.UserRepository,
	statuses *db.StatusRepository,
	labels *db.LabelRepository,
	tasks *db.TaskRepository,
	rateLimiter *RateLimiter,
	jwtSecret []byte,
	lang i18n.Lang,
) *Handler {
	h := &Handler{
		Users:       users,
		Statuses:    statuses,
		Labels:      labels,
		Tasks:       tasks,
		RateLimiter: rateLimiter,
		Hub:         NewWSHub(),
		JWTSecret:   jwtSecret,
		Lang:        lang,
	}
	h.templates = template.Must(
		template.New("").Funcs(template.FuncMap{
			"t":   h.tr,
			"has": hasString,
		}).ParseFS(templateFS, "templates/*.html"))
	return h
}

func hasString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (h *Handler) tr(msg string) string {
	return i18n.T(h.Lang, msg)
}

// render wires the shared page context (pending flash notice, session
// user) into the template data and writes the page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = flash.Pop(w, r)
	}
	if _, ok := data["CurrentUser"]; !ok {
		data["CurrentUser"] = h.sessionUser(r)
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (h *Handler) localizeErrors(errs forms.Errors) forms.Errors {
	out := forms.Errors{}
	for field, msgs := range errs {
		for _, msg := range msgs {
			out.Add(field, h.tr(msg))
		}
	}
	return out
}

// redirectFlash sets a one-shot notice and redirects, the shape every
// successful or rejected mutation responds with.
func (h *Handler) redirectFlash(w http.ResponseWriter, r *http.Request, url, level, msg string) {
	flash.Set(w, level, h.tr(msg))
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", nil)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.render(w, r, "404", nil)
}

type RateLimiter struct {
	attempts map[string]int
	limit    int
	mutex    sync.Mutex
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rateLimiter := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rateLimiter.cleanup()
	return rateLimiter
}

// reset the attempts map every window duration
func (rateLimiter *RateLimiter) cleanup() {
	for range time.Tick(rateLimiter.window) {
		rateLimiter.mutex.Lock()
		rateLimiter.attempts = make(map[string]int)
		rateLimiter.mutex.Unlock()
	}
}

func (rateLimiter *RateLimiter) Allow(ip string) bool {
	rateLimiter.mutex.Lock()
	defer rateLimiter.mutex.Unlock()

	count, exists := rateLimiter.attempts[ip]
	if !exists {
		rateLimiter.attempts[ip] = 1
		return true
	}
	if count >= rateLimiter.limit {
		return false
	}
	rateLimiter.attempts[ip]++
	return true
}
