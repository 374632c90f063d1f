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
)

/*
handles routes (all behind RequireLogin):
- GET /statuses/ - list
- GET/POST /statuses/create/
- GET/POST /statuses/{id}/update/
- GET/POST /statuses/{id}/delete/ - blocked while tasks reference the status
*/
func (h *Handler) StatusesIndex(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Statuses.List(r.Context())
	if err != nil {
		log.Printf("list statuses: %v", err)
		http.Error(w, "Failed to list statuses", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "statuses_index", map[string]any{"Statuses": statuses})
}

func (h *Handler) StatusCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "statuses_form", map[string]any{"Form": &forms.NameForm{}})
}

func (h *Handler) StatusCreate(w http.ResponseWriter, r *http.Request) {
	form := forms.NameFormFromRequest(r)
	taken, err := h.Statuses.NameExists(r.Context(), form.Name, uuid.Nil)
	if err != nil {
		log.Printf("check status name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "statuses_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs),
		})
		return
	}

	status := &models.Status{ID: uuid.New(), Name: form.Name, CreatedAt: time.Now().UTC()}
	if err := h.Statuses.Create(r.Context(), status); err != nil {
		log.Printf("create status: %v", err)
		http.Error(w, "Cannot save status", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/statuses/", "success", "Status has been created successfully.")
}

func (h *Handler) StatusUpdatePage(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFromPath(w, r)
	if !ok {
		return
	}
	form := &forms.NameForm{Name: status.Name}
	h.render(w, r, "statuses_form", map[string]any{"Form": form, "Update": true})
}

func (h *Handler) StatusUpdate(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFromPath(w, r)
	if !ok {
		return
	}
	form := forms.NameFormFromRequest(r)
	taken, err := h.Statuses.NameExists(r.Context(), form.Name, status.ID)
	if err != nil {
		log.Printf("check status name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "statuses_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs), "Update": true,
		})
		return
	}

	status.Name = form.Name
	if err := h.Statuses.Update(r.Context(), status); err != nil {
		log.Printf("update status: %v", err)
		http.Error(w, "Cannot update status", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/statuses/", "success", "Status has been updated successfully.")
}

func (h *Handler) StatusDeletePage(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, r, "statuses_delete", map[string]any{"Target": status})
}

func (h *Handler) StatusDelete(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFromPath(w, r)
	if !ok {
		return
	}
	err := h.Statuses.Delete(r.Context(), status.ID)
	switch {
	case errors.Is(err, db.ErrInUse):
		h.redirectFlash(w, r, "/statuses/", "error", "Cannot delete status because it is in use.")
		return
	case err != nil:
		log.Printf("delete status: %v", err)
		http.Error(w, "Cannot delete status", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/statuses/", "success", "Status has been deleted successfully.")
}

func (h *Handler) statusFromPath(w http.ResponseWriter, r *http.Request) (*models.Status, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.NotFound(w, r)
		return nil, false
	}
	status, err := h.Statuses.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("load status %s: %v", id, err)
		}
		h.NotFound(w, r)
		return nil, false
	}
	return status, true
}
