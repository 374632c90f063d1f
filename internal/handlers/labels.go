package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chepyr/go-task-manager/internal/forms"
	"github.com/chepyr/go-task-manager/internal/models"
	"github.com/google/uuid"
)

/*
handles routes (all behind RequireLogin):
- GET /labels/ - list
- GET/POST /labels/create/
- GET/POST /labels/{id}/update/
- GET/POST /labels/{id}/delete/ - no in-use protection, deletion detaches
*/
func (h *Handler) LabelsIndex(w http.ResponseWriter, r *http.Request) {
	labels, err := h.Labels.List(r.Context())
	if err != nil {
		log.Printf("list labels: %v", err)
		http.Error(w, "Failed to list labels", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "labels_index", map[string]any{"Labels": labels})
}

func (h *Handler) LabelCreatePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "labels_form", map[string]any{"Form": &forms.NameForm{}})
}

func (h *Handler) LabelCreate(w http.ResponseWriter, r *http.Request) {
	form := forms.NameFormFromRequest(r)
	taken, err := h.Labels.NameExists(r.Context(), form.Name, uuid.Nil)
	if err != nil {
		log.Printf("check label name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "labels_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs),
		})
		return
	}

	label := &models.Label{ID: uuid.New(), Name: form.Name, CreatedAt: time.Now().UTC()}
	if err := h.Labels.Create(r.Context(), label); err != nil {
		log.Printf("create label: %v", err)
		http.Error(w, "Cannot save label", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/labels/", "success", "Label has been created successfully.")
}

func (h *Handler) LabelUpdatePage(w http.ResponseWriter, r *http.Request) {
	label, ok := h.labelFromPath(w, r)
	if !ok {
		return
	}
	form := &forms.NameForm{Name: label.Name}
	h.render(w, r, "labels_form", map[string]any{"Form": form, "Update": true})
}

func (h *Handler) LabelUpdate(w http.ResponseWriter, r *http.Request) {
	label, ok := h.labelFromPath(w, r)
	if !ok {
		return
	}
	form := forms.NameFormFromRequest(r)
	taken, err := h.Labels.NameExists(r.Context(), form.Name, label.ID)
	if err != nil {
		log.Printf("check label name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	if errs := form.Validate(taken); !errs.Empty() {
		h.render(w, r, "labels_form", map[string]any{
			"Form": form, "Errors": h.localizeErrors(errs), "Update": true,
		})
		return
	}

	label.Name = form.Name
	if err := h.Labels.Update(r.Context(), label); err != nil {
		log.Printf("update label: %v", err)
		http.Error(w, "Cannot update label", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/labels/", "success", "Label has been updated successfully.")
}

func (h *Handler) LabelDeletePage(w http.ResponseWriter, r *http.Request) {
	label, ok := h.labelFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, r, "labels_delete", map[string]any{"Target": label})
}

func (h *Handler) LabelDelete(w http.ResponseWriter, r *http.Request) {
	label, ok := h.labelFromPath(w, r)
	if !ok {
		return
	}
	if err := h.Labels.Delete(r.Context(), label.ID); err != nil {
		log.Printf("delete label: %v", err)
		http.Error(w, "Cannot delete label", http.StatusInternalServerError)
		return
	}
	h.redirectFlash(w, r, "/labels/", "success", "Label has been deleted successfully.")
}

func (h *Handler) labelFromPath(w http.ResponseWriter, r *http.Request) (*models.Label, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.NotFound(w, r)
		return nil, false
	}
	label, err := h.Labels.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("load label %s: %v", id, err)
		}
		h.NotFound(w, r)
		return nil, false
	}
	return label, true
}
