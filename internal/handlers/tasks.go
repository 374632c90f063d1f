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
- GET /tasks/ - filtered list (status, executor, labels, author=on)
- GET/POST /tasks/create/
- GET /tasks/{id}/ - detail
- GET/POST /tasks/{id}/update/
- GET/POST /tasks/{id}/delete/ - author only
*/
func (h *Handler) TasksIndex(w http.ResponseWriter, r *http.Request) {
	filter := db.TaskFilter{
		StatusID:   r.URL.Query().Get("status"),
		ExecutorID: r.URL.Query().Get("executor"),
		LabelID:    r.URL.Query().Get("labels"),
	}
	if r.URL.Query().Get("author") == "on" {
		filter.AuthorID = h.currentUser(r).ID.String()
	}

	tasks, err := h.Tasks.List(r.Context(), filter)
	if err != nil {
		log.Printf("list tasks: %v", err)
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}
	opts, err := h.taskFormOptions(r)
	if err != nil {
		http.Error(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}
	data := map[string]any{
		"Tasks":      tasks,
		"Filter":     filter,
		"AuthorOnly": filter.AuthorID != "",
	}
	for k, v := range opts {
		data[k] = v
	}
	h.render(w, r, "tasks_index", data)
}

func (h *Handler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}
	h.render(w, r, "tasks_detail", map[string]any{"Task": task})
}

func (h *Handler) TaskCreatePage(w http.ResponseWriter, r *http.Request) {
	opts, err := h.taskFormOptions(r)
	if err != nil {
		http.Error(w, "Failed to render form", http.StatusInternalServerError)
		return
	}
	opts["Form"] = &forms.TaskForm{}
	h.render(w, r, "tasks_form", opts)
}

func (h *Handler) TaskCreate(w http.ResponseWriter, r *http.Request) {
	form, err := forms.TaskFormFromRequest(r)
	if err != nil {
		http.Error(w, "Cannot parse form", http.StatusBadRequest)
		return
	}
	taken, err := h.Tasks.NameExists(r.Context(), form.Name, uuid.Nil)
	if err != nil {
		log.Printf("check task name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	errs := form.Validate(taken)
	statusID, executorID, labelIDs := h.resolveTaskRefs(r, form, errs)
	if !errs.Empty() {
		h.renderTaskForm(w, r, form, errs, false)
		return
	}

	task := &models.Task{
		ID:          uuid.New(),
		Name:        form.Name,
		Description: form.Description,
		StatusID:    statusID,
		AuthorID:    h.currentUser(r).ID,
		ExecutorID:  executorID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Tasks.Create(r.Context(), task, labelIDs); err != nil {
		log.Printf("create task: %v", err)
		http.Error(w, "Cannot save task", http.StatusInternalServerError)
		return
	}
	h.Hub.BroadcastTaskEvent("task_created", task)
	h.redirectFlash(w, r, "/tasks/", "success", "Task has been created successfully.")
}

func (h *Handler) TaskUpdatePage(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}
	form := &forms.TaskForm{
		Name:        task.Name,
		Description: task.Description,
		Status:      task.StatusID.String(),
	}
	if task.ExecutorID.Valid {
		form.Executor = task.ExecutorID.UUID.String()
	}
	for _, label := range task.Labels {
		form.Labels = append(form.Labels, label.ID.String())
	}
	h.renderTaskForm(w, r, form, nil, true)
}

func (h *Handler) TaskUpdate(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}
	form, err := forms.TaskFormFromRequest(r)
	if err != nil {
		http.Error(w, "Cannot parse form", http.StatusBadRequest)
		return
	}
	taken, err := h.Tasks.NameExists(r.Context(), form.Name, task.ID)
	if err != nil {
		log.Printf("check task name: %v", err)
		http.Error(w, "Failed to validate form", http.StatusInternalServerError)
		return
	}
	errs := form.Validate(taken)
	statusID, executorID, labelIDs := h.resolveTaskRefs(r, form, errs)
	if !errs.Empty() {
		h.renderTaskForm(w, r, form, errs, true)
		return
	}

	task.Name = form.Name
	task.Description = form.Description
	task.StatusID = statusID
	task.ExecutorID = executorID
	if err := h.Tasks.Update(r.Context(), task, labelIDs); err != nil {
		log.Printf("update task: %v", err)
		http.Error(w, "Cannot update task", http.StatusInternalServerError)
		return
	}
	h.Hub.BroadcastTaskEvent("task_updated", task)
	h.redirectFlash(w, r, "/tasks/", "success", "Task has been updated successfully.")
}

func (h *Handler) TaskDeletePage(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireAuthor(w, r, task) {
		return
	}
	h.render(w, r, "tasks_delete", map[string]any{"Target": task})
}

func (h *Handler) TaskDelete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.taskFromPath(w, r)
	if !ok {
		return
	}
	if !h.requireAuthor(w, r, task) {
		return
	}
	if err := h.Tasks.Delete(r.Context(), task.ID); err != nil {
		log.Printf("delete task: %v", err)
		http.Error(w, "Cannot delete task", http.StatusInternalServerError)
		return
	}
	h.Hub.BroadcastTaskEvent("task_deleted", task)
	h.redirectFlash(w, r, "/tasks/", "success", "Task deleted successfully")
}

// requireAuthor enforces that only the task's author may delete it.
func (h *Handler) requireAuthor(w http.ResponseWriter, r *http.Request, task *models.Task) bool {
	current := h.currentUser(r)
	if current == nil || current.ID != task.AuthorID {
		h.redirectFlash(w, r, "/tasks/", "error", "Task can be deleted only by its author")
		return false
	}
	return true
}

func (h *Handler) taskFromPath(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.NotFound(w, r)
		return nil, false
	}
	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("load task %s: %v", id, err)
		}
		h.NotFound(w, r)
		return nil, false
	}
	return task, true
}

// resolveTaskRefs turns the submitted status/executor/label ids into
// validated references, appending field errors for values that do not
// name an existing record. Empty optional fields add no error.
func (h *Handler) resolveTaskRefs(r *http.Request, form *forms.TaskForm, errs forms.Errors) (uuid.UUID, uuid.NullUUID, []uuid.UUID) {
	var statusID uuid.UUID
	if form.Status != "" {
		id, err := uuid.Parse(form.Status)
		if err == nil {
			_, err = h.Statuses.GetByID(r.Context(), form.Status)
		}
		if err != nil {
			errs.Add("status", forms.MsgInvalidChoice)
		} else {
			statusID = id
		}
	}

	var executorID uuid.NullUUID
	if form.Executor != "" {
		id, err := uuid.Parse(form.Executor)
		if err == nil {
			_, err = h.Users.GetByID(r.Context(), form.Executor)
		}
		if err != nil {
			errs.Add("executor", forms.MsgInvalidChoice)
		} else {
			executorID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	var labelIDs []uuid.UUID
	for _, raw := range form.Labels {
		id, err := uuid.Parse(raw)
		if err == nil {
			_, err = h.Labels.GetByID(r.Context(), raw)
		}
		if err != nil {
			errs.Add("labels", forms.MsgInvalidChoice)
			break
		}
		labelIDs = append(labelIDs, id)
	}
	return statusID, executorID, labelIDs
}

func (h *Handler) renderTaskForm(w http.ResponseWriter, r *http.Request, form *forms.TaskForm, errs forms.Errors, update bool) {
	opts, err := h.taskFormOptions(r)
	if err != nil {
		http.Error(w, "Failed to render form", http.StatusInternalServerError)
		return
	}
	opts["Form"] = form
	opts["Update"] = update
	if errs != nil {
		opts["Errors"] = h.localizeErrors(errs)
	}
	h.render(w, r, "tasks_form", opts)
}

// taskFormOptions loads the selectable statuses, executors and labels.
func (h *Handler) taskFormOptions(r *http.Request) (map[string]any, error) {
	statuses, err := h.Statuses.List(r.Context())
	if err != nil {
		log.Printf("list statuses: %v", err)
		return nil, err
	}
	users, err := h.Users.List(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		return nil, err
	}
	labels, err := h.Labels.List(r.Context())
	if err != nil {
		log.Printf("list labels: %v", err)
		return nil, err
	}
	return map[string]any{
		"StatusOptions":   statuses,
		"ExecutorOptions": users,
		"LabelOptions":    labels,
	}, nil
}
