package handlers

import "net/http"

// Routes binds every endpoint. The users list and registration are
// public; everything else sits behind the session guard.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /login/{$}", h.LoginPage)
	mux.HandleFunc("POST /login/{$}", h.Login)
	mux.HandleFunc("POST /logout/{$}", h.Logout)

	mux.HandleFunc("GET /users/{$}", h.UsersIndex)
	mux.HandleFunc("GET /users/create/{$}", h.UserCreatePage)
	mux.HandleFunc("POST /users/create/{$}", h.UserCreate)
	mux.HandleFunc("GET /users/{id}/update/{$}", h.RequireLogin(h.UserUpdatePage))
	mux.HandleFunc("POST /users/{id}/update/{$}", h.RequireLogin(h.UserUpdate))
	mux.HandleFunc("GET /users/{id}/delete/{$}", h.RequireLogin(h.UserDeletePage))
	mux.HandleFunc("POST /users/{id}/delete/{$}", h.RequireLogin(h.UserDelete))

	mux.HandleFunc("GET /statuses/{$}", h.RequireLogin(h.StatusesIndex))
	mux.HandleFunc("GET /statuses/create/{$}", h.RequireLogin(h.StatusCreatePage))
	mux.HandleFunc("POST /statuses/create/{$}", h.RequireLogin(h.StatusCreate))
	mux.HandleFunc("GET /statuses/{id}/update/{$}", h.RequireLogin(h.StatusUpdatePage))
	mux.HandleFunc("POST /statuses/{id}/update/{$}", h.RequireLogin(h.StatusUpdate))
	mux.HandleFunc("GET /statuses/{id}/delete/{$}", h.RequireLogin(h.StatusDeletePage))
	mux.HandleFunc("POST /statuses/{id}/delete/{$}", h.RequireLogin(h.StatusDelete))

	mux.HandleFunc("GET /labels/{$}", h.RequireLogin(h.LabelsIndex))
	mux.HandleFunc("GET /labels/create/{$}", h.RequireLogin(h.LabelCreatePage))
	mux.HandleFunc("POST /labels/create/{$}", h.RequireLogin(h.LabelCreate))
	mux.HandleFunc("GET /labels/{id}/update/{$}", h.RequireLogin(h.LabelUpdatePage))
	mux.HandleFunc("POST /labels/{id}/update/{$}", h.RequireLogin(h.LabelUpdate))
	mux.HandleFunc("GET /labels/{id}/delete/{$}", h.RequireLogin(h.LabelDeletePage))
	mux.HandleFunc("POST /labels/{id}/delete/{$}", h.RequireLogin(h.LabelDelete))

	mux.HandleFunc("GET /tasks/{$}", h.RequireLogin(h.TasksIndex))
	mux.HandleFunc("GET /tasks/create/{$}", h.RequireLogin(h.TaskCreatePage))
	mux.HandleFunc("POST /tasks/create/{$}", h.RequireLogin(h.TaskCreate))
	mux.HandleFunc("GET /tasks/{id}/{$}", h.RequireLogin(h.TaskDetail))
	mux.HandleFunc("GET /tasks/{id}/update/{$}", h.RequireLogin(h.TaskUpdatePage))
	mux.HandleFunc("POST /tasks/{id}/update/{$}", h.RequireLogin(h.TaskUpdate))
	mux.HandleFunc("GET /tasks/{id}/delete/{$}", h.RequireLogin(h.TaskDeletePage))
	mux.HandleFunc("POST /tasks/{id}/delete/{$}", h.RequireLogin(h.TaskDelete))

	mux.HandleFunc("GET /ws", h.RequireLogin(h.HandleWebSocket))

	mux.HandleFunc("/", h.NotFound)
	return mux
}
