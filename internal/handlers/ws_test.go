package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// a connected client receives the event broadcast when a task is created
func TestWebSocketReceivesTaskEvents(t *testing.T) {
	h, mux, _ := setupApp(t)
	user := createUser(t, h, "ivan", "abc")
	session := sessionFor(t, h, user)
	status := createStatus(t, h, "new")

	srv := httptest.NewServer(mux)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Cookie": {session.String()}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	// the server registers the connection right after the handshake
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.Hub.mutex.Lock()
		registered := len(h.Hub.connections) > 0
		h.Hub.mutex.Unlock()
		if registered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	form := url.Values{"name": {"task1"}, "status": {status.ID.String()}}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tasks/create/", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(session)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var event struct {
		Event string `json:"event"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("unmarshal broadcast: %v", err)
	}
	if event.Event != "task_created" || event.Name != "task1" {
		t.Fatalf("unexpected event: %s", raw)
	}
}

// a client whose write fails is dropped; the others still receive events
func TestWebSocketBroadcastDropsDeadConnections(t *testing.T) {
	h, mux, _ := setupApp(t)
	user := createUser(t, h, "ivan", "abc")
	session := sessionFor(t, h, user)
	status := createStatus(t, h, "new")

	srv := httptest.NewServer(mux)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Cookie": {session.String()}}

	alive, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer alive.Close()

	dead, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		h.Hub.mutex.Lock()
		registered := len(h.Hub.connections)
		h.Hub.mutex.Unlock()
		if registered == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 registered connections, got %d", registered)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// close the underlying socket so the next write to it fails
	dead.UnderlyingConn().Close()

	task := createTask(t, h, "task1", status, user, nil)
	h.Hub.BroadcastTaskEvent("task_created", task)
	h.Hub.BroadcastTaskEvent("task_updated", task)

	alive.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := alive.ReadMessage(); err != nil {
		t.Fatalf("live connection missed the broadcast: %v", err)
	}

	deadline = time.Now().Add(2 * time.Second)
	for {
		h.Hub.mutex.Lock()
		remaining := len(h.Hub.connections)
		h.Hub.mutex.Unlock()
		if remaining == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("dead connection not dropped, %d still registered", remaining)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
