// Package flash carries one-shot notices across a redirect in a cookie,
// read and cleared on the next rendered page.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

type Message struct {
	Level string `json:"level"` // "success", "error", "info"
	Text  string `json:"text"`
}

func Set(w http.ResponseWriter, level, text string) {
	raw, err := json.Marshal(Message{Level: level, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
	})
}

// Pop returns the pending notice, if any, and expires its cookie.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	msg := &Message{}
	if err := json.Unmarshal(raw, msg); err != nil {
		return nil
	}
	return msg
}
