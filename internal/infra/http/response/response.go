// Package response writes the JSON envelope every API response uses.
package response

import (
	"encoding/json"
	"net/http"
	"time"
)

type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
	Stack      string `json:"stack,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message answers 200 with only a message, for mutations with no body.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

func Page(w http.ResponseWriter, data, pagination any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: pagination})
}

func Error(w http.ResponseWriter, status int, errMsg, message string) {
	JSON(w, status, Envelope{Success: false, Error: errMsg, Message: message})
}

// NotFound is the catch-all for unmatched routes and methods.
func NotFound(w http.ResponseWriter, r *http.Request, status int) {
	errMsg := "Not Found"
	if status == http.StatusMethodNotAllowed {
		errMsg = "Method Not Allowed"
	}
	JSON(w, status, Envelope{
		Success:   false,
		Error:     errMsg,
		Message:   "Route " + r.URL.Path + " not found",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
