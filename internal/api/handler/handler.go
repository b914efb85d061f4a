// Package handler wires the HTTP and WebSocket API to the complaint
// pipeline, the store, and the auth layer.
package handler

import (
	"sync"

	"railcrm/backend/internal/complaint"
	"railcrm/backend/internal/storage"
)

// Handler carries the service dependencies for all routes.
type Handler struct {
	Storage    storage.Storage
	Complaints *complaint.Service

	jwtSecret []byte

	// One pipeline session per authenticated user, created lazily. The
	// session enforces single-flight submission per user.
	sessionsMu sync.Mutex
	sessions   map[string]*complaint.Session
}

func NewHandler(s storage.Storage, complaints *complaint.Service, jwtSecret []byte) *Handler {
	return &Handler{
		Storage:    s,
		Complaints: complaints,
		jwtSecret:  jwtSecret,
		sessions:   make(map[string]*complaint.Session),
	}
}

// session returns the pipeline session owned by one user, creating it on
// first use.
func (h *Handler) session(userID string) *complaint.Session {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()
	s, ok := h.sessions[userID]
	if !ok {
		s = complaint.NewSession()
		h.sessions[userID] = s
	}
	return s
}
