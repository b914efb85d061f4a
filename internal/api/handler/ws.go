package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"railcrm/backend/internal/complaint"
	"railcrm/backend/internal/feed"
	"railcrm/backend/internal/taxonomy"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeComplaintFeed streams the caller's live complaint feed over a
// WebSocket: customers get their own complaints, staff and admins get the
// role-scoped queue. Each snapshot is the complete newest-first result set.
// Closing the socket closes the subscription.
func (h *Handler) ServeComplaintFeed(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Cannot determine access scope"})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var sub *feed.Subscription
	if taxonomy.NormalizeRole(user.Role) == taxonomy.RoleUser {
		sub, err = h.Complaints.OpenOwnFeed(ctx, userID)
	} else {
		sub, err = h.Complaints.OpenFeed(ctx, userID)
	}
	if errors.Is(err, complaint.ErrAccessScope) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Cannot determine access scope"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to open feed"})
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade feed connection for user %s: %v", userID, err)
		return
	}
	defer conn.Close()

	// Reader: the client never sends data, but reading is how we learn the
	// screen was closed, and how pongs are consumed.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-sub.Updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(gin.H{"complaints": snapshot}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
