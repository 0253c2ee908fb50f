package handlers

import (
	"net/http"

	"ferryops-backend/internal/middleware"
)

// getClaims pulls the authenticated user's claims from the request context
func getClaims(r *http.Request) (middleware.UserClaims, bool) {
	return middleware.GetUserFromContext(r)
}

// Broadcaster pushes live updates to connected dashboard clients. Satisfied
// by *websocket.Hub; handlers take the interface so tests can pass nil or a
// recording fake.
type Broadcaster interface {
	SendToUser(userID string, data interface{})
	BroadcastToRole(role string, data interface{})
	BroadcastAll(data interface{})
}
