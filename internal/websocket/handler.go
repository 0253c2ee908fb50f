package websocket

import (
	"log"
	"net/http"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile/admin clients connect from app webviews; origin is not
		// meaningful here and auth happens via the token below
		return true
	},
}

// HandleWebSocket upgrades an HTTP connection to WebSocket. Browsers cannot
// set headers on WebSocket requests, so the JWT arrives as a query parameter.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			log.Println("❌ [WEBSOCKET] Missing token")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		jwtSecret := os.Getenv("APP_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("❌ [WEBSOCKET] JWT secret not configured")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			log.Printf("❌ [WEBSOCKET] Invalid token: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" || role == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ [WEBSOCKET] Upgrade failed: %v", err)
			return
		}

		client := NewClient(userID, role, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
