package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ferryops-backend/internal/models"
	"ferryops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "operator", "crew", or "admin"
}

type CreateUserResponse struct {
	Success bool                 `json:"success"`
	User    *models.UserResponse `json:"user,omitempty"`
	Message string               `json:"message,omitempty"`
}

var validRoles = map[string]bool{"operator": true, "crew": true, "admin": true}

// GetUsers returns all users for the admin permissions screen
func GetUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		err := db.Select(&users, `SELECT * FROM users ORDER BY created_at DESC`)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i := range users {
			responses[i] = users[i].ToUserResponse()
		}

		utils.RespondSuccess(w, responses)
	}
}

// CreateUser creates a new user (operator/crew/admin)
// Requires admin authentication
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email, password, name, and role are required")
			return
		}

		if !validRoles[req.Role] {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'operator', 'crew', or 'admin'")
			return
		}

		// Check if user already exists
		var existingUser models.User
		err := db.Get(&existingUser, "SELECT id FROM users WHERE email = $1", req.Email)
		if err == nil {
			utils.RespondError(w, http.StatusConflict, "User with this email already exists")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hashedPassword),
			Name:      req.Name,
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Email, user.Password, user.Name, user.Role, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ User created: %s (%s)", user.Email, user.Role)

		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusCreated, CreateUserResponse{
			Success: true,
			User:    &userResponse,
			Message: "User created successfully",
		})
	}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole changes a user's role
// Requires admin authentication
func UpdateUserRole(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		var req UpdateUserRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !validRoles[req.Role] {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'operator', 'crew', or 'admin'")
			return
		}

		result, err := db.Exec(`
			UPDATE users SET role = $1, updated_at = $2 WHERE id = $3
		`, req.Role, time.Now().Unix(), userID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update role")
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}

		log.Printf("✅ User %s role changed to %s", userID, req.Role)
		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}

// DeleteUser removes a user account
// Requires admin authentication
func DeleteUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		result, err := db.Exec(`DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}

		log.Printf("🗑️  User %s deleted", userID)
		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"` // "ios" or "android"
}

// RegisterFCMToken stores a device's push token for the authenticated user
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := getClaims(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" || (req.DeviceType != "ios" && req.DeviceType != "android") {
			utils.RespondError(w, http.StatusBadRequest, "token and device_type ('ios'/'android') are required")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (token) DO UPDATE SET user_id = $1, device_type = $3, updated_at = $5
		`, claims.UserID, req.Token, req.DeviceType, now, now)
		if err != nil {
			log.Printf("❌ Failed to register FCM token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}
