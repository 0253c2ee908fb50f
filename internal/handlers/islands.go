package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ferryops-backend/internal/models"
	"ferryops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetIslands returns all islands
func GetIslands(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var islands []models.Island
		err := db.Select(&islands, `SELECT * FROM islands ORDER BY name ASC`)
		if err != nil {
			http.Error(w, "Failed to fetch islands", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(islands)
	}
}

// CreateIsland creates a new island
func CreateIsland(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateIslandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Name == "" || req.Code == "" {
			http.Error(w, "Missing required fields: name and code", http.StatusBadRequest)
			return
		}

		id := uuid.New().String()
		now := time.Now().Unix()

		_, err := db.Exec(`
			INSERT INTO islands (id, name, code, zone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, req.Name, req.Code, req.Zone, now, now)
		if err != nil {
			log.Printf("❌ Failed to create island: %v", err)
			utils.RespondError(w, http.StatusConflict, "Island code already in use")
			return
		}

		var island models.Island
		if err := db.Get(&island, `SELECT * FROM islands WHERE id = $1`, id); err != nil {
			http.Error(w, "Failed to fetch created island", http.StatusInternalServerError)
			return
		}

		utils.RespondJSON(w, http.StatusCreated, island)
	}
}

// UpdateIsland updates an island's fields
func UpdateIsland(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		islandID := chi.URLParam(r, "id")

		var req models.UpdateIslandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var island models.Island
		err := db.Get(&island, `SELECT * FROM islands WHERE id = $1`, islandID)
		if err == sql.ErrNoRows {
			http.Error(w, "Island not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch island", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			island.Name = *req.Name
		}
		if req.Code != nil {
			island.Code = *req.Code
		}
		if req.Zone != nil {
			island.Zone = req.Zone
		}

		_, err = db.Exec(`
			UPDATE islands SET name = $1, code = $2, zone = $3, updated_at = $4
			WHERE id = $5
		`, island.Name, island.Code, island.Zone, time.Now().Unix(), islandID)
		if err != nil {
			utils.RespondError(w, http.StatusConflict, "Island code already in use")
			return
		}

		utils.RespondSuccess(w, island)
	}
}

// DeleteIsland removes an island that no route references
func DeleteIsland(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		islandID := chi.URLParam(r, "id")

		var inUse int
		if err := db.Get(&inUse, `SELECT COUNT(*) FROM route_stops WHERE island_id = $1`, islandID); err != nil {
			http.Error(w, "Failed to check island usage", http.StatusInternalServerError)
			return
		}
		if inUse > 0 {
			utils.RespondError(w, http.StatusConflict, "Island is referenced by one or more routes")
			return
		}

		result, err := db.Exec(`DELETE FROM islands WHERE id = $1`, islandID)
		if err != nil {
			http.Error(w, "Failed to delete island", http.StatusInternalServerError)
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			http.Error(w, "Island not found", http.StatusNotFound)
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}
