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

// GetVessels returns all vessels in the fleet
func GetVessels(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var vessels []models.Vessel
		err := db.Select(&vessels, `
			SELECT id, name, registration, status, seat_count, created_at, updated_at
			FROM vessels
			ORDER BY name ASC
		`)
		if err != nil {
			http.Error(w, "Failed to fetch vessels", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vessels)
	}
}

// GetVessel returns a single vessel with its seat map
func GetVessel(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselID := chi.URLParam(r, "id")

		var vessel models.Vessel
		err := db.Get(&vessel, `
			SELECT id, name, registration, status, seat_count, created_at, updated_at
			FROM vessels WHERE id = $1
		`, vesselID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vessel", http.StatusInternalServerError)
			return
		}

		var seats []models.Seat
		err = db.Select(&seats, `
			SELECT id, vessel_id, seat_number, row_number, is_window, is_aisle, seat_class, is_premium, is_disabled, created_at
			FROM seats
			WHERE vessel_id = $1
			ORDER BY row_number ASC, seat_number ASC
		`, vesselID)
		if err != nil {
			http.Error(w, "Failed to fetch seats", http.StatusInternalServerError)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"vessel": vessel,
			"seats":  seats,
		})
	}
}

// GetVesselSeats returns just the seat map, the shape seat pickers consume
func GetVesselSeats(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselID := chi.URLParam(r, "id")

		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM vessels WHERE id = $1)`, vesselID); err != nil {
			http.Error(w, "Failed to check vessel", http.StatusInternalServerError)
			return
		}
		if !exists {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}

		var seats []models.Seat
		err := db.Select(&seats, `
			SELECT id, vessel_id, seat_number, row_number, is_window, is_aisle, seat_class, is_premium, is_disabled, created_at
			FROM seats
			WHERE vessel_id = $1
			ORDER BY row_number ASC, seat_number ASC
		`, vesselID)
		if err != nil {
			http.Error(w, "Failed to fetch seats", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(seats)
	}
}

func validVesselStatus(status models.VesselStatus) bool {
	switch status {
	case models.VesselStatusActive, models.VesselStatusInactive, models.VesselStatusMaintenance:
		return true
	}
	return false
}

// CreateVessel registers a new vessel, optionally with its full seat map
func CreateVessel(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateVesselRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Name == "" || req.Registration == "" {
			http.Error(w, "Missing required fields: name and registration", http.StatusBadRequest)
			return
		}

		status := req.Status
		if status == "" {
			status = models.VesselStatusActive
		}
		if !validVesselStatus(status) {
			http.Error(w, "Invalid status. Must be: active, inactive, or maintenance", http.StatusBadRequest)
			return
		}

		var exists bool
		err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM vessels WHERE registration = $1)`, req.Registration)
		if err != nil {
			http.Error(w, "Failed to check registration", http.StatusInternalServerError)
			return
		}
		if exists {
			utils.RespondError(w, http.StatusConflict, "A vessel with this registration already exists")
			return
		}

		vesselID := uuid.New().String()
		now := time.Now().Unix()

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to create vessel", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO vessels (id, name, registration, status, seat_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, vesselID, req.Name, req.Registration, status, len(req.Seats), now, now)
		if err != nil {
			log.Printf("❌ Failed to insert vessel: %v", err)
			http.Error(w, "Failed to create vessel", http.StatusInternalServerError)
			return
		}

		if err := insertSeats(tx, vesselID, req.Seats, now); err != nil {
			log.Printf("❌ Failed to insert seats: %v", err)
			http.Error(w, "Failed to create seats", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to create vessel", http.StatusInternalServerError)
			return
		}

		log.Printf("🛳️  Vessel %s (%s) created with %d seats", req.Name, req.Registration, len(req.Seats))

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"id":         vesselID,
			"seat_count": len(req.Seats),
		})
	}
}

func insertSeats(tx *sqlx.Tx, vesselID string, seats []models.SeatInput, now int64) error {
	for _, seat := range seats {
		_, err := tx.Exec(`
			INSERT INTO seats (id, vessel_id, seat_number, row_number, is_window, is_aisle, seat_class, is_premium, is_disabled, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.New().String(), vesselID, seat.SeatNumber, seat.RowNumber, seat.IsWindow, seat.IsAisle, seat.SeatClass, seat.IsPremium, seat.IsDisabled, now)
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateVessel updates vessel name and status
func UpdateVessel(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselID := chi.URLParam(r, "id")

		var req models.UpdateVesselRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var vessel models.Vessel
		err := db.Get(&vessel, `SELECT * FROM vessels WHERE id = $1`, vesselID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vessel", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			vessel.Name = *req.Name
		}
		if req.Status != nil {
			if !validVesselStatus(*req.Status) {
				http.Error(w, "Invalid status. Must be: active, inactive, or maintenance", http.StatusBadRequest)
				return
			}
			vessel.Status = *req.Status
		}

		_, err = db.Exec(`
			UPDATE vessels SET name = $1, status = $2, updated_at = $3 WHERE id = $4
		`, vessel.Name, vessel.Status, time.Now().Unix(), vesselID)
		if err != nil {
			http.Error(w, "Failed to update vessel", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, vessel)
	}
}

// ReplaceVesselSeats rewrites the full seat map for a vessel. Blocked while
// the vessel has trips that are not completed or cancelled, since reseating
// live trips must go through a vessel swap instead.
func ReplaceVesselSeats(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselID := chi.URLParam(r, "id")

		var req models.ReplaceSeatsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Seats) == 0 {
			http.Error(w, "Seat list cannot be empty", http.StatusBadRequest)
			return
		}

		var liveTrips int
		err := db.Get(&liveTrips, `
			SELECT COUNT(*) FROM trips
			WHERE vessel_id = $1 AND status NOT IN ('completed', 'cancelled')
		`, vesselID)
		if err != nil {
			http.Error(w, "Failed to check vessel trips", http.StatusInternalServerError)
			return
		}
		if liveTrips > 0 {
			utils.RespondError(w, http.StatusConflict, "Vessel has active trips; seats cannot be rewritten")
			return
		}

		now := time.Now().Unix()

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to replace seats", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM seats WHERE vessel_id = $1`, vesselID); err != nil {
			http.Error(w, "Failed to replace seats", http.StatusInternalServerError)
			return
		}

		if err := insertSeats(tx, vesselID, req.Seats, now); err != nil {
			log.Printf("❌ Failed to insert seats: %v", err)
			http.Error(w, "Failed to replace seats", http.StatusInternalServerError)
			return
		}

		result, err := tx.Exec(`
			UPDATE vessels SET seat_count = $1, updated_at = $2 WHERE id = $3
		`, len(req.Seats), now, vesselID)
		if err != nil {
			http.Error(w, "Failed to replace seats", http.StatusInternalServerError)
			return
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to replace seats", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{
			"success":    true,
			"seat_count": len(req.Seats),
		})
	}
}

// DeleteVessel removes a vessel with no trips
func DeleteVessel(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselID := chi.URLParam(r, "id")

		var tripCount int
		if err := db.Get(&tripCount, `SELECT COUNT(*) FROM trips WHERE vessel_id = $1`, vesselID); err != nil {
			http.Error(w, "Failed to check vessel usage", http.StatusInternalServerError)
			return
		}
		if tripCount > 0 {
			utils.RespondError(w, http.StatusConflict, "Vessel has trips and cannot be deleted")
			return
		}

		result, err := db.Exec(`DELETE FROM vessels WHERE id = $1`, vesselID)
		if err != nil {
			http.Error(w, "Failed to delete vessel", http.StatusInternalServerError)
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}

		log.Printf("🗑️  Vessel %s deleted", vesselID)
		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}
