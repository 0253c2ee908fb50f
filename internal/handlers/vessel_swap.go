package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"ferryops-backend/internal/database"
	"ferryops-backend/internal/models"
	"ferryops-backend/internal/services"
	"ferryops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// buildSwapPlan loads everything a swap needs, runs validation, and plans the
// reseating. Shared between preview and apply so both always agree.
func buildSwapPlan(db *sqlx.DB, tripID, newVesselID string) (*models.VesselSwapPlan, *models.Trip, error) {
	trip, err := database.GetTrip(db, tripID)
	if err != nil {
		return nil, nil, err
	}
	if trip == nil {
		return nil, nil, sql.ErrNoRows
	}

	var candidate models.Vessel
	err = db.Get(&candidate, `SELECT * FROM vessels WHERE id = $1`, newVesselID)
	if err != nil {
		return nil, nil, err
	}

	seats, err := database.GetSeatsForVessel(db, newVesselID)
	if err != nil {
		return nil, nil, err
	}

	passengerCount, err := database.CountConfirmedPassengers(db, tripID)
	if err != nil {
		return nil, nil, err
	}

	candidateTrips, err := database.GetTripsForVessel(db, newVesselID)
	if err != nil {
		return nil, nil, err
	}

	swapCtx := services.VesselSwapContext{
		Trip:                *trip,
		Candidate:           candidate,
		CandidateSeatCount:  len(seats),
		ConfirmedPassengers: passengerCount,
		CandidateTrips:      candidateTrips,
		Now:                 time.Now(),
	}
	if err := services.ValidateVesselSwap(swapCtx); err != nil {
		return nil, trip, err
	}

	passengers, err := database.GetSeatedPassengersForTrip(db, tripID)
	if err != nil {
		return nil, trip, err
	}

	rearrangements, err := services.PlanReallocation(passengers, seats)
	if err != nil {
		return nil, trip, err
	}

	plan := &models.VesselSwapPlan{
		TripID:         tripID,
		OldVesselID:    trip.VesselID,
		NewVesselID:    newVesselID,
		Rearrangements: rearrangements,
		Complete:       len(rearrangements) == len(passengers),
	}
	if !plan.Complete {
		seated := make(map[string]bool, len(rearrangements))
		for _, move := range rearrangements {
			seated[move.PassengerID] = true
		}
		for _, p := range passengers {
			if !seated[p.PassengerID] {
				plan.Unassigned = append(plan.Unassigned, p.PassengerID)
			}
		}
	}
	return plan, trip, nil
}

// respondSwapError maps swap validation failures onto HTTP statuses
func respondSwapError(w http.ResponseWriter, err error) {
	var tripState *services.TripStateError
	var inactive *services.VesselInactiveError
	var capacity *services.InsufficientCapacityError
	var conflict *services.ScheduleConflictError

	switch {
	case err == sql.ErrNoRows:
		http.Error(w, "Trip or vessel not found", http.StatusNotFound)
	case errors.Is(err, services.ErrDeparturePassed):
		utils.RespondError(w, http.StatusConflict, "Trip departure time has already passed")
	case errors.Is(err, services.ErrNoSeatsAvailable):
		utils.RespondError(w, http.StatusConflict, "Replacement vessel has no usable seats")
	case errors.As(err, &tripState),
		errors.As(err, &inactive),
		errors.As(err, &capacity),
		errors.As(err, &conflict):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("❌ Vessel swap failed: %v", err)
		http.Error(w, "Vessel swap failed", http.StatusInternalServerError)
	}
}

// PreviewVesselSwap validates a proposed swap and returns the full reseating
// plan without touching any data
func PreviewVesselSwap(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.VesselSwapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.NewVesselID == "" {
			http.Error(w, "Missing required field: new_vessel_id", http.StatusBadRequest)
			return
		}

		plan, trip, err := buildSwapPlan(db, tripID, req.NewVesselID)
		if err != nil {
			respondSwapError(w, err)
			return
		}
		if trip.VesselID == req.NewVesselID {
			utils.RespondError(w, http.StatusBadRequest, "Trip is already on this vessel")
			return
		}

		utils.RespondSuccess(w, plan)
	}
}

// ApplyVesselSwap re-validates the swap, applies the reseating plan in one
// transaction, then notifies connected dashboards and mobile devices
func ApplyVesselSwap(db *sqlx.DB, hub Broadcaster, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.VesselSwapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.NewVesselID == "" {
			http.Error(w, "Missing required field: new_vessel_id", http.StatusBadRequest)
			return
		}

		plan, trip, err := buildSwapPlan(db, tripID, req.NewVesselID)
		if err != nil {
			respondSwapError(w, err)
			return
		}
		if trip.VesselID == req.NewVesselID {
			utils.RespondError(w, http.StatusBadRequest, "Trip is already on this vessel")
			return
		}
		if !plan.Complete {
			// An incomplete plan leaves passengers without seats; the client
			// must resolve the shortfall (cancel bookings, pick another
			// vessel) rather than silently stranding people.
			utils.RespondJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false,
				"error":   "Replacement vessel cannot seat every passenger",
				"plan":    plan,
			})
			return
		}

		claims, _ := getClaims(r)

		if err := database.ApplyVesselSwap(db, trip, req.NewVesselID, plan.Rearrangements, claims.UserID, claims.Email); err != nil {
			log.Printf("❌ Failed to apply vessel swap: %v", err)
			utils.RespondError(w, http.StatusConflict, err.Error())
			return
		}

		var newVesselName string
		if err := db.Get(&newVesselName, `SELECT name FROM vessels WHERE id = $1`, req.NewVesselID); err != nil {
			newVesselName = req.NewVesselID
		}

		log.Printf("⚓ Trip %s moved to vessel %s (%d passengers reseated)", tripID, newVesselName, len(plan.Rearrangements))

		if hub != nil {
			hub.BroadcastAll(map[string]interface{}{
				"type":             "vessel_swapped",
				"trip_id":          tripID,
				"old_vessel_id":    plan.OldVesselID,
				"new_vessel_id":    plan.NewVesselID,
				"moved_passengers": len(plan.Rearrangements),
			})
		}

		if fcm != nil {
			go notifyVesselSwap(db, fcm, tripID, newVesselName, len(plan.Rearrangements))
		}

		utils.RespondSuccess(w, plan)
	}
}

// notifyVesselSwap pushes the swap to every registered staff device.
// Runs in the background; delivery failures are logged and dropped.
func notifyVesselSwap(db *sqlx.DB, fcm *services.FCMService, tripID, vesselName string, movedPassengers int) {
	var tokens []string
	err := db.Select(&tokens, `SELECT token FROM fcm_tokens`)
	if err != nil {
		log.Printf("⚠️ Failed to load FCM tokens: %v", err)
		return
	}

	for _, token := range tokens {
		if err := fcm.SendVesselSwapNotification(token, tripID, vesselName, movedPassengers); err != nil {
			log.Printf("⚠️ FCM send failed: %v", err)
		}
	}
}

// GetVesselSwapHistory returns the audit log of applied swaps
func GetVesselSwapHistory(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var swaps []models.VesselSwap
		err := db.Select(&swaps, `
			SELECT id, trip_id, old_vessel_id, new_vessel_id, moved_passengers, actor_id, actor_name, created_at
			FROM vessel_swaps
			ORDER BY created_at DESC
		`)
		if err != nil {
			http.Error(w, "Failed to fetch swap history", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(swaps)
	}
}
