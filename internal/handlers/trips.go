package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ferryops-backend/internal/database"
	"ferryops-backend/internal/models"
	"ferryops-backend/internal/services"
	"ferryops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetTrips returns all trips joined with route and vessel names
func GetTrips(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT t.id, t.route_id, t.vessel_id, t.departure_time, t.arrival_time, t.status,
			       t.created_at, t.updated_at,
			       r.name AS route_name, v.name AS vessel_name, v.seat_count AS vessel_capacity,
			       (SELECT COUNT(*) FROM passengers p
			        INNER JOIN bookings b ON p.booking_id = b.id
			        WHERE b.trip_id = t.id AND b.status = 'confirmed') AS booked_seats
			FROM trips t
			INNER JOIN routes r ON t.route_id = r.id
			INNER JOIN vessels v ON t.vessel_id = v.id
		`

		args := []interface{}{}
		if status := r.URL.Query().Get("status"); status != "" {
			query += ` WHERE t.status = $1`
			args = append(args, status)
		}
		query += ` ORDER BY t.departure_time ASC`

		var trips []models.TripWithDetails
		if err := db.Select(&trips, query, args...); err != nil {
			log.Printf("❌ Failed to fetch trips: %v", err)
			http.Error(w, "Failed to fetch trips", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trips)
	}
}

// GetTripByID returns a single trip with details
func GetTripByID(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var trip models.TripWithDetails
		err := db.Get(&trip, `
			SELECT t.id, t.route_id, t.vessel_id, t.departure_time, t.arrival_time, t.status,
			       t.created_at, t.updated_at,
			       r.name AS route_name, v.name AS vessel_name, v.seat_count AS vessel_capacity,
			       (SELECT COUNT(*) FROM passengers p
			        INNER JOIN bookings b ON p.booking_id = b.id
			        WHERE b.trip_id = t.id AND b.status = 'confirmed') AS booked_seats
			FROM trips t
			INNER JOIN routes r ON t.route_id = r.id
			INNER JOIN vessels v ON t.vessel_id = v.id
			WHERE t.id = $1
		`, tripID)
		if err == sql.ErrNoRows {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trip)
	}
}

// CreateTrip schedules a sailing of a route on a vessel
func CreateTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.RouteID == "" || req.VesselID == "" || req.DepartureTime == 0 {
			http.Error(w, "Missing required fields: route_id, vessel_id, departure_time", http.StatusBadRequest)
			return
		}
		if req.ArrivalTime != nil && *req.ArrivalTime <= req.DepartureTime {
			http.Error(w, "arrival_time must be after departure_time", http.StatusBadRequest)
			return
		}

		var vessel models.Vessel
		err := db.Get(&vessel, `SELECT * FROM vessels WHERE id = $1`, req.VesselID)
		if err == sql.ErrNoRows {
			http.Error(w, "Vessel not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch vessel", http.StatusInternalServerError)
			return
		}
		if vessel.Status != models.VesselStatusActive {
			utils.RespondError(w, http.StatusConflict, "Vessel is not active")
			return
		}

		var routeExists bool
		if err := db.Get(&routeExists, `SELECT EXISTS(SELECT 1 FROM routes WHERE id = $1 AND is_active = TRUE)`, req.RouteID); err != nil {
			http.Error(w, "Failed to check route", http.StatusInternalServerError)
			return
		}
		if !routeExists {
			http.Error(w, "Route not found or inactive", http.StatusNotFound)
			return
		}

		// Same half-open overlap rule the swap validator uses, so a trip
		// that could never receive this vessel in a swap cannot be
		// scheduled onto it either.
		proposed := models.Trip{
			DepartureTime: req.DepartureTime,
			ArrivalTime:   req.ArrivalTime,
		}
		existing, err := database.GetTripsForVessel(db, req.VesselID)
		if err != nil {
			http.Error(w, "Failed to check vessel schedule", http.StatusInternalServerError)
			return
		}
		if conflictID := services.FindScheduleConflict(proposed, existing); conflictID != "" {
			utils.RespondError(w, http.StatusConflict, "Vessel is already scheduled for an overlapping trip")
			return
		}

		tripID := uuid.New().String()
		now := time.Now().Unix()

		_, err = db.Exec(`
			INSERT INTO trips (id, route_id, vessel_id, departure_time, arrival_time, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7)
		`, tripID, req.RouteID, req.VesselID, req.DepartureTime, req.ArrivalTime, now, now)
		if err != nil {
			log.Printf("❌ Failed to insert trip: %v", err)
			http.Error(w, "Failed to create trip", http.StatusInternalServerError)
			return
		}

		log.Printf("🗓️  Trip %s scheduled on vessel %s", tripID, vessel.Name)

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"id": tripID})
	}
}

// UpdateTrip reschedules a trip that has not started boarding
func UpdateTrip(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.UpdateTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		trip, err := database.GetTrip(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}
		if trip == nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}

		if trip.Status.IsUnderway() || trip.Status == models.TripStatusCancelled {
			utils.RespondError(w, http.StatusConflict, "Trip can no longer be rescheduled")
			return
		}

		if req.DepartureTime != nil {
			trip.DepartureTime = *req.DepartureTime
		}
		if req.ArrivalTime != nil {
			trip.ArrivalTime = req.ArrivalTime
		}
		if trip.ArrivalTime != nil && *trip.ArrivalTime <= trip.DepartureTime {
			http.Error(w, "arrival_time must be after departure_time", http.StatusBadRequest)
			return
		}

		existing, err := database.GetTripsForVessel(db, trip.VesselID)
		if err != nil {
			http.Error(w, "Failed to check vessel schedule", http.StatusInternalServerError)
			return
		}
		if conflictID := services.FindScheduleConflict(*trip, existing); conflictID != "" && conflictID != trip.ID {
			utils.RespondError(w, http.StatusConflict, "Vessel is already scheduled for an overlapping trip")
			return
		}

		_, err = db.Exec(`
			UPDATE trips SET departure_time = $1, arrival_time = $2, updated_at = $3 WHERE id = $4
		`, trip.DepartureTime, trip.ArrivalTime, time.Now().Unix(), tripID)
		if err != nil {
			http.Error(w, "Failed to update trip", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, trip)
	}
}

// tripStatusTransitions is the allowed forward path of a trip's lifecycle.
// Cancellation is allowed from any non-terminal state.
var tripStatusTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripStatusScheduled: {models.TripStatusBoarding, models.TripStatusCancelled},
	models.TripStatusBoarding:  {models.TripStatusDeparted, models.TripStatusCancelled},
	models.TripStatusDeparted:  {models.TripStatusCompleted},
}

func transitionAllowed(from, to models.TripStatus) bool {
	for _, next := range tripStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateTripStatus moves a trip along its lifecycle
func UpdateTripStatus(db *sqlx.DB, hub Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.UpdateTripStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		trip, err := database.GetTrip(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}
		if trip == nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}

		if !transitionAllowed(trip.Status, req.Status) {
			utils.RespondError(w, http.StatusConflict, "Invalid status transition from "+string(trip.Status)+" to "+string(req.Status))
			return
		}

		_, err = db.Exec(`
			UPDATE trips SET status = $1, updated_at = $2 WHERE id = $3
		`, req.Status, time.Now().Unix(), tripID)
		if err != nil {
			http.Error(w, "Failed to update trip status", http.StatusInternalServerError)
			return
		}

		log.Printf("🔄 Trip %s: %s → %s", tripID, trip.Status, req.Status)

		if hub != nil {
			hub.BroadcastAll(map[string]interface{}{
				"type":    "trip_status_changed",
				"trip_id": tripID,
				"status":  req.Status,
			})
		}

		utils.RespondSuccess(w, map[string]interface{}{
			"id":     tripID,
			"status": req.Status,
		})
	}
}

// GetTripFareOverrides returns the per-trip fare overrides
func GetTripFareOverrides(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		overrides, err := database.GetTripFareOverrides(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch fare overrides", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(overrides)
	}
}

// SaveTripFareOverrides replaces the per-trip fare overrides. Override keys
// must refer to valid segments of the trip's route.
func SaveTripFareOverrides(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.SaveFaresRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		trip, err := database.GetTrip(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}
		if trip == nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}

		stops, err := database.GetRouteStops(db, trip.RouteID)
		if err != nil {
			http.Error(w, "Failed to fetch route stops", http.StatusInternalServerError)
			return
		}
		segments, err := services.EnumerateSegments(stops)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		valid := make(map[string]bool, len(segments))
		for _, seg := range segments {
			valid[seg.Key()] = true
		}
		for _, entry := range req.Fares {
			if entry.Fare < 0 {
				utils.RespondError(w, http.StatusBadRequest, "fares must be non-negative")
				return
			}
			if !valid[models.SegmentKey(entry.FromIndex, entry.ToIndex)] {
				utils.RespondError(w, http.StatusBadRequest, "override "+models.SegmentKey(entry.FromIndex, entry.ToIndex)+" is not a sellable segment of this route")
				return
			}
		}

		if err := database.SaveTripFareOverrides(db, tripID, req.Fares); err != nil {
			log.Printf("❌ Failed to save fare overrides: %v", err)
			http.Error(w, "Failed to save fare overrides", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{
			"success":        true,
			"override_count": len(req.Fares),
		})
	}
}

// GetTripEffectiveFares returns the route's fare map with the trip's
// overrides applied, which is what booking quotes are priced from
func GetTripEffectiveFares(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		trip, err := database.GetTrip(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}
		if trip == nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}

		baseFares, err := database.GetSegmentFareMap(db, trip.RouteID)
		if err != nil {
			http.Error(w, "Failed to fetch segment fares", http.StatusInternalServerError)
			return
		}

		overrides, err := database.GetTripFareOverrides(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch fare overrides", http.StatusInternalServerError)
			return
		}

		effective := services.ApplyOverrides(baseFares, overrides)

		utils.RespondSuccess(w, map[string]interface{}{
			"trip_id": tripID,
			"fares":   effective,
		})
	}
}
