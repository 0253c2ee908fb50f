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

// GetRoutes returns all routes
func GetRoutes(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var routes []models.Route
		err := db.Select(&routes, `
			SELECT id, name, description, base_fare, stop_count, is_active, created_at, updated_at
			FROM routes
			ORDER BY created_at DESC
		`)
		if err != nil {
			http.Error(w, "Failed to fetch routes", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(routes)
	}
}

// GetRoute returns a single route with its stops and segment fares
func GetRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var route models.Route
		err := db.Get(&route, `
			SELECT id, name, description, base_fare, stop_count, is_active, created_at, updated_at
			FROM routes
			WHERE id = $1
		`, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		var stops []models.StopWithIsland
		err = db.Select(&stops, `
			SELECT rs.id, rs.route_id, rs.island_id, rs.sequence, rs.stop_type,
			       rs.travel_time_from_previous, rs.created_at,
			       i.name AS island_name, i.code AS island_code
			FROM route_stops rs
			INNER JOIN islands i ON rs.island_id = i.id
			WHERE rs.route_id = $1
			ORDER BY rs.sequence ASC
		`, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route stops", http.StatusInternalServerError)
			return
		}

		fares, err := database.GetSegmentFares(db, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch segment fares", http.StatusInternalServerError)
			return
		}

		response := models.RouteWithStops{
			Route: route,
			Stops: stops,
			Fares: fares,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// stopsFromInputs builds stop records from request inputs. Sequence is
// assigned 1-based from list position, which keeps it contiguous by
// construction; the first stop never carries a travel time.
func stopsFromInputs(routeID string, inputs []models.StopInput, now int64) []models.Stop {
	stops := make([]models.Stop, len(inputs))
	for i, input := range inputs {
		travelTime := input.TravelTimeFromPrevious
		if i == 0 {
			travelTime = nil
		}
		stops[i] = models.Stop{
			ID:                     uuid.New().String(),
			RouteID:                routeID,
			IslandID:               input.IslandID,
			Sequence:               i + 1,
			StopType:               input.StopType,
			TravelTimeFromPrevious: travelTime,
			CreatedAt:              now,
		}
	}
	return stops
}

// validateStopList runs fare generation and coverage validation over a
// proposed stop list. It returns the generated fares when the list is valid,
// or the full violation list to hand back to the client.
func validateStopList(stops []models.Stop, baseFare float64) (map[string]float64, *services.ValidationResult, error) {
	fares, err := services.GenerateFares(stops, baseFare)
	if err != nil {
		return nil, nil, err
	}

	result := services.ValidateSegmentCoverage(stops, fares)
	if !result.Valid {
		return nil, &result, nil
	}
	return fares, nil, nil
}

// CreateRoute creates a route with its stops and auto-generated segment fares
func CreateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Name == "" || len(req.Stops) == 0 {
			http.Error(w, "Missing required fields: name and stops", http.StatusBadRequest)
			return
		}
		if req.BaseFare < 0 {
			http.Error(w, "base_fare must be non-negative", http.StatusBadRequest)
			return
		}

		routeID := uuid.New().String()
		now := time.Now().Unix()
		stops := stopsFromInputs(routeID, req.Stops, now)

		fares, violations, err := validateStopList(stops, req.BaseFare)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if violations != nil {
			utils.RespondJSON(w, http.StatusBadRequest, violations)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to create route", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO routes (id, name, description, base_fare, stop_count, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7)
		`, routeID, req.Name, req.Description, req.BaseFare, len(stops), now, now)
		if err != nil {
			log.Printf("❌ Failed to insert route: %v", err)
			http.Error(w, "Failed to create route", http.StatusInternalServerError)
			return
		}

		for _, stop := range stops {
			_, err = tx.Exec(`
				INSERT INTO route_stops (id, route_id, island_id, sequence, stop_type, travel_time_from_previous, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, stop.ID, stop.RouteID, stop.IslandID, stop.Sequence, stop.StopType, stop.TravelTimeFromPrevious, stop.CreatedAt)
			if err != nil {
				log.Printf("❌ Failed to insert stop %d: %v", stop.Sequence, err)
				http.Error(w, "Failed to create route stops", http.StatusInternalServerError)
				return
			}
		}

		segments, _ := services.EnumerateSegments(stops)
		for _, seg := range segments {
			_, err = tx.Exec(`
				INSERT INTO segment_fares (id, route_id, from_index, to_index, from_stop_id, to_stop_id, fare, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, uuid.New().String(), routeID, seg.FromIndex, seg.ToIndex, seg.FromStopID, seg.ToStopID, fares[seg.Key()], now)
			if err != nil {
				log.Printf("❌ Failed to insert fare %s: %v", seg.Key(), err)
				http.Error(w, "Failed to create segment fares", http.StatusInternalServerError)
				return
			}
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to create route", http.StatusInternalServerError)
			return
		}

		log.Printf("✅ Route %s created with %d stops and %d segment fares", routeID, len(stops), len(segments))

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"id":            routeID,
			"stop_count":    len(stops),
			"segment_count": len(segments),
		})
	}
}

// UpdateRoute updates route fields; when stops are supplied the full stop
// list is rewritten and segment fares are regenerated from the base fare
func UpdateRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req models.UpdateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var route models.Route
		err := db.Get(&route, `SELECT * FROM routes WHERE id = $1`, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			route.Name = *req.Name
		}
		if req.Description != nil {
			route.Description = req.Description
		}
		if req.BaseFare != nil {
			if *req.BaseFare < 0 {
				http.Error(w, "base_fare must be non-negative", http.StatusBadRequest)
				return
			}
			route.BaseFare = *req.BaseFare
		}
		if req.IsActive != nil {
			route.IsActive = *req.IsActive
		}

		now := time.Now().Unix()

		var stops []models.Stop
		var fares map[string]float64
		if len(req.Stops) > 0 {
			stops = stopsFromInputs(routeID, req.Stops, now)

			generated, violations, err := validateStopList(stops, route.BaseFare)
			if err != nil {
				utils.RespondError(w, http.StatusBadRequest, err.Error())
				return
			}
			if violations != nil {
				utils.RespondJSON(w, http.StatusBadRequest, violations)
				return
			}
			fares = generated
			route.StopCount = len(stops)
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to update route", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			UPDATE routes SET name = $1, description = $2, base_fare = $3, stop_count = $4, is_active = $5, updated_at = $6
			WHERE id = $7
		`, route.Name, route.Description, route.BaseFare, route.StopCount, route.IsActive, now, routeID)
		if err != nil {
			http.Error(w, "Failed to update route", http.StatusInternalServerError)
			return
		}

		if stops != nil {
			if _, err := tx.Exec(`DELETE FROM segment_fares WHERE route_id = $1`, routeID); err != nil {
				http.Error(w, "Failed to rewrite segment fares", http.StatusInternalServerError)
				return
			}
			if _, err := tx.Exec(`DELETE FROM route_stops WHERE route_id = $1`, routeID); err != nil {
				http.Error(w, "Failed to rewrite route stops", http.StatusInternalServerError)
				return
			}

			for _, stop := range stops {
				_, err = tx.Exec(`
					INSERT INTO route_stops (id, route_id, island_id, sequence, stop_type, travel_time_from_previous, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
				`, stop.ID, stop.RouteID, stop.IslandID, stop.Sequence, stop.StopType, stop.TravelTimeFromPrevious, stop.CreatedAt)
				if err != nil {
					http.Error(w, "Failed to rewrite route stops", http.StatusInternalServerError)
					return
				}
			}

			segments, _ := services.EnumerateSegments(stops)
			for _, seg := range segments {
				_, err = tx.Exec(`
					INSERT INTO segment_fares (id, route_id, from_index, to_index, from_stop_id, to_stop_id, fare, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				`, uuid.New().String(), routeID, seg.FromIndex, seg.ToIndex, seg.FromStopID, seg.ToStopID, fares[seg.Key()], now)
				if err != nil {
					http.Error(w, "Failed to rewrite segment fares", http.StatusInternalServerError)
					return
				}
			}
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to update route", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, route)
	}
}

// DeleteRoute removes a route with no scheduled trips
func DeleteRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var tripCount int
		if err := db.Get(&tripCount, `SELECT COUNT(*) FROM trips WHERE route_id = $1`, routeID); err != nil {
			http.Error(w, "Failed to check route usage", http.StatusInternalServerError)
			return
		}
		if tripCount > 0 {
			utils.RespondError(w, http.StatusConflict, "Route has scheduled trips and cannot be deleted")
			return
		}

		result, err := db.Exec(`DELETE FROM routes WHERE id = $1`, routeID)
		if err != nil {
			http.Error(w, "Failed to delete route", http.StatusInternalServerError)
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}

		log.Printf("🗑️  Route %s deleted", routeID)
		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}

type GenerateFaresRequest struct {
	BaseFare *float64 `json:"base_fare,omitempty"`
}

type GenerateFaresResponse struct {
	Segments []models.Segment   `json:"segments"`
	Fares    map[string]float64 `json:"fares"`
	BaseFare float64            `json:"base_fare"`
}

// GenerateRouteFaresPreview recomputes the fare map for a route's current
// stops without persisting anything, so the form can show the result first
func GenerateRouteFaresPreview(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req GenerateFaresRequest
		if r.Body != nil {
			// Body is optional; an empty body means "use the route's base fare"
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		var route models.Route
		err := db.Get(&route, `SELECT * FROM routes WHERE id = $1`, routeID)
		if err == sql.ErrNoRows {
			http.Error(w, "Route not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch route", http.StatusInternalServerError)
			return
		}

		baseFare := route.BaseFare
		if req.BaseFare != nil {
			baseFare = *req.BaseFare
		}

		stops, err := database.GetRouteStops(db, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route stops", http.StatusInternalServerError)
			return
		}

		fares, err := services.GenerateFares(stops, baseFare)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		segments, err := services.EnumerateSegments(stops)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		utils.RespondSuccess(w, GenerateFaresResponse{
			Segments: segments,
			Fares:    fares,
			BaseFare: baseFare,
		})
	}
}

// SaveRouteFares replaces a route's fare map after validating full segment
// coverage. Validation accumulates every violation so the form can show the
// complete list at once.
func SaveRouteFares(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var req models.SaveFaresRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		stops, err := database.GetRouteStops(db, routeID)
		if err != nil {
			http.Error(w, "Failed to fetch route stops", http.StatusInternalServerError)
			return
		}

		fares := make(map[string]float64, len(req.Fares))
		for _, entry := range req.Fares {
			if entry.Fare < 0 {
				utils.RespondError(w, http.StatusBadRequest, "fares must be non-negative")
				return
			}
			fares[models.SegmentKey(entry.FromIndex, entry.ToIndex)] = entry.Fare
		}

		result := services.ValidateSegmentCoverage(stops, fares)
		if !result.Valid {
			utils.RespondJSON(w, http.StatusBadRequest, result)
			return
		}

		if err := database.SaveSegmentFares(db, routeID, stops, fares); err != nil {
			log.Printf("❌ Failed to save segment fares: %v", err)
			http.Error(w, "Failed to save segment fares", http.StatusInternalServerError)
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{
			"success":    true,
			"fare_count": len(fares),
		})
	}
}
