package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"
)

// RoutePerformance aggregates bookings and revenue per route
type RoutePerformance struct {
	RouteID        string  `json:"route_id" db:"route_id"`
	RouteName      string  `json:"route_name" db:"route_name"`
	TripCount      int     `json:"trip_count" db:"trip_count"`
	BookingCount   int     `json:"booking_count" db:"booking_count"`
	PassengerCount int     `json:"passenger_count" db:"passenger_count"`
	Revenue        float64 `json:"revenue" db:"revenue"`
}

// GetRoutePerformance returns per-route totals over confirmed bookings
func GetRoutePerformance(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []RoutePerformance
		err := db.Select(&rows, `
			SELECT r.id AS route_id, r.name AS route_name,
			       (SELECT COUNT(*) FROM trips t
			        WHERE t.route_id = r.id AND t.status != 'cancelled') AS trip_count,
			       (SELECT COUNT(*) FROM bookings b
			        INNER JOIN trips t ON b.trip_id = t.id
			        WHERE t.route_id = r.id AND b.status = 'confirmed') AS booking_count,
			       (SELECT COUNT(*) FROM passengers p
			        INNER JOIN bookings b ON p.booking_id = b.id
			        INNER JOIN trips t ON b.trip_id = t.id
			        WHERE t.route_id = r.id AND b.status = 'confirmed') AS passenger_count,
			       COALESCE((SELECT SUM(b.total_fare) FROM bookings b
			        INNER JOIN trips t ON b.trip_id = t.id
			        WHERE t.route_id = r.id AND b.status = 'confirmed'), 0) AS revenue
			FROM routes r
			ORDER BY revenue DESC, r.name ASC
		`)
		if err != nil {
			http.Error(w, "Failed to compute route performance", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	}
}

// TripOccupancy reports how full each upcoming trip is
type TripOccupancy struct {
	TripID        string  `json:"trip_id" db:"trip_id"`
	RouteName     string  `json:"route_name" db:"route_name"`
	VesselName    string  `json:"vessel_name" db:"vessel_name"`
	DepartureTime int64   `json:"departure_time" db:"departure_time"`
	SeatCount     int     `json:"seat_count" db:"seat_count"`
	BookedSeats   int     `json:"booked_seats" db:"booked_seats"`
	Occupancy     float64 `json:"occupancy" db:"occupancy"`
}

// GetTripOccupancy returns occupancy for trips that have not completed
func GetTripOccupancy(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []TripOccupancy
		err := db.Select(&rows, `
			SELECT t.id AS trip_id, r.name AS route_name, v.name AS vessel_name,
			       t.departure_time, v.seat_count,
			       COUNT(p.id) AS booked_seats,
			       CASE WHEN v.seat_count > 0
			            THEN ROUND(COUNT(p.id)::NUMERIC / v.seat_count, 4)
			            ELSE 0 END AS occupancy
			FROM trips t
			INNER JOIN routes r ON t.route_id = r.id
			INNER JOIN vessels v ON t.vessel_id = v.id
			LEFT JOIN bookings b ON b.trip_id = t.id AND b.status = 'confirmed'
			LEFT JOIN passengers p ON p.booking_id = b.id
			WHERE t.status NOT IN ('completed', 'cancelled')
			GROUP BY t.id, r.name, v.name, t.departure_time, v.seat_count
			ORDER BY t.departure_time ASC
		`)
		if err != nil {
			http.Error(w, "Failed to compute trip occupancy", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	}
}
