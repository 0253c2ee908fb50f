package models

// TripStatus represents the lifecycle state of a scheduled trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusBoarding  TripStatus = "boarding"
	TripStatusDeparted  TripStatus = "departed"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// IsUnderway reports whether the trip has started boarding or later.
// Vessel changes are only permitted before this point.
func (s TripStatus) IsUnderway() bool {
	return s == TripStatusBoarding || s == TripStatusDeparted || s == TripStatusCompleted
}

// Trip represents one scheduled sailing of a route on a vessel
type Trip struct {
	ID            string     `json:"id" db:"id"`
	RouteID       string     `json:"route_id" db:"route_id"`
	VesselID      string     `json:"vessel_id" db:"vessel_id"`
	DepartureTime int64      `json:"departure_time" db:"departure_time"` // Unix timestamp
	ArrivalTime   *int64     `json:"arrival_time" db:"arrival_time"`     // Unix timestamp, nil when not scheduled
	Status        TripStatus `json:"status" db:"status"`
	CreatedAt     int64      `json:"created_at" db:"created_at"`
	UpdatedAt     int64      `json:"updated_at" db:"updated_at"`
}

// TripWithDetails is a trip joined with route and vessel names for listings
type TripWithDetails struct {
	Trip
	RouteName      string `json:"route_name" db:"route_name"`
	VesselName     string `json:"vessel_name" db:"vessel_name"`
	BookedSeats    int    `json:"booked_seats" db:"booked_seats"`
	VesselCapacity int    `json:"vessel_capacity" db:"vessel_capacity"`
}

// CreateTripRequest is the request body for POST /api/trips
type CreateTripRequest struct {
	RouteID       string `json:"route_id"`
	VesselID      string `json:"vessel_id"`
	DepartureTime int64  `json:"departure_time"`
	ArrivalTime   *int64 `json:"arrival_time,omitempty"`
}

// UpdateTripRequest is the request body for PATCH /api/trips/:id
type UpdateTripRequest struct {
	DepartureTime *int64 `json:"departure_time,omitempty"`
	ArrivalTime   *int64 `json:"arrival_time,omitempty"`
}

// UpdateTripStatusRequest is the request body for POST /api/trips/:id/status
type UpdateTripStatusRequest struct {
	Status TripStatus `json:"status"`
}

// VesselSwapRequest is the request body for the vessel-swap endpoints
type VesselSwapRequest struct {
	NewVesselID string `json:"new_vessel_id"`
}
