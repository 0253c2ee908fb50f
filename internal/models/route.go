package models

import "fmt"

// StopType controls whether a stop can originate or terminate a segment
type StopType string

const (
	StopTypePickup  StopType = "pickup"  // Passengers board only
	StopTypeDropoff StopType = "dropoff" // Passengers disembark only
	StopTypeBoth    StopType = "both"    // Board and disembark
)

// Route represents a multi-stop ferry route
type Route struct {
	ID          string  `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	BaseFare    float64 `json:"base_fare" db:"base_fare"` // Per-hop price used to derive segment fares
	StopCount   int     `json:"stop_count" db:"stop_count"`
	IsActive    bool    `json:"is_active" db:"is_active"`
	CreatedAt   int64   `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt   int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// Stop represents one call point on a route (from route_stops table)
type Stop struct {
	ID       string   `json:"id" db:"id"`
	RouteID  string   `json:"route_id" db:"route_id"`
	IslandID string   `json:"island_id" db:"island_id"`
	Sequence int      `json:"sequence" db:"sequence"` // 1-based, strictly increasing and contiguous
	StopType StopType `json:"stop_type" db:"stop_type"`
	// Minutes from the prior stop; nil for the first stop
	TravelTimeFromPrevious *int  `json:"travel_time_from_previous" db:"travel_time_from_previous"`
	CreatedAt              int64 `json:"created_at" db:"created_at"`
}

// Segment is a bookable pickup->dropoff pair of stops. Segments are derived
// from the stop list, never stored as primary entities; their fares are
// persisted keyed by the (from_index, to_index) pair.
type Segment struct {
	FromIndex  int    `json:"from_index"`
	ToIndex    int    `json:"to_index"`
	FromStopID string `json:"from_stop_id"`
	ToStopID   string `json:"to_stop_id"`
}

// Key returns the composite fare key for this segment, e.g. "0-3"
func (s Segment) Key() string {
	return SegmentKey(s.FromIndex, s.ToIndex)
}

// SegmentKey builds the composite fare key for a (from, to) index pair
func SegmentKey(fromIndex, toIndex int) string {
	return fmt.Sprintf("%d-%d", fromIndex, toIndex)
}

// RouteWithStops represents a route with its ordered stops and segment fares
type RouteWithStops struct {
	Route
	Stops []StopWithIsland `json:"stops"`
	Fares []SegmentFare    `json:"fares"`
}

// StopWithIsland is a stop joined with its island for display
type StopWithIsland struct {
	Stop
	IslandName string `json:"island_name" db:"island_name"`
	IslandCode string `json:"island_code" db:"island_code"`
}

// StopInput is one stop in a create/update route request
type StopInput struct {
	IslandID               string   `json:"island_id"`
	StopType               StopType `json:"stop_type"`
	TravelTimeFromPrevious *int     `json:"travel_time_from_previous,omitempty"`
}

// CreateRouteRequest is the request body for POST /api/routes
type CreateRouteRequest struct {
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	BaseFare    float64     `json:"base_fare"`
	Stops       []StopInput `json:"stops"`
}

// UpdateRouteRequest is the request body for PATCH /api/routes/:id
type UpdateRouteRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	BaseFare    *float64    `json:"base_fare,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
	Stops       []StopInput `json:"stops,omitempty"`
}
