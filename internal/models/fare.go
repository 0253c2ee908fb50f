package models

// SegmentFare is the route-level fare for one segment (from segment_fares table)
type SegmentFare struct {
	ID         string  `json:"id" db:"id"`
	RouteID    string  `json:"route_id" db:"route_id"`
	FromIndex  int     `json:"from_index" db:"from_index"`
	ToIndex    int     `json:"to_index" db:"to_index"`
	FromStopID string  `json:"from_stop_id" db:"from_stop_id"`
	ToStopID   string  `json:"to_stop_id" db:"to_stop_id"`
	Fare       float64 `json:"fare" db:"fare"`
	CreatedAt  int64   `json:"created_at" db:"created_at"` // Unix timestamp
}

// Key returns the composite fare key, matching Segment.Key()
func (f SegmentFare) Key() string {
	return SegmentKey(f.FromIndex, f.ToIndex)
}

// TripFareOverride supersedes the route-level fare for one segment on one
// scheduled trip (from trip_fare_overrides table)
type TripFareOverride struct {
	ID        string  `json:"id" db:"id"`
	TripID    string  `json:"trip_id" db:"trip_id"`
	FromIndex int     `json:"from_index" db:"from_index"`
	ToIndex   int     `json:"to_index" db:"to_index"`
	Fare      float64 `json:"fare" db:"fare"`
	CreatedAt int64   `json:"created_at" db:"created_at"` // Unix timestamp
}

// Key returns the composite fare key, matching Segment.Key()
func (o TripFareOverride) Key() string {
	return SegmentKey(o.FromIndex, o.ToIndex)
}

// FareEntry is one segment fare in a save/preview payload
type FareEntry struct {
	FromIndex int     `json:"from_index"`
	ToIndex   int     `json:"to_index"`
	Fare      float64 `json:"fare"`
}

// SaveFaresRequest is the request body for PUT /api/routes/:id/fares
// and PUT /api/trips/:id/fare-overrides
type SaveFaresRequest struct {
	Fares []FareEntry `json:"fares"`
}
