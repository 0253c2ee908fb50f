package models

// VesselStatus represents the operational status of a vessel
type VesselStatus string

const (
	VesselStatusActive      VesselStatus = "active"
	VesselStatusInactive    VesselStatus = "inactive"
	VesselStatusMaintenance VesselStatus = "maintenance"
)

// Vessel represents a ferry in the fleet
type Vessel struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Registration string       `json:"registration" db:"registration"`
	Status       VesselStatus `json:"status" db:"status"`
	SeatCount    int          `json:"seat_count" db:"seat_count"`
	CreatedAt    int64        `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt    int64        `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// Seat represents a physical seat on a vessel (from seats table)
type Seat struct {
	ID         string  `json:"id" db:"id"`
	VesselID   string  `json:"vessel_id" db:"vessel_id"`
	SeatNumber string  `json:"seat_number" db:"seat_number"` // e.g. "12A", sortable naturally
	RowNumber  int     `json:"row_number" db:"row_number"`
	IsWindow   bool    `json:"is_window" db:"is_window"`
	IsAisle    bool    `json:"is_aisle" db:"is_aisle"`
	SeatClass  *string `json:"seat_class,omitempty" db:"seat_class"`
	IsPremium  bool    `json:"is_premium" db:"is_premium"`
	IsDisabled bool    `json:"is_disabled" db:"is_disabled"` // Blocked from sale/allocation
	CreatedAt  int64   `json:"created_at" db:"created_at"`
}

// SeatInput is one seat in a replace-seat-map request
type SeatInput struct {
	SeatNumber string  `json:"seat_number"`
	RowNumber  int     `json:"row_number"`
	IsWindow   bool    `json:"is_window"`
	IsAisle    bool    `json:"is_aisle"`
	SeatClass  *string `json:"seat_class,omitempty"`
	IsPremium  bool    `json:"is_premium"`
	IsDisabled bool    `json:"is_disabled"`
}

// CreateVesselRequest is the request body for POST /api/vessels
type CreateVesselRequest struct {
	Name         string       `json:"name"`
	Registration string       `json:"registration"`
	Status       VesselStatus `json:"status,omitempty"`
	Seats        []SeatInput  `json:"seats,omitempty"`
}

// UpdateVesselRequest is the request body for PATCH /api/vessels/:id
type UpdateVesselRequest struct {
	Name         *string       `json:"name,omitempty"`
	Registration *string       `json:"registration,omitempty"`
	Status       *VesselStatus `json:"status,omitempty"`
}

// ReplaceSeatsRequest is the request body for PUT /api/vessels/:id/seats
type ReplaceSeatsRequest struct {
	Seats []SeatInput `json:"seats"`
}
