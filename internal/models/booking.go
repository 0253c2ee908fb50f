package models

// BookingStatus represents the state of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking groups one or more passengers travelling together on a trip
type Booking struct {
	ID           string        `json:"id" db:"id"`
	TripID       string        `json:"trip_id" db:"trip_id"`
	Reference    string        `json:"reference" db:"reference"` // Human-facing booking reference
	ContactName  string        `json:"contact_name" db:"contact_name"`
	ContactPhone *string       `json:"contact_phone,omitempty" db:"contact_phone"`
	FromIndex    int           `json:"from_index" db:"from_index"` // Boarding stop index on the route
	ToIndex      int           `json:"to_index" db:"to_index"`     // Alighting stop index on the route
	TotalFare    float64       `json:"total_fare" db:"total_fare"`
	Status       BookingStatus `json:"status" db:"status"`
	CreatedAt    int64         `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt    int64         `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// Passenger is one traveller under a booking, with their seat reservation.
// TripID duplicates the booking's trip so seat uniqueness can be enforced
// per trip with a single-table index.
type Passenger struct {
	ID        string  `json:"id" db:"id"`
	BookingID string  `json:"booking_id" db:"booking_id"`
	TripID    string  `json:"trip_id" db:"trip_id"`
	Name      string  `json:"name" db:"name"`
	SeatID    *string `json:"seat_id" db:"seat_id"` // nil when unseated
	CreatedAt int64   `json:"created_at" db:"created_at"`
}

// BookingWithPassengers is a booking with its passenger list
type BookingWithPassengers struct {
	Booking
	Passengers []PassengerWithSeat `json:"passengers"`
}

// PassengerWithSeat is a passenger joined with their reserved seat, when any
type PassengerWithSeat struct {
	Passenger
	SeatNumber *string `json:"seat_number" db:"seat_number"`
	RowNumber  *int    `json:"row_number" db:"row_number"`
	IsWindow   *bool   `json:"is_window" db:"is_window"`
	IsAisle    *bool   `json:"is_aisle" db:"is_aisle"`
}

// PassengerInput is one passenger in a create-booking request
type PassengerInput struct {
	Name   string  `json:"name"`
	SeatID *string `json:"seat_id,omitempty"`
}

// CreateBookingRequest is the request body for POST /api/trips/:id/bookings
type CreateBookingRequest struct {
	ContactName  string           `json:"contact_name"`
	ContactPhone *string          `json:"contact_phone,omitempty"`
	FromIndex    int              `json:"from_index"`
	ToIndex      int              `json:"to_index"`
	Passengers   []PassengerInput `json:"passengers"`
}

// UpdatePassengerSeatRequest is the request body for PATCH /api/passengers/:id/seat
type UpdatePassengerSeatRequest struct {
	SeatID *string `json:"seat_id"`
}
