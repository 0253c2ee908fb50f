package services

import (
	"errors"
	"fmt"

	"ferryops-backend/internal/models"
)

// Sentinel errors for structurally invalid input. The planners never error on
// normal edge cases (empty optional fields, shortfalls); they degrade instead.
var (
	// ErrInsufficientStops is returned when a route has fewer than two stops
	ErrInsufficientStops = errors.New("route requires at least two stops")

	// ErrNoSeatsAvailable is returned when the replacement vessel has no seats
	ErrNoSeatsAvailable = errors.New("replacement vessel has no seats")

	// ErrDeparturePassed rejects vessel swaps once the scheduled departure
	// time is at or before the current time
	ErrDeparturePassed = errors.New("trip departure time has already passed")
)

// MissingIslandError reports a stop without an assigned island
type MissingIslandError struct {
	Sequence int
}

func (e *MissingIslandError) Error() string {
	return fmt.Sprintf("stop %d has no island assigned", e.Sequence)
}

// TripStateError rejects a vessel swap on an in-flight or terminal trip
type TripStateError struct {
	Status models.TripStatus
}

func (e *TripStateError) Error() string {
	return fmt.Sprintf("vessel cannot be changed while trip is %s", e.Status)
}

// VesselInactiveError rejects a swap to a vessel that is not in service
type VesselInactiveError struct {
	VesselID string
	Status   models.VesselStatus
}

func (e *VesselInactiveError) Error() string {
	return fmt.Sprintf("vessel %s is %s and cannot be assigned", e.VesselID, e.Status)
}

// InsufficientCapacityError rejects a swap to a vessel with fewer seats than
// the trip's confirmed passengers
type InsufficientCapacityError struct {
	SeatCount  int
	Passengers int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("vessel has %d seats but trip has %d confirmed passengers", e.SeatCount, e.Passengers)
}

// ScheduleConflictError rejects a swap when the candidate vessel already has a
// time-overlapping trip
type ScheduleConflictError struct {
	ConflictTripID string
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("vessel already has an overlapping trip %s", e.ConflictTripID)
}
