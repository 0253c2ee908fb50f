package services

import (
	"time"

	"ferryops-backend/internal/models"
)

// Trips without a scheduled arrival are assumed to occupy the vessel for this
// long when testing for schedule overlap
const defaultTripDurationMinutes = 120

// VesselSwapContext carries everything swap validation needs, already loaded
// by the caller. The validator itself performs no I/O.
type VesselSwapContext struct {
	Trip                models.Trip
	Candidate           models.Vessel
	CandidateSeatCount  int
	ConfirmedPassengers int
	// Other trips already scheduled on the candidate vessel, excluding the
	// trip being swapped
	CandidateTrips []models.Trip
	Now            time.Time
}

// ValidateVesselSwap gates a vessel substitution. Checks run in a fixed order
// and the first failure is returned: the swap is a destructive action, so it
// stops at the first disqualifying reason rather than accumulating a report.
//
// Order: trip state, departure time, vessel status, seat capacity, schedule
// overlap on the candidate vessel.
func ValidateVesselSwap(ctx VesselSwapContext) error {
	if ctx.Trip.Status.IsUnderway() {
		return &TripStateError{Status: ctx.Trip.Status}
	}
	if ctx.Trip.Status == models.TripStatusCancelled {
		return &TripStateError{Status: ctx.Trip.Status}
	}

	if ctx.Trip.DepartureTime <= ctx.Now.Unix() {
		return ErrDeparturePassed
	}

	if ctx.Candidate.Status != models.VesselStatusActive {
		return &VesselInactiveError{VesselID: ctx.Candidate.ID, Status: ctx.Candidate.Status}
	}

	if ctx.CandidateSeatCount < ctx.ConfirmedPassengers {
		return &InsufficientCapacityError{
			SeatCount:  ctx.CandidateSeatCount,
			Passengers: ctx.ConfirmedPassengers,
		}
	}

	if conflictID := FindScheduleConflict(ctx.Trip, ctx.CandidateTrips); conflictID != "" {
		return &ScheduleConflictError{ConflictTripID: conflictID}
	}

	return nil
}

// FindScheduleConflict returns the ID of the first trip in others whose
// occupancy window overlaps the given trip's, or "" when the schedule is
// clear. The trip itself and cancelled trips never conflict.
func FindScheduleConflict(trip models.Trip, others []models.Trip) string {
	start, end := tripWindow(trip)
	for _, other := range others {
		if other.ID == trip.ID || other.Status == models.TripStatusCancelled {
			continue
		}
		otherStart, otherEnd := tripWindow(other)
		if start < otherEnd && otherStart < end {
			return other.ID
		}
	}
	return ""
}

// tripWindow returns the half-open [start, end) interval a trip occupies its
// vessel for, defaulting the duration when no arrival time is scheduled
func tripWindow(t models.Trip) (int64, int64) {
	start := t.DepartureTime
	end := start + int64(defaultTripDurationMinutes)*60
	if t.ArrivalTime != nil && *t.ArrivalTime > start {
		end = *t.ArrivalTime
	}
	return start, end
}
