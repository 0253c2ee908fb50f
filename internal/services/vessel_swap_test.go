package services

import (
	"errors"
	"testing"
	"time"

	"ferryops-backend/internal/models"
)

func swapContext() VesselSwapContext {
	now := time.Unix(1_700_000_000, 0)
	return VesselSwapContext{
		Trip: models.Trip{
			ID:            "trip1",
			VesselID:      "old-vessel",
			DepartureTime: now.Add(4 * time.Hour).Unix(),
			Status:        models.TripStatusScheduled,
		},
		Candidate:           models.Vessel{ID: "new-vessel", Status: models.VesselStatusActive},
		CandidateSeatCount:  40,
		ConfirmedPassengers: 25,
		Now:                 now,
	}
}

func TestValidateVesselSwapPasses(t *testing.T) {
	if err := ValidateVesselSwap(swapContext()); err != nil {
		t.Fatalf("expected valid swap, got %v", err)
	}
}

func TestValidateVesselSwapRejectsUnderwayTrip(t *testing.T) {
	for _, status := range []models.TripStatus{
		models.TripStatusBoarding,
		models.TripStatusDeparted,
		models.TripStatusCompleted,
	} {
		ctx := swapContext()
		ctx.Trip.Status = status
		// Other fields are fine; state alone must disqualify
		err := ValidateVesselSwap(ctx)
		var stateErr *TripStateError
		if !errors.As(err, &stateErr) {
			t.Fatalf("status %s: expected TripStateError, got %v", status, err)
		}
		if stateErr.Status != status {
			t.Errorf("expected status %s in error, got %s", status, stateErr.Status)
		}
	}
}

func TestValidateVesselSwapRejectsDepartedRegardlessOfOtherFields(t *testing.T) {
	ctx := swapContext()
	ctx.Trip.Status = models.TripStatusDeparted
	// Make every other check fail too; the state check must win
	ctx.Candidate.Status = models.VesselStatusInactive
	ctx.CandidateSeatCount = 0
	ctx.ConfirmedPassengers = 100

	err := ValidateVesselSwap(ctx)
	var stateErr *TripStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected TripStateError first, got %v", err)
	}
}

func TestValidateVesselSwapRejectsPastDeparture(t *testing.T) {
	ctx := swapContext()
	ctx.Trip.DepartureTime = ctx.Now.Unix()

	if err := ValidateVesselSwap(ctx); !errors.Is(err, ErrDeparturePassed) {
		t.Fatalf("expected ErrDeparturePassed, got %v", err)
	}
}

func TestValidateVesselSwapRejectsInactiveVessel(t *testing.T) {
	ctx := swapContext()
	ctx.Candidate.Status = models.VesselStatusMaintenance
	// Capacity shortfall present too, but vessel status is checked first
	ctx.CandidateSeatCount = 0

	err := ValidateVesselSwap(ctx)
	var inactiveErr *VesselInactiveError
	if !errors.As(err, &inactiveErr) {
		t.Fatalf("expected VesselInactiveError, got %v", err)
	}
}

func TestValidateVesselSwapRejectsInsufficientCapacity(t *testing.T) {
	ctx := swapContext()
	ctx.CandidateSeatCount = 10
	ctx.ConfirmedPassengers = 25

	err := ValidateVesselSwap(ctx)
	var capErr *InsufficientCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected InsufficientCapacityError, got %v", err)
	}
	if capErr.SeatCount != 10 || capErr.Passengers != 25 {
		t.Errorf("unexpected error details: %+v", capErr)
	}
}

func TestValidateVesselSwapRejectsOverlappingTrip(t *testing.T) {
	ctx := swapContext()
	// No arrival scheduled on either trip: both default to 120 minutes
	ctx.CandidateTrips = []models.Trip{
		{
			ID:            "other",
			DepartureTime: ctx.Trip.DepartureTime + 60*60, // inside our window
			Status:        models.TripStatusScheduled,
		},
	}

	err := ValidateVesselSwap(ctx)
	var conflictErr *ScheduleConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ScheduleConflictError, got %v", err)
	}
	if conflictErr.ConflictTripID != "other" {
		t.Errorf("expected conflict with trip 'other', got %s", conflictErr.ConflictTripID)
	}
}

func TestValidateVesselSwapAllowsBackToBackTrips(t *testing.T) {
	ctx := swapContext()
	arrival := ctx.Trip.DepartureTime + 90*60
	ctx.Trip.ArrivalTime = &arrival
	// Half-open intervals: a trip starting exactly at our arrival is fine
	ctx.CandidateTrips = []models.Trip{
		{ID: "next", DepartureTime: arrival, Status: models.TripStatusScheduled},
	}

	if err := ValidateVesselSwap(ctx); err != nil {
		t.Fatalf("back-to-back trips must not conflict, got %v", err)
	}
}

func TestValidateVesselSwapIgnoresCancelledTrips(t *testing.T) {
	ctx := swapContext()
	ctx.CandidateTrips = []models.Trip{
		{
			ID:            "cancelled",
			DepartureTime: ctx.Trip.DepartureTime,
			Status:        models.TripStatusCancelled,
		},
	}

	if err := ValidateVesselSwap(ctx); err != nil {
		t.Fatalf("cancelled trips must not conflict, got %v", err)
	}
}
