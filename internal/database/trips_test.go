package database

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"ferryops-backend/internal/models"
)

func swapPlan() []models.SeatRearrangement {
	return []models.SeatRearrangement{
		{
			PassengerID: "pax-1",
			OldSeat:     models.SeatSnapshot{SeatID: "old-5A", SeatNumber: "5A"},
			NewSeat:     models.SeatSnapshot{SeatID: "new-5A", SeatNumber: "5A"},
			Status:      models.RearrangementStatusPending,
		},
		{
			PassengerID: "pax-2",
			OldSeat:     models.SeatSnapshot{SeatID: "old-5B", SeatNumber: "5B"},
			NewSeat:     models.SeatSnapshot{SeatID: "new-5B", SeatNumber: "5B"},
			Status:      models.RearrangementStatusPending,
		},
	}
}

func TestApplyVesselSwapRunsAsOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	trip := &models.Trip{ID: "trip1", VesselID: "vessel-old", Status: models.TripStatusScheduled}
	plan := swapPlan()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET vessel_id =").
		WithArgs("vessel-new", sqlmock.AnyArg(), "trip1", "vessel-old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Every old seat is released before any new seat is assigned, so plans
	// that trade seats between passengers cannot trip the unique index
	mock.ExpectExec("UPDATE passengers SET seat_id = NULL").
		WithArgs("pax-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET seat_id = NULL").
		WithArgs("pax-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET seat_id =").
		WithArgs("new-5A", "pax-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET seat_id =").
		WithArgs("new-5B", "pax-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO vessel_swaps").
		WithArgs(sqlmock.AnyArg(), "trip1", "vessel-old", "vessel-new", 2, "user1", "ops@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := ApplyVesselSwap(db, trip, "vessel-new", plan, "user1", "ops@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyVesselSwapAbortsWhenTripChangedConcurrently(t *testing.T) {
	db, mock := newMockDB(t)

	trip := &models.Trip{ID: "trip1", VesselID: "vessel-old", Status: models.TripStatusScheduled}

	// The guarded update matches zero rows when the trip moved or started
	// boarding since validation ran
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET vessel_id =").
		WithArgs("vessel-new", sqlmock.AnyArg(), "trip1", "vessel-old").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := ApplyVesselSwap(db, trip, "vessel-new", swapPlan(), "user1", "ops@example.com")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "modified concurrently") {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
