package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"ferryops-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestSaveSegmentFaresDeletesThenInsertsInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	stops := []models.Stop{
		{ID: "stop-a", Sequence: 1, StopType: models.StopTypePickup},
		{ID: "stop-b", Sequence: 2, StopType: models.StopTypeBoth},
		{ID: "stop-c", Sequence: 3, StopType: models.StopTypeDropoff},
	}
	fares := map[string]float64{
		"0-1": 25, "0-2": 50, "1-2": 25,
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM segment_fares").
		WithArgs("route1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	// Inserts run in ascending (from_index, to_index) order
	mock.ExpectExec("INSERT INTO segment_fares").
		WithArgs(sqlmock.AnyArg(), "route1", 0, 1, "stop-a", "stop-b", 25.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO segment_fares").
		WithArgs(sqlmock.AnyArg(), "route1", 0, 2, "stop-a", "stop-c", 50.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO segment_fares").
		WithArgs(sqlmock.AnyArg(), "route1", 1, 2, "stop-b", "stop-c", 25.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := SaveSegmentFares(db, "route1", stops, fares); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveSegmentFaresRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)

	stops := []models.Stop{
		{ID: "stop-a", Sequence: 1, StopType: models.StopTypePickup},
		{ID: "stop-b", Sequence: 2, StopType: models.StopTypeDropoff},
	}
	fares := map[string]float64{"0-1": 25}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM segment_fares").
		WithArgs("route1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO segment_fares").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := SaveSegmentFares(db, "route1", stops, fares); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveSegmentFaresRejectsStrayKeys(t *testing.T) {
	db, mock := newMockDB(t)

	stops := []models.Stop{
		{ID: "stop-a", Sequence: 1, StopType: models.StopTypePickup},
		{ID: "stop-b", Sequence: 2, StopType: models.StopTypeDropoff},
	}
	// "5-9" cannot belong to a two-stop route
	fares := map[string]float64{"0-1": 25, "5-9": 10}

	if err := SaveSegmentFares(db, "route1", stops, fares); err == nil {
		t.Fatal("expected error for stray fare key, got nil")
	}

	// Nothing should have reached the database
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestSaveTripFareOverridesReplacesSet(t *testing.T) {
	db, mock := newMockDB(t)

	entries := []models.FareEntry{
		{FromIndex: 0, ToIndex: 1, Fare: 40},
		{FromIndex: 1, ToIndex: 2, Fare: 35},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM trip_fare_overrides").
		WithArgs("trip1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO trip_fare_overrides").
		WithArgs(sqlmock.AnyArg(), "trip1", 0, 1, 40.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trip_fare_overrides").
		WithArgs(sqlmock.AnyArg(), "trip1", 1, 2, 35.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := SaveTripFareOverrides(db, "trip1", entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
