package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"ferryops-backend/internal/helpers"
	"ferryops-backend/internal/models"
	"ferryops-backend/internal/services"
)

// GetTrip retrieves a single trip by ID
func GetTrip(db *sqlx.DB, tripID string) (*models.Trip, error) {
	var trip models.Trip
	err := db.Get(&trip, `SELECT * FROM trips WHERE id = $1`, tripID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// GetSeatsForVessel retrieves a vessel's sellable seats ordered for display.
// Disabled seats never enter the allocation pool.
func GetSeatsForVessel(db *sqlx.DB, vesselID string) ([]models.Seat, error) {
	var seats []models.Seat
	query := `SELECT * FROM seats
	          WHERE vessel_id = $1 AND is_disabled = FALSE
	          ORDER BY row_number ASC, seat_number ASC`

	err := db.Select(&seats, query, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats for vessel: %w", err)
	}

	return seats, nil
}

// GetSeatedPassengersForTrip loads every passenger on a confirmed booking of
// the trip together with their currently reserved seat, in the shape the
// reallocation planner consumes. Unseated passengers are excluded: they have
// nothing to carry over to the replacement vessel.
func GetSeatedPassengersForTrip(db *sqlx.DB, tripID string) ([]services.SeatedPassenger, error) {
	rows, err := db.Queryx(`
		SELECT p.id, p.booking_id, p.name,
		       s.id AS seat_id, s.vessel_id, s.seat_number, s.row_number,
		       s.is_window, s.is_aisle, s.is_premium, s.is_disabled, s.created_at
		FROM passengers p
		INNER JOIN bookings b ON p.booking_id = b.id
		INNER JOIN seats s ON p.seat_id = s.id
		WHERE b.trip_id = $1 AND b.status = 'confirmed'
		ORDER BY p.created_at ASC, p.id ASC
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seated passengers: %w", err)
	}
	defer rows.Close()

	var passengers []services.SeatedPassenger
	for rows.Next() {
		var sp services.SeatedPassenger
		err := rows.Scan(
			&sp.PassengerID, &sp.BookingID, &sp.Name,
			&sp.OldSeat.ID, &sp.OldSeat.VesselID, &sp.OldSeat.SeatNumber, &sp.OldSeat.RowNumber,
			&sp.OldSeat.IsWindow, &sp.OldSeat.IsAisle, &sp.OldSeat.IsPremium, &sp.OldSeat.IsDisabled,
			&sp.OldSeat.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan seated passenger: %w", err)
		}
		passengers = append(passengers, sp)
	}

	return passengers, rows.Err()
}

// CountConfirmedPassengers returns the number of passengers on confirmed
// bookings for a trip
func CountConfirmedPassengers(db *sqlx.DB, tripID string) (int, error) {
	var count int
	err := db.Get(&count, `
		SELECT COUNT(*)
		FROM passengers p
		INNER JOIN bookings b ON p.booking_id = b.id
		WHERE b.trip_id = $1 AND b.status = 'confirmed'
	`, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to count confirmed passengers: %w", err)
	}
	return count, nil
}

// GetTripsForVessel retrieves the non-cancelled trips scheduled on a vessel,
// used by swap validation for its schedule-overlap check
func GetTripsForVessel(db *sqlx.DB, vesselID string) ([]models.Trip, error) {
	var trips []models.Trip
	query := `SELECT * FROM trips
	          WHERE vessel_id = $1 AND status != 'cancelled'
	          ORDER BY departure_time ASC`

	err := db.Select(&trips, query, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trips for vessel: %w", err)
	}

	return trips, nil
}

// ApplyVesselSwap commits an approved reallocation plan in a single
// transaction: the trip moves to the new vessel, every planned passenger gets
// their new seat, and the swap is recorded for audit. The per-passenger writes
// used to run as independent updates, which could strand a trip with a mix of
// old and new seats when one failed; the transaction closes that gap.
func ApplyVesselSwap(db *sqlx.DB, trip *models.Trip, newVesselID string, plan []models.SeatRearrangement, actorID, actorName string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()

	result, err := tx.Exec(`
		UPDATE trips SET vessel_id = $1, updated_at = $2
		WHERE id = $3 AND vessel_id = $4 AND status = 'scheduled'
	`, newVesselID, now, trip.ID, trip.VesselID)
	if err != nil {
		return fmt.Errorf("failed to move trip to new vessel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Trip changed under us since validation; caller should re-validate
		return fmt.Errorf("trip %s was modified concurrently, swap aborted", trip.ID)
	}

	// Release every old seat before assigning new ones, otherwise the
	// one-passenger-per-seat index rejects plans that swap seats between
	// passengers
	for _, entry := range plan {
		if _, err := tx.Exec(`UPDATE passengers SET seat_id = NULL WHERE id = $1`, entry.PassengerID); err != nil {
			return fmt.Errorf("failed to release seat for passenger %s: %w", entry.PassengerID, err)
		}
	}

	for _, entry := range plan {
		result, err := tx.Exec(`UPDATE passengers SET seat_id = $1 WHERE id = $2`, entry.NewSeat.SeatID, entry.PassengerID)
		if err != nil {
			return fmt.Errorf("failed to reseat passenger %s: %w", entry.PassengerID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("passenger not found: %s", entry.PassengerID)
		}
	}

	if err := helpers.RecordVesselSwap(tx, trip.ID, trip.VesselID, newVesselID, len(plan), actorID, actorName); err != nil {
		return fmt.Errorf("failed to record vessel swap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Vessel swap applied for trip %s: %s -> %s, %d passengers reseated",
		trip.ID, trip.VesselID, newVesselID, len(plan))
	return nil
}
