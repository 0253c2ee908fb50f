package helpers

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RecordVesselSwap writes one audit row for an applied vessel substitution.
// It accepts any sqlx executor so callers can run it inside the same
// transaction as the seat updates.
func RecordVesselSwap(ext sqlx.Ext, tripID, oldVesselID, newVesselID string, movedPassengers int, actorID, actorName string) error {
	swapID := uuid.New().String()

	query := `
		INSERT INTO vessel_swaps (
			id, trip_id, old_vessel_id, new_vessel_id, moved_passengers, actor_id, actor_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := ext.Exec(query,
		swapID,
		tripID,
		oldVesselID,
		newVesselID,
		movedPassengers,
		actorID,
		actorName,
		time.Now().Unix(),
	)

	if err != nil {
		log.Printf("[HISTORY] Failed to record vessel swap for trip %s: %v", tripID, err)
	}

	return err
}
