package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ferryops-backend/internal/models"
)

// GetRouteStops retrieves a route's stops ordered by sequence
func GetRouteStops(db *sqlx.DB, routeID string) ([]models.Stop, error) {
	var stops []models.Stop
	query := `SELECT * FROM route_stops
	          WHERE route_id = $1
	          ORDER BY sequence ASC`

	err := db.Select(&stops, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}

	return stops, nil
}

// GetSegmentFares retrieves the route-level fares keyed by segment
func GetSegmentFares(db *sqlx.DB, routeID string) ([]models.SegmentFare, error) {
	var fares []models.SegmentFare
	query := `SELECT * FROM segment_fares
	          WHERE route_id = $1
	          ORDER BY from_index ASC, to_index ASC`

	err := db.Select(&fares, query, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get segment fares: %w", err)
	}

	return fares, nil
}

// GetSegmentFareMap retrieves the route-level fares as a key → fare map,
// the shape the pricing code works with
func GetSegmentFareMap(db *sqlx.DB, routeID string) (map[string]float64, error) {
	fares, err := GetSegmentFares(db, routeID)
	if err != nil {
		return nil, err
	}

	m := make(map[string]float64, len(fares))
	for _, f := range fares {
		m[f.Key()] = f.Fare
	}
	return m, nil
}

// SaveSegmentFares replaces a route's fare set in a single transaction.
// The save is delete-then-insert, so wrapping it in one transaction keeps a
// failure partway through from leaving the route with a half-written fare map.
func SaveSegmentFares(db *sqlx.DB, routeID string, stops []models.Stop, fares map[string]float64) error {
	// Resolve fare keys back to stop pairs, in ascending (i, j) order so the
	// inserts are deterministic
	var segments []models.Segment
	for i := range stops {
		for j := i + 1; j < len(stops); j++ {
			if _, ok := fares[models.SegmentKey(i, j)]; ok {
				segments = append(segments, models.Segment{
					FromIndex:  i,
					ToIndex:    j,
					FromStopID: stops[i].ID,
					ToStopID:   stops[j].ID,
				})
			}
		}
	}
	if len(segments) != len(fares) {
		return fmt.Errorf("fare map has keys outside the route's stop range")
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM segment_fares WHERE route_id = $1`, routeID); err != nil {
		return fmt.Errorf("failed to clear segment fares: %w", err)
	}

	now := time.Now().Unix()
	insertQuery := `
		INSERT INTO segment_fares (id, route_id, from_index, to_index, from_stop_id, to_stop_id, fare, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, seg := range segments {
		_, err := tx.Exec(
			insertQuery,
			uuid.New().String(), routeID,
			seg.FromIndex, seg.ToIndex, seg.FromStopID, seg.ToStopID,
			fares[seg.Key()], now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert fare for segment %s: %w", seg.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Saved %d segment fares for route %s", len(segments), routeID)
	return nil
}

// GetTripFareOverrides retrieves a trip's fare overrides
func GetTripFareOverrides(db *sqlx.DB, tripID string) ([]models.TripFareOverride, error) {
	var overrides []models.TripFareOverride
	query := `SELECT * FROM trip_fare_overrides
	          WHERE trip_id = $1
	          ORDER BY from_index ASC, to_index ASC`

	err := db.Select(&overrides, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip fare overrides: %w", err)
	}

	return overrides, nil
}

// SaveTripFareOverrides replaces a trip's override set in a single transaction
func SaveTripFareOverrides(db *sqlx.DB, tripID string, entries []models.FareEntry) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trip_fare_overrides WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to clear trip fare overrides: %w", err)
	}

	now := time.Now().Unix()
	insertQuery := `
		INSERT INTO trip_fare_overrides (id, trip_id, from_index, to_index, fare, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, entry := range entries {
		_, err := tx.Exec(insertQuery, uuid.New().String(), tripID, entry.FromIndex, entry.ToIndex, entry.Fare, now)
		if err != nil {
			return fmt.Errorf("failed to insert override %d-%d: %w", entry.FromIndex, entry.ToIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✅ Saved %d fare overrides for trip %s", len(entries), tripID)
	return nil
}
