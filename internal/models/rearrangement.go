package models

// RearrangementStatus is the lifecycle of a planned seat move.
// Plans are ephemeral: "pending" until the caller commits or discards them.
type RearrangementStatus string

const (
	RearrangementStatusPending RearrangementStatus = "pending"
	RearrangementStatusApplied RearrangementStatus = "applied"
)

// SeatSnapshot captures the seat fields a reallocation preview needs,
// so the client can render old/new seats without a second fetch
type SeatSnapshot struct {
	SeatID     string `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	RowNumber  int    `json:"row_number"`
	IsWindow   bool   `json:"is_window"`
	IsAisle    bool   `json:"is_aisle"`
}

// SeatSnapshotOf builds a snapshot from a full seat record
func SeatSnapshotOf(s Seat) SeatSnapshot {
	return SeatSnapshot{
		SeatID:     s.ID,
		SeatNumber: s.SeatNumber,
		RowNumber:  s.RowNumber,
		IsWindow:   s.IsWindow,
		IsAisle:    s.IsAisle,
	}
}

// SeatRearrangement is one passenger's planned move from their old seat to a
// seat on the replacement vessel
type SeatRearrangement struct {
	PassengerID string              `json:"passenger_id"`
	OldSeat     SeatSnapshot        `json:"old_seat"`
	NewSeat     SeatSnapshot        `json:"new_seat"`
	Status      RearrangementStatus `json:"status"`
}

// VesselSwapPlan is the preview response for a proposed vessel swap.
// Complete is false when the replacement vessel could not seat everyone;
// clients must require explicit confirmation before applying such a plan.
type VesselSwapPlan struct {
	TripID         string              `json:"trip_id"`
	OldVesselID    string              `json:"old_vessel_id"`
	NewVesselID    string              `json:"new_vessel_id"`
	Rearrangements []SeatRearrangement `json:"rearrangements"`
	Complete       bool                `json:"complete"`
	Unassigned     []string            `json:"unassigned_passenger_ids,omitempty"`
}

// VesselSwap is an audit record of an applied swap (from vessel_swaps table)
type VesselSwap struct {
	ID              string `json:"id" db:"id"`
	TripID          string `json:"trip_id" db:"trip_id"`
	OldVesselID     string `json:"old_vessel_id" db:"old_vessel_id"`
	NewVesselID     string `json:"new_vessel_id" db:"new_vessel_id"`
	MovedPassengers int    `json:"moved_passengers" db:"moved_passengers"`
	ActorID         string `json:"actor_id" db:"actor_id"`
	ActorName       string `json:"actor_name" db:"actor_name"`
	CreatedAt       int64  `json:"created_at" db:"created_at"` // Unix timestamp
}
