package services

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"ferryops-backend/internal/models"
)

func seat(id string, row int, window, aisle bool) models.Seat {
	return models.Seat{
		ID:         id,
		SeatNumber: id,
		RowNumber:  row,
		IsWindow:   window,
		IsAisle:    aisle,
	}
}

func TestPlanReallocationRejectsEmptyInventory(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b1", OldSeat: seat("1A", 1, true, false)},
	}
	if _, err := PlanReallocation(passengers, nil); !errors.Is(err, ErrNoSeatsAvailable) {
		t.Fatalf("expected ErrNoSeatsAvailable, got %v", err)
	}
}

func TestPlanReallocationNoPassengers(t *testing.T) {
	plan, err := PlanReallocation(nil, []models.Seat{seat("1A", 1, true, false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 0 {
		t.Fatalf("expected empty plan, got %d entries", len(plan))
	}
}

func TestPlanReallocationKeepsBookingGroupInRow(t *testing.T) {
	// 3 passengers in one booking, old seats in row 5 (window, aisle, middle);
	// the new vessel has a row 5 with exactly 3 free seats
	passengers := []SeatedPassenger{
		{PassengerID: "p-middle", BookingID: "b1", OldSeat: seat("5B", 5, false, false)},
		{PassengerID: "p-window", BookingID: "b1", OldSeat: seat("5A", 5, true, false)},
		{PassengerID: "p-aisle", BookingID: "b1", OldSeat: seat("5C", 5, false, true)},
	}
	targetSeats := []models.Seat{
		seat("5A", 5, true, false),
		seat("5B", 5, false, false),
		seat("5C", 5, false, true),
		seat("7A", 7, true, false),
	}

	plan, err := PlanReallocation(passengers, targetSeats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(plan))
	}

	newSeatFor := map[string]models.SeatSnapshot{}
	for _, entry := range plan {
		if entry.NewSeat.RowNumber != 5 {
			t.Errorf("passenger %s left row 5: assigned row %d", entry.PassengerID, entry.NewSeat.RowNumber)
		}
		if entry.Status != models.RearrangementStatusPending {
			t.Errorf("expected pending status, got %s", entry.Status)
		}
		newSeatFor[entry.PassengerID] = entry.NewSeat
	}

	// Relative preference preserved: old window holder gets the new window,
	// old aisle holder gets the new aisle
	if !newSeatFor["p-window"].IsWindow {
		t.Errorf("window passenger got %+v", newSeatFor["p-window"])
	}
	if !newSeatFor["p-aisle"].IsAisle {
		t.Errorf("aisle passenger got %+v", newSeatFor["p-aisle"])
	}
}

func TestPlanReallocationPrefersPreviouslyOccupiedRow(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b1", OldSeat: seat("8A", 8, true, false)},
		{PassengerID: "p2", BookingID: "b1", OldSeat: seat("8B", 8, false, false)},
	}
	// Row 2 has space too, but the group used to sit in row 8
	targetSeats := []models.Seat{
		seat("2A", 2, true, false),
		seat("2B", 2, false, false),
		seat("8A", 8, true, false),
		seat("8B", 8, false, false),
	}

	plan, err := PlanReallocation(passengers, targetSeats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, entry := range plan {
		if entry.NewSeat.RowNumber != 8 {
			t.Errorf("passenger %s should stay in row 8, got row %d", entry.PassengerID, entry.NewSeat.RowNumber)
		}
	}
}

func TestPlanReallocationPoolsAcrossRowsWhenNoRowFits(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b1", OldSeat: seat("1A", 1, true, false)},
		{PassengerID: "p2", BookingID: "b1", OldSeat: seat("1B", 1, false, false)},
		{PassengerID: "p3", BookingID: "b1", OldSeat: seat("1C", 1, false, true)},
	}
	// One seat per row: the group must be split but everyone gets a seat
	targetSeats := []models.Seat{
		seat("1A", 1, true, false),
		seat("2A", 2, true, false),
		seat("3A", 3, true, false),
	}

	plan, err := PlanReallocation(passengers, targetSeats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("expected all 3 passengers seated, got %d", len(plan))
	}
}

func TestPlanReallocationGracefulShortfall(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b1", OldSeat: seat("1A", 1, true, false)},
		{PassengerID: "p2", BookingID: "b1", OldSeat: seat("1B", 1, false, false)},
		{PassengerID: "p3", BookingID: "b2", OldSeat: seat("2A", 2, true, false)},
	}
	targetSeats := []models.Seat{
		seat("1A", 1, true, false),
		seat("1B", 1, false, false),
	}

	plan, err := PlanReallocation(passengers, targetSeats)
	if err != nil {
		t.Fatalf("shortfall must not error, got %v", err)
	}
	if len(plan) != len(targetSeats) {
		t.Fatalf("expected plan length %d, got %d", len(targetSeats), len(plan))
	}
}

func TestPlanReallocationNeverDoubleAssignsSeats(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		passengerCount := 1 + rng.Intn(40)
		seatCount := 1 + rng.Intn(40)

		passengers := make([]SeatedPassenger, passengerCount)
		for i := range passengers {
			passengers[i] = SeatedPassenger{
				PassengerID: fmt.Sprintf("p%d", i),
				BookingID:   fmt.Sprintf("b%d", rng.Intn(1+passengerCount/3)),
				OldSeat:     seat(fmt.Sprintf("%d%c", 1+rng.Intn(10), 'A'+rune(rng.Intn(4))), 1+rng.Intn(10), rng.Intn(2) == 0, rng.Intn(2) == 0),
			}
		}

		targetSeats := make([]models.Seat, seatCount)
		for i := range targetSeats {
			targetSeats[i] = seat(fmt.Sprintf("%d%c", 1+i/4, 'A'+rune(i%4)), 1+i/4, i%4 == 0, i%4 == 3)
		}

		plan, err := PlanReallocation(passengers, targetSeats)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}

		expected := passengerCount
		if seatCount < expected {
			expected = seatCount
		}
		if len(plan) != expected {
			t.Fatalf("trial %d: expected %d assignments, got %d", trial, expected, len(plan))
		}

		seenSeats := map[string]bool{}
		seenPassengers := map[string]bool{}
		validPassengers := map[string]bool{}
		for _, p := range passengers {
			validPassengers[p.PassengerID] = true
		}
		for _, entry := range plan {
			if seenSeats[entry.NewSeat.SeatID] {
				t.Fatalf("trial %d: seat %s assigned twice", trial, entry.NewSeat.SeatID)
			}
			seenSeats[entry.NewSeat.SeatID] = true
			if seenPassengers[entry.PassengerID] {
				t.Fatalf("trial %d: passenger %s assigned twice", trial, entry.PassengerID)
			}
			seenPassengers[entry.PassengerID] = true
			if !validPassengers[entry.PassengerID] {
				t.Fatalf("trial %d: unknown passenger %s in plan", trial, entry.PassengerID)
			}
		}
	}
}

func TestPlanReallocationDoesNotMutateInputs(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b1", OldSeat: seat("3B", 3, false, false)},
		{PassengerID: "p2", BookingID: "b1", OldSeat: seat("3A", 3, true, false)},
	}
	targetSeats := []models.Seat{
		seat("1B", 1, false, false),
		seat("1A", 1, true, false),
	}

	if _, err := PlanReallocation(passengers, targetSeats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if passengers[0].PassengerID != "p1" || passengers[1].PassengerID != "p2" {
		t.Error("passenger slice reordered")
	}
	if targetSeats[0].ID != "1B" || targetSeats[1].ID != "1A" {
		t.Error("seat slice reordered")
	}
}

func TestPlanReallocationDeterministic(t *testing.T) {
	passengers := []SeatedPassenger{
		{PassengerID: "p1", BookingID: "b2", OldSeat: seat("4A", 4, true, false)},
		{PassengerID: "p2", BookingID: "b1", OldSeat: seat("4C", 4, false, true)},
		{PassengerID: "p3", BookingID: "b3", OldSeat: seat("4B", 4, false, false)},
	}
	targetSeats := []models.Seat{
		seat("1A", 1, true, false),
		seat("1B", 1, false, false),
		seat("2A", 2, true, false),
	}

	first, err := PlanReallocation(passengers, targetSeats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for trial := 0; trial < 5; trial++ {
		again, err := PlanReallocation(passengers, targetSeats)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("plan length changed between runs")
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("plan entry %d changed between runs: %+v vs %+v", i, first[i], again[i])
			}
		}
	}
}

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"2A", "10A", true},
		{"10A", "2A", false},
		{"1A", "1B", true},
		{"1A", "1A", false},
		{"A1", "A2", true},
		{"02A", "2B", true},
		{"9", "10", true},
	}
	for _, c := range cases {
		if got := naturalLess(c.a, c.b); got != c.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
