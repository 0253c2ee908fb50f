package services

import (
	"errors"
	"testing"

	"ferryops-backend/internal/models"
)

func makeStops(types ...models.StopType) []models.Stop {
	stops := make([]models.Stop, len(types))
	for i, t := range types {
		stops[i] = models.Stop{
			ID:       string(rune('a' + i)),
			IslandID: string(rune('A' + i)),
			Sequence: i + 1,
			StopType: t,
		}
	}
	return stops
}

func TestEnumerateSegmentsRequiresTwoStops(t *testing.T) {
	if _, err := EnumerateSegments(nil); !errors.Is(err, ErrInsufficientStops) {
		t.Fatalf("expected ErrInsufficientStops, got %v", err)
	}
	if _, err := EnumerateSegments(makeStops(models.StopTypePickup)); !errors.Is(err, ErrInsufficientStops) {
		t.Fatalf("expected ErrInsufficientStops for one stop, got %v", err)
	}
}

func TestEnumerateSegmentsTwoStops(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeDropoff)

	segments, err := EnumerateSegments(stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].FromIndex != 0 || segments[0].ToIndex != 1 {
		t.Errorf("expected segment (0,1), got (%d,%d)", segments[0].FromIndex, segments[0].ToIndex)
	}
}

func TestEnumerateSegmentsExcludesInvalidEndpoints(t *testing.T) {
	// pickup, dropoff-only, both, pickup-only, dropoff
	stops := makeStops(
		models.StopTypePickup,
		models.StopTypeDropoff,
		models.StopTypeBoth,
		models.StopTypePickup,
		models.StopTypeDropoff,
	)

	segments, err := EnumerateSegments(stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{
		"0-1": true, "0-2": true, "0-4": true,
		"2-4": true,
		"3-4": true,
	}
	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d: %v", len(want), len(segments), segments)
	}
	for _, seg := range segments {
		if !want[seg.Key()] {
			t.Errorf("unexpected segment %s", seg.Key())
		}
		// Endpoint rules: origin never dropoff-only, destination never pickup-only
		if stops[seg.FromIndex].StopType == models.StopTypeDropoff {
			t.Errorf("segment %s originates at a dropoff-only stop", seg.Key())
		}
		if stops[seg.ToIndex].StopType == models.StopTypePickup {
			t.Errorf("segment %s terminates at a pickup-only stop", seg.Key())
		}
	}
}

func TestEnumerateSegmentsAscendingOrder(t *testing.T) {
	stops := makeStops(models.StopTypeBoth, models.StopTypeBoth, models.StopTypeBoth, models.StopTypeBoth)

	segments, err := EnumerateSegments(stops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(segments); i++ {
		prev, cur := segments[i-1], segments[i]
		if cur.FromIndex < prev.FromIndex ||
			(cur.FromIndex == prev.FromIndex && cur.ToIndex <= prev.ToIndex) {
			t.Fatalf("segments not in ascending order: %v before %v", prev, cur)
		}
	}
}

func TestGenerateFaresTwoStops(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeDropoff)

	fares, err := GenerateFares(stops, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fares) != 1 {
		t.Fatalf("expected 1 fare, got %d", len(fares))
	}
	if fares["0-1"] != 50 {
		t.Errorf("expected fare 50 for segment 0-1, got %v", fares["0-1"])
	}
}

func TestGenerateFaresLinearInHops(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeBoth, models.StopTypeBoth, models.StopTypeDropoff)

	fares, err := GenerateFares(stops, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]float64{
		"0-1": 25, "0-2": 50, "0-3": 75,
		"1-2": 25, "1-3": 50,
		"2-3": 25,
	}
	if len(fares) != len(want) {
		t.Fatalf("expected %d fares, got %d: %v", len(want), len(fares), fares)
	}
	for key, fare := range want {
		if fares[key] != fare {
			t.Errorf("segment %s: expected fare %v, got %v", key, fare, fares[key])
		}
	}
}

func TestGenerateFaresIdempotent(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeBoth, models.StopTypeDropoff)

	first, err := GenerateFares(stops, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateFares(stops, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("fare maps differ in size: %d vs %d", len(first), len(second))
	}
	for key, fare := range first {
		if second[key] != fare {
			t.Errorf("segment %s: %v vs %v", key, fare, second[key])
		}
	}
}

func TestGenerateFaresMissingIsland(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeDropoff)
	stops[1].IslandID = ""

	_, err := GenerateFares(stops, 50)
	var missingErr *MissingIslandError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingIslandError, got %v", err)
	}
	if missingErr.Sequence != 2 {
		t.Errorf("expected sequence 2, got %d", missingErr.Sequence)
	}
}

func TestApplyOverridesLeavesUnrelatedKeysAlone(t *testing.T) {
	routeFares := map[string]float64{"0-1": 25, "1-2": 25, "2-3": 25}
	overrides := []models.TripFareOverride{
		{TripID: "t1", FromIndex: 0, ToIndex: 1, Fare: 40},
	}

	merged := ApplyOverrides(routeFares, overrides)

	if merged["0-1"] != 40 {
		t.Errorf("expected override fare 40 for 0-1, got %v", merged["0-1"])
	}
	if merged["1-2"] != 25 || merged["2-3"] != 25 {
		t.Errorf("unrelated segments changed: %v", merged)
	}
	// Pure merge: the input map must be untouched
	if routeFares["0-1"] != 25 {
		t.Errorf("input map mutated: %v", routeFares)
	}
}

func TestValidateSegmentCoverageAccumulatesAllViolations(t *testing.T) {
	// Bad endpoints, a duplicate island and a missing fare, all at once
	stops := makeStops(models.StopTypeDropoff, models.StopTypeBoth, models.StopTypePickup)
	stops[2].IslandID = stops[1].IslandID

	fares := map[string]float64{} // every segment fare missing

	result := ValidateSegmentCoverage(stops, fares)
	if result.Valid {
		t.Fatal("expected invalid result")
	}

	counts := map[string]int{}
	for _, v := range result.Violations {
		counts[v.Code]++
	}
	if counts[ViolationInvalidStopType] != 2 {
		t.Errorf("expected 2 stop-type violations, got %d", counts[ViolationInvalidStopType])
	}
	if counts[ViolationDuplicateIsland] != 1 {
		t.Errorf("expected 1 duplicate-island violation, got %d", counts[ViolationDuplicateIsland])
	}
	if counts[ViolationMissingFare] == 0 {
		t.Error("expected missing-fare violations")
	}
}

func TestValidateSegmentCoveragePasses(t *testing.T) {
	stops := makeStops(models.StopTypePickup, models.StopTypeBoth, models.StopTypeDropoff)
	fares, err := GenerateFares(stops, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := ValidateSegmentCoverage(stops, fares)
	if !result.Valid {
		t.Fatalf("expected valid result, got violations: %v", result.Violations)
	}
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %v", result.Violations)
	}
}

func TestValidateSegmentCoverageInsufficientStops(t *testing.T) {
	result := ValidateSegmentCoverage(makeStops(models.StopTypePickup), nil)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Violations) != 1 || result.Violations[0].Code != ViolationInsufficientStops {
		t.Errorf("expected a single insufficient_stops violation, got %v", result.Violations)
	}
}
