package services

import (
	"fmt"

	"ferryops-backend/internal/models"
)

// EnumerateSegments derives every bookable (pickup -> dropoff) pair from an
// ordered stop list. A dropoff-only stop cannot originate a segment and a
// pickup-only stop cannot terminate one. Results are in ascending
// (fromIndex, toIndex) order so repeated runs diff cleanly.
//
// O(n²) in stop count, which stays in the low double digits for real routes.
func EnumerateSegments(stops []models.Stop) ([]models.Segment, error) {
	if len(stops) < 2 {
		return nil, ErrInsufficientStops
	}

	var segments []models.Segment
	for i := 0; i < len(stops); i++ {
		if stops[i].StopType == models.StopTypeDropoff {
			continue
		}
		for j := i + 1; j < len(stops); j++ {
			if stops[j].StopType == models.StopTypePickup {
				continue
			}
			segments = append(segments, models.Segment{
				FromIndex:  i,
				ToIndex:    j,
				FromStopID: stops[i].ID,
				ToStopID:   stops[j].ID,
			})
		}
	}

	return segments, nil
}

// GenerateFares computes the route-level fare for every enumerated segment.
// Fare scales linearly with the number of hops spanned, not physical distance:
// fare(i, j) = baseFare * (j - i). Legacy clients depend on exactly this rule.
func GenerateFares(stops []models.Stop, baseFare float64) (map[string]float64, error) {
	for _, stop := range stops {
		if stop.IslandID == "" {
			return nil, &MissingIslandError{Sequence: stop.Sequence}
		}
	}

	segments, err := EnumerateSegments(stops)
	if err != nil {
		return nil, err
	}

	fares := make(map[string]float64, len(segments))
	for _, seg := range segments {
		fares[seg.Key()] = baseFare * float64(seg.ToIndex-seg.FromIndex)
	}

	return fares, nil
}

// ApplyOverrides merges trip-level overrides over route-level fares. Overrides
// win per key; segments without an override keep the route fare. Neither input
// is mutated.
func ApplyOverrides(routeFares map[string]float64, overrides []models.TripFareOverride) map[string]float64 {
	merged := make(map[string]float64, len(routeFares))
	for key, fare := range routeFares {
		merged[key] = fare
	}
	for _, o := range overrides {
		merged[o.Key()] = o.Fare
	}
	return merged
}

// Violation codes reported by ValidateSegmentCoverage
const (
	ViolationInsufficientStops = "insufficient_stops"
	ViolationMissingFare       = "missing_fare"
	ViolationDuplicateIsland   = "duplicate_island"
	ViolationInvalidStopType   = "invalid_stop_type"
)

// Violation is one rule failure found during coverage validation
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult accumulates every violation found so the caller can render
// the complete error list in one pass
type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

func (r *ValidationResult) add(code, format string, args ...interface{}) {
	r.Valid = false
	r.Violations = append(r.Violations, Violation{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// ValidateSegmentCoverage checks a stop list and its fare map before a route
// save. Unlike vessel-swap validation this accumulates all violations rather
// than stopping at the first: route editing is batch-corrected in the UI.
//
// Rules:
//   - at least two stops
//   - the first stop must allow pickup, the last must allow dropoff
//   - no two stops may call at the same island
//   - every enumerated segment must have a fare entry
func ValidateSegmentCoverage(stops []models.Stop, fares map[string]float64) ValidationResult {
	result := ValidationResult{Valid: true}

	if len(stops) < 2 {
		result.add(ViolationInsufficientStops, "route has %d stops, at least 2 required", len(stops))
		return result
	}

	if first := stops[0]; first.StopType == models.StopTypeDropoff {
		result.add(ViolationInvalidStopType, "first stop must allow pickup, got %q", first.StopType)
	}
	if last := stops[len(stops)-1]; last.StopType == models.StopTypePickup {
		result.add(ViolationInvalidStopType, "last stop must allow dropoff, got %q", last.StopType)
	}

	seenIslands := make(map[string]int, len(stops))
	for _, stop := range stops {
		if stop.IslandID == "" {
			continue
		}
		if firstSeq, ok := seenIslands[stop.IslandID]; ok {
			result.add(ViolationDuplicateIsland,
				"island %s appears at both stop %d and stop %d", stop.IslandID, firstSeq, stop.Sequence)
			continue
		}
		seenIslands[stop.IslandID] = stop.Sequence
	}

	segments, err := EnumerateSegments(stops)
	if err != nil {
		// len >= 2 was checked above; unreachable, but keep the result coherent
		result.add(ViolationInsufficientStops, "%v", err)
		return result
	}

	// Segments are already in ascending (i, j) order, so the report is stable
	for _, seg := range segments {
		if _, ok := fares[seg.Key()]; !ok {
			result.add(ViolationMissingFare, "segment %s has no fare", seg.Key())
		}
	}

	return result
}
