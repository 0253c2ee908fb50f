package services

import (
	"log"
	"sort"

	"ferryops-backend/internal/models"
)

// SeatedPassenger is the planner's view of a passenger: identity plus the
// seat they held on the vessel being replaced
type SeatedPassenger struct {
	PassengerID string
	BookingID   string
	Name        string
	OldSeat     models.Seat
}

// seatPreferenceRank orders seats for allocation: window first, then aisle,
// then everything else
func seatPreferenceRank(isWindow, isAisle bool) int {
	switch {
	case isWindow:
		return 0
	case isAisle:
		return 1
	default:
		return 2
	}
}

// seatLess is the full preference order within a row: preference rank, then
// natural seat-number order as tiebreak
func seatLess(a, b models.Seat) bool {
	ra, rb := seatPreferenceRank(a.IsWindow, a.IsAisle), seatPreferenceRank(b.IsWindow, b.IsAisle)
	if ra != rb {
		return ra < rb
	}
	return naturalLess(a.SeatNumber, b.SeatNumber)
}

// PlanReallocation maps passengers from their old vessel's seats onto a
// replacement vessel's seat inventory. The plan keeps booking groups together
// where possible and hands the best seats to the passengers who previously
// held the best seats, so relative ordering survives the swap.
//
// Guarantees: no target seat is assigned twice, inputs are never mutated, and
// the output holds min(len(passengers), len(targetSeats)) entries. A short
// output means the replacement vessel could not seat everyone; callers must
// treat that as a partial-failure preview, never an applied state.
func PlanReallocation(passengers []SeatedPassenger, targetSeats []models.Seat) ([]models.SeatRearrangement, error) {
	if len(targetSeats) == 0 {
		return nil, ErrNoSeatsAvailable
	}
	if len(passengers) == 0 {
		return []models.SeatRearrangement{}, nil
	}

	// Bucket target seats by row, best seats first within each row
	available := make(map[int][]models.Seat, len(targetSeats))
	for _, seat := range targetSeats {
		available[seat.RowNumber] = append(available[seat.RowNumber], seat)
	}
	rowNumbers := make([]int, 0, len(available))
	for row := range available {
		rowNumbers = append(rowNumbers, row)
		sort.SliceStable(available[row], func(i, j int) bool {
			return seatLess(available[row][i], available[row][j])
		})
	}
	sort.Ints(rowNumbers)

	// Group passengers by booking; within a group the passenger who held the
	// best old seat is assigned first
	groups := make(map[string][]SeatedPassenger)
	for _, p := range passengers {
		groups[p.BookingID] = append(groups[p.BookingID], p)
	}
	bookingIDs := make([]string, 0, len(groups))
	for bookingID, group := range groups {
		bookingIDs = append(bookingIDs, bookingID)
		sort.SliceStable(group, func(i, j int) bool {
			return seatLess(group[i].OldSeat, group[j].OldSeat)
		})
	}

	// Groups that sat closest to the bow go first; bookingID breaks ties so
	// the plan is deterministic
	minOldRow := func(group []SeatedPassenger) int {
		min := group[0].OldSeat.RowNumber
		for _, p := range group[1:] {
			if p.OldSeat.RowNumber < min {
				min = p.OldSeat.RowNumber
			}
		}
		return min
	}
	sort.SliceStable(bookingIDs, func(i, j int) bool {
		ri, rj := minOldRow(groups[bookingIDs[i]]), minOldRow(groups[bookingIDs[j]])
		if ri != rj {
			return ri < rj
		}
		return bookingIDs[i] < bookingIDs[j]
	})

	log.Printf("🪑 Planning seat reallocation: %d passengers in %d bookings onto %d seats across %d rows",
		len(passengers), len(groups), len(targetSeats), len(rowNumbers))

	plan := make([]models.SeatRearrangement, 0, len(passengers))
	for _, bookingID := range bookingIDs {
		group := groups[bookingID]
		need := len(group)

		// Rows the group previously occupied, favoured when they still fit
		seenRows := make(map[int]bool, need)
		preferredRows := make([]int, 0, need)
		for _, p := range group {
			if !seenRows[p.OldSeat.RowNumber] {
				seenRows[p.OldSeat.RowNumber] = true
				preferredRows = append(preferredRows, p.OldSeat.RowNumber)
			}
		}
		sort.Ints(preferredRows)

		chosenRow := -1
		for _, row := range preferredRows {
			if len(available[row]) >= need {
				chosenRow = row
				break
			}
		}
		if chosenRow < 0 {
			for _, row := range rowNumbers {
				if len(available[row]) >= need {
					chosenRow = row
					break
				}
			}
		}

		var allocated []models.Seat
		if chosenRow >= 0 {
			allocated = available[chosenRow][:need]
			available[chosenRow] = available[chosenRow][need:]
		} else {
			// No single row fits the group: pool loose seats across rows in
			// row order. Degraded, but guarantees progress.
			for _, row := range rowNumbers {
				if len(allocated) == need {
					break
				}
				take := need - len(allocated)
				if take > len(available[row]) {
					take = len(available[row])
				}
				allocated = append(allocated, available[row][:take]...)
				available[row] = available[row][take:]
			}
			if len(allocated) < need {
				log.Printf("   ⚠️  Booking %s: only %d of %d seats available, leaving %d passengers unassigned",
					bookingID, len(allocated), need, need-len(allocated))
			}
		}

		for i, p := range group {
			if i >= len(allocated) {
				break
			}
			plan = append(plan, models.SeatRearrangement{
				PassengerID: p.PassengerID,
				OldSeat:     models.SeatSnapshotOf(p.OldSeat),
				NewSeat:     models.SeatSnapshotOf(allocated[i]),
				Status:      models.RearrangementStatusPending,
			})
		}
	}

	log.Printf("✅ Reallocation plan complete: %d of %d passengers assigned", len(plan), len(passengers))
	return plan, nil
}

// naturalLess compares seat numbers with embedded numbers compared
// numerically, so "2A" sorts before "10A"
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// Compare the full digit runs as numbers
			ia, ib := i, j
			for ia < len(a) && isDigit(a[ia]) {
				ia++
			}
			for ib < len(b) && isDigit(b[ib]) {
				ib++
			}
			na, nb := trimLeadingZeros(a[i:ia]), trimLeadingZeros(b[j:ib])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			i, j = ia, ib
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
