package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"ferryops-backend/internal/database"
	"ferryops-backend/internal/models"
	"ferryops-backend/internal/services"
	"ferryops-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// referenceAlphabet omits 0/O and 1/I so references survive being read
// over the phone
const referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

func newBookingReference() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// Fall back to time-derived bytes; uniqueness is still enforced
		// by the database constraint
		copy(b, fmt.Sprintf("%06d", time.Now().UnixNano()%1000000))
	}
	for i := range b {
		b[i] = referenceAlphabet[int(b[i])%len(referenceAlphabet)]
	}
	return "FB-" + string(b)
}

// GetTripBookings returns all bookings on a trip with their passengers
func GetTripBookings(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var bookings []models.Booking
		err := db.Select(&bookings, `
			SELECT id, trip_id, reference, contact_name, contact_phone, from_index, to_index, total_fare, status, created_at, updated_at
			FROM bookings
			WHERE trip_id = $1
			ORDER BY created_at DESC
		`, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
			return
		}

		response := make([]models.BookingWithPassengers, 0, len(bookings))
		for _, booking := range bookings {
			passengers, err := getBookingPassengers(db, booking.ID)
			if err != nil {
				http.Error(w, "Failed to fetch passengers", http.StatusInternalServerError)
				return
			}
			response = append(response, models.BookingWithPassengers{
				Booking:    booking,
				Passengers: passengers,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

func getBookingPassengers(db *sqlx.DB, bookingID string) ([]models.PassengerWithSeat, error) {
	var passengers []models.PassengerWithSeat
	err := db.Select(&passengers, `
		SELECT p.id, p.booking_id, p.trip_id, p.name, p.seat_id, p.created_at,
		       s.seat_number, s.row_number, s.is_window, s.is_aisle
		FROM passengers p
		LEFT JOIN seats s ON p.seat_id = s.id
		WHERE p.booking_id = $1
		ORDER BY p.created_at ASC, p.id ASC
	`, bookingID)
	return passengers, err
}

// GetBooking returns one booking with its passengers
func GetBooking(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		var booking models.Booking
		err := db.Get(&booking, `SELECT * FROM bookings WHERE id = $1`, bookingID)
		if err == sql.ErrNoRows {
			http.Error(w, "Booking not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch booking", http.StatusInternalServerError)
			return
		}

		passengers, err := getBookingPassengers(db, bookingID)
		if err != nil {
			http.Error(w, "Failed to fetch passengers", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.BookingWithPassengers{
			Booking:    booking,
			Passengers: passengers,
		})
	}
}

// CreateBooking books one or more passengers onto a trip segment. The total
// fare is priced from the route's fare map with the trip's overrides applied,
// multiplied by the passenger count.
func CreateBooking(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := chi.URLParam(r, "id")

		var req models.CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.ContactName == "" || len(req.Passengers) == 0 {
			http.Error(w, "Missing required fields: contact_name and passengers", http.StatusBadRequest)
			return
		}
		for _, p := range req.Passengers {
			if p.Name == "" {
				http.Error(w, "Every passenger needs a name", http.StatusBadRequest)
				return
			}
		}

		trip, err := database.GetTrip(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch trip", http.StatusInternalServerError)
			return
		}
		if trip == nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}
		if trip.Status != models.TripStatusScheduled && trip.Status != models.TripStatusBoarding {
			utils.RespondError(w, http.StatusConflict, "Trip is not open for booking")
			return
		}

		if req.FromIndex >= req.ToIndex {
			http.Error(w, "to_index must be greater than from_index", http.StatusBadRequest)
			return
		}

		// Price from the effective fare map; a missing key means the
		// segment is not sellable on this route
		baseFares, err := database.GetSegmentFareMap(db, trip.RouteID)
		if err != nil {
			http.Error(w, "Failed to fetch segment fares", http.StatusInternalServerError)
			return
		}
		overrides, err := database.GetTripFareOverrides(db, tripID)
		if err != nil {
			http.Error(w, "Failed to fetch fare overrides", http.StatusInternalServerError)
			return
		}
		effective := services.ApplyOverrides(baseFares, overrides)

		segmentKey := models.SegmentKey(req.FromIndex, req.ToIndex)
		fare, ok := effective[segmentKey]
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Segment "+segmentKey+" is not sellable on this route")
			return
		}
		totalFare := fare * float64(len(req.Passengers))

		// Capacity check counts confirmed passengers across the whole trip
		seats, err := database.GetSeatsForVessel(db, trip.VesselID)
		if err != nil {
			http.Error(w, "Failed to fetch seats", http.StatusInternalServerError)
			return
		}
		booked, err := database.CountConfirmedPassengers(db, tripID)
		if err != nil {
			http.Error(w, "Failed to count passengers", http.StatusInternalServerError)
			return
		}
		if booked+len(req.Passengers) > len(seats) {
			utils.RespondError(w, http.StatusConflict, "Not enough seats left on this trip")
			return
		}

		bookingID := uuid.New().String()
		reference := newBookingReference()
		now := time.Now().Unix()

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO bookings (id, trip_id, reference, contact_name, contact_phone, from_index, to_index, total_fare, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'confirmed', $9, $10)
		`, bookingID, tripID, reference, req.ContactName, req.ContactPhone, req.FromIndex, req.ToIndex, totalFare, now, now)
		if err != nil {
			log.Printf("❌ Failed to insert booking: %v", err)
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}

		for _, p := range req.Passengers {
			if p.SeatID != nil {
				if err := checkSeatOnVessel(tx, *p.SeatID, trip.VesselID); err != nil {
					utils.RespondError(w, http.StatusBadRequest, err.Error())
					return
				}
			}
			_, err = tx.Exec(`
				INSERT INTO passengers (id, booking_id, trip_id, name, seat_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.New().String(), bookingID, tripID, p.Name, p.SeatID, now)
			if err != nil {
				// The partial unique index rejects a seat already taken
				log.Printf("❌ Failed to insert passenger: %v", err)
				utils.RespondError(w, http.StatusConflict, "Seat is already taken")
				return
			}
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}

		log.Printf("🎟️  Booking %s created on trip %s (%d passengers, fare %.2f)", reference, tripID, len(req.Passengers), totalFare)

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"id":         bookingID,
			"reference":  reference,
			"total_fare": totalFare,
		})
	}
}

func checkSeatOnVessel(tx *sqlx.Tx, seatID, vesselID string) error {
	var ok bool
	err := tx.Get(&ok, `
		SELECT EXISTS(SELECT 1 FROM seats WHERE id = $1 AND vessel_id = $2 AND is_disabled = FALSE)
	`, seatID, vesselID)
	if err != nil {
		return fmt.Errorf("failed to check seat: %w", err)
	}
	if !ok {
		return fmt.Errorf("seat %s does not exist on the trip's vessel", seatID)
	}
	return nil
}

// CancelBooking cancels a booking and frees its passengers' seats
func CancelBooking(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		var booking models.Booking
		err := db.Get(&booking, `SELECT * FROM bookings WHERE id = $1`, bookingID)
		if err == sql.ErrNoRows {
			http.Error(w, "Booking not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch booking", http.StatusInternalServerError)
			return
		}
		if booking.Status == models.BookingStatusCancelled {
			utils.RespondError(w, http.StatusConflict, "Booking is already cancelled")
			return
		}

		now := time.Now().Unix()

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to cancel booking", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`UPDATE passengers SET seat_id = NULL WHERE booking_id = $1`, bookingID); err != nil {
			http.Error(w, "Failed to release seats", http.StatusInternalServerError)
			return
		}
		if _, err := tx.Exec(`UPDATE bookings SET status = 'cancelled', updated_at = $1 WHERE id = $2`, now, bookingID); err != nil {
			http.Error(w, "Failed to cancel booking", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to cancel booking", http.StatusInternalServerError)
			return
		}

		log.Printf("🚫 Booking %s cancelled", booking.Reference)
		utils.RespondSuccess(w, map[string]interface{}{"success": true})
	}
}

// UpdatePassengerSeat moves a passenger to a different seat, or unseats them
// when seat_id is null. Seat uniqueness is enforced by the database's partial
// unique index, so two concurrent moves to the same seat cannot both win.
func UpdatePassengerSeat(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		passengerID := chi.URLParam(r, "id")

		var req models.UpdatePassengerSeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var info struct {
			BookingID string               `db:"booking_id"`
			TripID    string               `db:"trip_id"`
			VesselID  string               `db:"vessel_id"`
			Status    models.BookingStatus `db:"status"`
		}
		err := db.Get(&info, `
			SELECT p.booking_id, b.trip_id, t.vessel_id, b.status
			FROM passengers p
			INNER JOIN bookings b ON p.booking_id = b.id
			INNER JOIN trips t ON b.trip_id = t.id
			WHERE p.id = $1
		`, passengerID)
		if err == sql.ErrNoRows {
			http.Error(w, "Passenger not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to fetch passenger", http.StatusInternalServerError)
			return
		}
		if info.Status != models.BookingStatusConfirmed {
			utils.RespondError(w, http.StatusConflict, "Booking is not confirmed")
			return
		}

		if req.SeatID != nil {
			var ok bool
			err := db.Get(&ok, `
				SELECT EXISTS(SELECT 1 FROM seats WHERE id = $1 AND vessel_id = $2 AND is_disabled = FALSE)
			`, *req.SeatID, info.VesselID)
			if err != nil {
				http.Error(w, "Failed to check seat", http.StatusInternalServerError)
				return
			}
			if !ok {
				utils.RespondError(w, http.StatusBadRequest, "Seat does not exist on the trip's vessel")
				return
			}
		}

		_, err = db.Exec(`UPDATE passengers SET seat_id = $1 WHERE id = $2`, req.SeatID, passengerID)
		if err != nil {
			utils.RespondError(w, http.StatusConflict, "Seat is already taken")
			return
		}

		utils.RespondSuccess(w, map[string]interface{}{
			"passenger_id": passengerID,
			"seat_id":      req.SeatID,
		})
	}
}
