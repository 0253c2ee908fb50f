package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('operator', 'crew', 'admin')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create islands table
		`CREATE TABLE IF NOT EXISTS islands (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			code TEXT NOT NULL UNIQUE,
			zone TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vessels table
		`CREATE TABLE IF NOT EXISTS vessels (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			registration TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive', 'maintenance')),
			seat_count INT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create seats table
		`CREATE TABLE IF NOT EXISTS seats (
			id TEXT PRIMARY KEY,
			vessel_id TEXT NOT NULL,
			seat_number TEXT NOT NULL,
			row_number INT NOT NULL,
			is_window BOOLEAN NOT NULL DEFAULT FALSE,
			is_aisle BOOLEAN NOT NULL DEFAULT FALSE,
			seat_class TEXT,
			is_premium BOOLEAN NOT NULL DEFAULT FALSE,
			is_disabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE CASCADE,
			UNIQUE (vessel_id, seat_number)
		)`,

		// Create routes table
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			base_fare DOUBLE PRECISION NOT NULL CHECK(base_fare >= 0),
			stop_count INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create route_stops table
		// sequence is 1-based and must stay contiguous per route; enforced by
		// the route save handler, which always rewrites the full stop list
		`CREATE TABLE IF NOT EXISTS route_stops (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			island_id TEXT NOT NULL,
			sequence INT NOT NULL CHECK(sequence >= 1),
			stop_type TEXT NOT NULL CHECK(stop_type IN ('pickup', 'dropoff', 'both')),
			travel_time_from_previous INT CHECK(travel_time_from_previous > 0),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			FOREIGN KEY (island_id) REFERENCES islands(id) ON DELETE RESTRICT,
			UNIQUE (route_id, sequence),
			UNIQUE (route_id, island_id)
		)`,

		// Create segment_fares table
		`CREATE TABLE IF NOT EXISTS segment_fares (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			from_index INT NOT NULL,
			to_index INT NOT NULL,
			from_stop_id TEXT NOT NULL,
			to_stop_id TEXT NOT NULL,
			fare DOUBLE PRECISION NOT NULL CHECK(fare >= 0),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE CASCADE,
			UNIQUE (route_id, from_index, to_index),
			CHECK (from_index < to_index)
		)`,

		// Create trips table
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			route_id TEXT NOT NULL,
			vessel_id TEXT NOT NULL,
			departure_time BIGINT NOT NULL,
			arrival_time BIGINT,
			status TEXT NOT NULL DEFAULT 'scheduled' CHECK(status IN ('scheduled', 'boarding', 'departed', 'completed', 'cancelled')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (route_id) REFERENCES routes(id) ON DELETE RESTRICT,
			FOREIGN KEY (vessel_id) REFERENCES vessels(id) ON DELETE RESTRICT
		)`,

		// Create trip_fare_overrides table
		`CREATE TABLE IF NOT EXISTS trip_fare_overrides (
			id TEXT PRIMARY KEY,
			trip_id TEXT NOT NULL,
			from_index INT NOT NULL,
			to_index INT NOT NULL,
			fare DOUBLE PRECISION NOT NULL CHECK(fare >= 0),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
			UNIQUE (trip_id, from_index, to_index),
			CHECK (from_index < to_index)
		)`,

		// Create bookings table
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			trip_id TEXT NOT NULL,
			reference TEXT NOT NULL UNIQUE,
			contact_name TEXT NOT NULL,
			contact_phone TEXT,
			from_index INT NOT NULL,
			to_index INT NOT NULL,
			total_fare DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'confirmed' CHECK(status IN ('confirmed', 'cancelled')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
			CHECK (from_index < to_index)
		)`,

		// Create passengers table
		`CREATE TABLE IF NOT EXISTS passengers (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			trip_id TEXT NOT NULL,
			name TEXT NOT NULL,
			seat_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE,
			FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
			FOREIGN KEY (seat_id) REFERENCES seats(id) ON DELETE SET NULL
		)`,

		// Create vessel_swaps table (audit trail of applied swaps)
		`CREATE TABLE IF NOT EXISTS vessel_swaps (
			id TEXT PRIMARY KEY,
			trip_id TEXT NOT NULL,
			old_vessel_id TEXT NOT NULL,
			new_vessel_id TEXT NOT NULL,
			moved_passengers INT NOT NULL DEFAULT 0,
			actor_id TEXT NOT NULL,
			actor_name TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// A seat can be reserved by at most one passenger per trip. trip_id is
		// denormalized onto passengers exactly so this can be a single-table
		// unique index; cancelled bookings release their seats (set to NULL).
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_passengers_trip_seat ON passengers(trip_id, seat_id) WHERE seat_id IS NOT NULL`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_seats_vessel_id ON seats(vessel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_route_id ON route_stops(route_id, sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_segment_fares_route_id ON segment_fares(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_route_id ON trips(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_vessel_id ON trips(vessel_id, departure_time)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status)`,
		`CREATE INDEX IF NOT EXISTS idx_trip_fare_overrides_trip_id ON trip_fare_overrides(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_trip_id ON bookings(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_passengers_booking_id ON passengers(booking_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vessel_swaps_trip_id ON vessel_swaps(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Ran %d migrations", len(migrations))
	return nil
}
