package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding default users...")

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	operatorPassword, err := bcrypt.GenerateFromPassword([]byte("operator123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}

	users := []struct {
		email    string
		password []byte
		name     string
		role     string
	}{
		{"admin@ferryops.local", adminPassword, "Fleet Admin", "admin"},
		{"operator@ferryops.local", operatorPassword, "Duty Operator", "operator"},
	}

	for _, u := range users {
		_, err := db.Exec(`
			INSERT INTO users (id, email, password, name, role)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), u.email, string(u.password), u.name, u.role)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	log.Printf("✅ Seeded %d users", len(users))
	return nil
}

// SeedFleet loads a starter set of islands and one vessel with a full seat map
// so a fresh install has something to schedule against
func SeedFleet(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM islands"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Fleet already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding islands and vessels...")

	islands := []struct {
		name string
		code string
		zone string
	}{
		{"Kaliford", "KLF", "north"},
		{"Brennock", "BRN", "north"},
		{"Seyla Atoll", "SEY", "central"},
		{"Port Maren", "PMR", "central"},
		{"Osprey Cay", "OSP", "south"},
		{"Tarrel", "TRL", "south"},
	}

	for _, isl := range islands {
		_, err := db.Exec(`
			INSERT INTO islands (id, name, code, zone)
			VALUES ($1, $2, $3, $4)
		`, uuid.New().String(), isl.name, isl.code, isl.zone)
		if err != nil {
			return fmt.Errorf("failed to seed island %s: %w", isl.code, err)
		}
	}

	// One 48-seat vessel: 12 rows of 4 (A window, B aisle, C aisle, D window)
	vesselID := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO vessels (id, name, registration, status, seat_count)
		VALUES ($1, $2, $3, 'active', 48)
	`, vesselID, "MV Kestrel", "FRY-001")
	if err != nil {
		return fmt.Errorf("failed to seed vessel: %w", err)
	}

	for row := 1; row <= 12; row++ {
		for _, col := range []struct {
			letter   string
			isWindow bool
			isAisle  bool
		}{
			{"A", true, false},
			{"B", false, true},
			{"C", false, true},
			{"D", true, false},
		} {
			_, err := db.Exec(`
				INSERT INTO seats (id, vessel_id, seat_number, row_number, is_window, is_aisle)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.New().String(), vesselID, fmt.Sprintf("%d%s", row, col.letter), row, col.isWindow, col.isAisle)
			if err != nil {
				return fmt.Errorf("failed to seed seat %d%s: %w", row, col.letter, err)
			}
		}
	}

	log.Printf("✅ Seeded %d islands and 1 vessel with 48 seats", len(islands))
	return nil
}
