package main

import (
	"fmt"
	"log"
	"os"

	"ferryops-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// Create schema and seed baseline data
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedFleet(db); err != nil {
		log.Fatalf("Fleet seeding failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	// Query and display summary
	var result struct {
		Users   int `db:"users"`
		Islands int `db:"islands"`
		Vessels int `db:"vessels"`
		Seats   int `db:"seats"`
		Routes  int `db:"routes"`
		Trips   int `db:"trips"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM islands) AS islands,
			(SELECT COUNT(*) FROM vessels) AS vessels,
			(SELECT COUNT(*) FROM seats) AS seats,
			(SELECT COUNT(*) FROM routes) AS routes,
			(SELECT COUNT(*) FROM trips) AS trips
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:     %d\n", result.Users)
	fmt.Printf("Islands:   %d\n", result.Islands)
	fmt.Printf("Vessels:   %d\n", result.Vessels)
	fmt.Printf("Seats:     %d\n", result.Seats)
	fmt.Printf("Routes:    %d\n", result.Routes)
	fmt.Printf("Trips:     %d\n", result.Trips)
	fmt.Println("============================================================")
}
