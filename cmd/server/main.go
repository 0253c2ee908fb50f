package main

import (
	"log"
	"net/http"
	"os"

	"ferryops-backend/internal/database"
	"ferryops-backend/internal/handlers"
	"ferryops-backend/internal/middleware"
	"ferryops-backend/internal/services"
	"ferryops-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FERRYOPS BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Get database URL
	log.Println("🔍 Checking DATABASE_URL environment variable...")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: DATABASE_URL environment variable is required")
		log.Println("   Please set DATABASE_URL in your deployment variables or .env file")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("DATABASE_URL environment variable is required")
	}
	log.Println("✅ DATABASE_URL found")

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong DATABASE_URL format")
		log.Println("   2. PostgreSQL service is down")
		log.Println("   3. Network connectivity issue")
		log.Println("   4. Invalid credentials")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Users seeded successfully")

	if err := database.SeedFleet(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Fleet seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Fleet seeded successfully")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		// Fall back to file path (local development)
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Operational endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Auth status endpoint
			r.Get("/auth/status", handlers.GetAuthStatus(db))

			// Islands
			r.Get("/islands", handlers.GetIslands(db))

			// Routes and segment fares
			r.Get("/routes", handlers.GetRoutes(db))
			r.Get("/routes/{id}", handlers.GetRoute(db))
			r.Post("/routes/{id}/fares/generate", handlers.GenerateRouteFaresPreview(db))

			// Vessels and seat maps
			r.Get("/vessels", handlers.GetVessels(db))
			r.Get("/vessels/{id}", handlers.GetVessel(db))
			r.Get("/vessels/{id}/seats", handlers.GetVesselSeats(db))

			// Trips
			r.Get("/trips", handlers.GetTrips(db))
			r.Get("/trips/{id}", handlers.GetTripByID(db))
			r.Post("/trips/{id}/status", handlers.UpdateTripStatus(db, wsHub))
			r.Get("/trips/{id}/fares", handlers.GetTripEffectiveFares(db))
			r.Get("/trips/{id}/fare-overrides", handlers.GetTripFareOverrides(db))

			// Bookings
			r.Get("/trips/{id}/bookings", handlers.GetTripBookings(db))
			r.Post("/trips/{id}/bookings", handlers.CreateBooking(db))
			r.Get("/bookings/{id}", handlers.GetBooking(db))
			r.Post("/bookings/{id}/cancel", handlers.CancelBooking(db))
			r.Patch("/passengers/{id}/seat", handlers.UpdatePassengerSeat(db))

			// Vessel swap preview (any authenticated staff can inspect a plan)
			r.Post("/trips/{id}/vessel-swap/preview", handlers.PreviewVesselSwap(db))

			// Analytics
			r.Get("/analytics/routes", handlers.GetRoutePerformance(db))
			r.Get("/analytics/occupancy", handlers.GetTripOccupancy(db))

			// FCM token registration
			r.Post("/fcm-token", handlers.RegisterFCMToken(db))
		})

		// Admin endpoints (require authentication + admin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin"))

			// Island management
			r.Post("/islands", handlers.CreateIsland(db))
			r.Patch("/islands/{id}", handlers.UpdateIsland(db))
			r.Delete("/islands/{id}", handlers.DeleteIsland(db))

			// Route management
			r.Post("/routes", handlers.CreateRoute(db))
			r.Patch("/routes/{id}", handlers.UpdateRoute(db))
			r.Delete("/routes/{id}", handlers.DeleteRoute(db))
			r.Put("/routes/{id}/fares", handlers.SaveRouteFares(db))

			// Vessel management
			r.Post("/vessels", handlers.CreateVessel(db))
			r.Patch("/vessels/{id}", handlers.UpdateVessel(db))
			r.Delete("/vessels/{id}", handlers.DeleteVessel(db))
			r.Put("/vessels/{id}/seats", handlers.ReplaceVesselSeats(db))

			// Trip management
			r.Post("/trips", handlers.CreateTrip(db))
			r.Patch("/trips/{id}", handlers.UpdateTrip(db))
			r.Put("/trips/{id}/fare-overrides", handlers.SaveTripFareOverrides(db))

			// Vessel swap apply + audit log
			r.Post("/trips/{id}/vessel-swap", handlers.ApplyVesselSwap(db, wsHub, fcmService))
			r.Get("/vessel-swaps", handlers.GetVesselSwapHistory(db))

			// User management
			r.Get("/users", handlers.GetUsers(db))
			r.Post("/users", handlers.CreateUser(db))
			r.Patch("/users/{id}/role", handlers.UpdateUserRole(db))
			r.Delete("/users/{id}", handlers.DeleteUser(db))
		})
	})

	// Get port
	log.Println("🔍 Checking PORT environment variable...")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	} else {
		log.Printf("✅ PORT found: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
