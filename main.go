package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/handlers"
	"github.com/adamspd/SatPracticeApi/practice"
	"github.com/adamspd/SatPracticeApi/utils"
	"github.com/joho/godotenv"
)

func main() {
	// Set up logging with timestamps
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	utils.LogStartup("SAT Practice API starting...")

	if err := godotenv.Load(); err != nil {
		utils.LogStartup("No .env file found, using environment as-is")
	}

	port := utils.GetEnvOrDefault("PORT", "8044")
	dbPath := utils.GetEnvOrDefault("DB_PATH", "./sat_practice.db")
	sessionTTL := utils.GetEnvInt("SESSION_TTL_HOURS", 12)
	adminKeyHash := os.Getenv("ADMIN_KEY_HASH")

	utils.LogStartup("Config: port=%s db=%s session_ttl=%dh", port, dbPath, sessionTTL)
	if adminKeyHash == "" {
		utils.LogStartup("ADMIN_KEY_HASH not set, question management endpoints are disabled")
	}

	// Initialize database
	utils.LogStartup("Initializing database connection...")
	database, err := db.InitDB(dbPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize database: %v", err)
	}

	sessions := practice.NewSessionStore(time.Duration(sessionTTL) * time.Hour)
	service := practice.NewService(database, sessions)

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		utils.LogShutdown("Received shutdown signal, closing database...")
		if err := database.Close(); err != nil {
			utils.LogError("Error closing database: %v", err)
		} else {
			utils.LogShutdown("Database connection closed successfully")
		}
		os.Exit(0)
	}()

	// Setup API routes
	utils.LogStartup("Setting up API routes...")
	router := handlers.NewRouter(database, service, adminKeyHash)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.LogStartup("Starting HTTP server on port %s...", port)
	utils.LogStartup("Server ready to accept connections at http://localhost:%s", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
}
