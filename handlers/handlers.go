package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/practice"
	"github.com/adamspd/SatPracticeApi/utils"
)

// API wrapper to hold all handlers
type API struct {
	practiceHandlers *PracticeHandlers
	questionHandlers *QuestionHandlers
}

func NewAPI(database *db.DB, service *practice.Service) *API {
	return &API{
		practiceHandlers: NewPracticeHandlers(database, service),
		questionHandlers: NewQuestionHandlers(database),
	}
}

func NewRouter(database *db.DB, service *practice.Service, adminKeyHash string) http.Handler {
	api := NewAPI(database, service)

	mux := http.NewServeMux()

	// Health check (no session required)
	mux.HandleFunc("/health", healthCheck)

	// Practice surface: session minted on first start, required afterwards
	mux.HandleFunc("/api/subcategories", loggingMiddleware(api.practiceHandlers.GetSubcategories))
	mux.HandleFunc("/api/practice/start", loggingMiddleware(sessionMiddleware(api.practiceHandlers.StartRound, service.Sessions(), true)))
	mux.HandleFunc("/api/practice/submit", loggingMiddleware(sessionMiddleware(api.practiceHandlers.SubmitRound, service.Sessions(), false)))
	mux.HandleFunc("/api/practice/stats", loggingMiddleware(sessionMiddleware(api.practiceHandlers.GetStats, service.Sessions(), false)))

	// Question management (admin key required)
	mux.HandleFunc("/api/questions", loggingMiddleware(adminMiddleware(api.questionHandlers.HandleQuestions, adminKeyHash)))
	mux.HandleFunc("/api/questions/", loggingMiddleware(adminMiddleware(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/questions/")
		id, err := strconv.Atoi(path)
		if err != nil {
			utils.LogHTTP("Invalid question ID: %s", path)
			http.Error(w, "Invalid question ID", http.StatusBadRequest)
			return
		}
		api.questionHandlers.HandleQuestionByID(w, r, id)
	}, adminKeyHash)))
	mux.HandleFunc("/api/import", loggingMiddleware(adminMiddleware(api.questionHandlers.ImportQuestions, adminKeyHash)))

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("Health check requested")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
