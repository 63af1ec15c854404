package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/practice"
	"github.com/adamspd/SatPracticeApi/utils"
)

type PracticeHandlers struct {
	db      *db.DB
	service *practice.Service
}

func NewPracticeHandlers(database *db.DB, service *practice.Service) *PracticeHandlers {
	return &PracticeHandlers{
		db:      database,
		service: service,
	}
}

func (ph *PracticeHandlers) StartRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.LogHTTP("Method %s not allowed for /api/practice/start", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "No active practice session", http.StatusUnauthorized)
		return
	}

	var req models.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in start request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Subcategory) == "" {
		http.Error(w, "Subcategory is required", http.StatusBadRequest)
		return
	}

	round, err := ph.service.StartRound(session, strings.TrimSpace(req.Subcategory))
	if err != nil {
		switch {
		case errors.Is(err, practice.ErrUnknownSubcategory):
			http.Error(w, "Unknown subcategory: "+req.Subcategory, http.StatusBadRequest)
		case errors.Is(err, practice.ErrPoolExhausted):
			http.Error(w, "No more questions available for this subcategory", http.StatusConflict)
		default:
			utils.LogError("Failed to start round: %v", err)
			http.Error(w, "Failed to start round", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(round)
}

func (ph *PracticeHandlers) SubmitRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.LogHTTP("Method %s not allowed for /api/practice/submit", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "No active practice session", http.StatusUnauthorized)
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in submit request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(req.Answers) == 0 {
		http.Error(w, "No answers submitted", http.StatusBadRequest)
		return
	}

	result, err := ph.service.SubmitRound(session, req)
	if err != nil {
		switch {
		case errors.Is(err, practice.ErrNoOpenRound):
			http.Error(w, "No open round to submit", http.StatusBadRequest)
		case errors.Is(err, practice.ErrNoValidAnswers):
			http.Error(w, "No valid answers in submission", http.StatusBadRequest)
		default:
			utils.LogError("Failed to submit round: %v", err)
			http.Error(w, "Failed to submit round", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (ph *PracticeHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.LogHTTP("Method %s not allowed for /api/practice/stats", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "No active practice session", http.StatusUnauthorized)
		return
	}

	stats, err := ph.service.Stats(session)
	if err != nil {
		utils.LogError("Failed to fetch stats for session %s: %v", session.Token, err)
		http.Error(w, "Failed to fetch stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (ph *PracticeHandlers) GetSubcategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.LogHTTP("Method %s not allowed for /api/subcategories", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	subcategories, err := ph.db.GetSubcategories()
	if err != nil {
		utils.LogError("Failed to fetch subcategories: %v", err)
		http.Error(w, "Failed to fetch subcategories", http.StatusInternalServerError)
		return
	}

	if subcategories == nil {
		subcategories = []models.SubcategoryInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subcategories)
}
