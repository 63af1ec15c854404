package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/utils"
)

type QuestionHandlers struct {
	db *db.DB
}

func NewQuestionHandlers(database *db.DB) *QuestionHandlers {
	return &QuestionHandlers{
		db: database,
	}
}

func (qh *QuestionHandlers) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("%s /api/questions", r.Method)
	switch r.Method {
	case http.MethodGet:
		qh.getQuestions(w, r)
	case http.MethodPost:
		qh.createQuestion(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /api/questions", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (qh *QuestionHandlers) HandleQuestionByID(w http.ResponseWriter, r *http.Request, id int) {
	utils.LogHTTP("%s /api/questions/%d", r.Method, id)
	switch r.Method {
	case http.MethodGet:
		qh.getQuestionByID(w, r, id)
	case http.MethodPut:
		qh.updateQuestion(w, r, id)
	case http.MethodDelete:
		qh.deleteQuestion(w, r, id)
	default:
		utils.LogHTTP("Method %s not allowed for /api/questions/%d", r.Method, id)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (qh *QuestionHandlers) getQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := qh.db.GetAllQuestions()
	if err != nil {
		utils.LogError("Failed to fetch questions: %v", err)
		http.Error(w, "Failed to fetch questions", http.StatusInternalServerError)
		return
	}

	utils.LogHTTP("Returning %d questions", len(questions))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"questions": questions,
	})
}

func (qh *QuestionHandlers) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in create request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	question, err := qh.db.CreateQuestion(req)
	if err != nil {
		utils.LogError("Failed to create question: %v", err)
		http.Error(w, "Failed to create question: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.LogHTTP("Created question ID %d", question.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(question)
}

func (qh *QuestionHandlers) getQuestionByID(w http.ResponseWriter, r *http.Request, id int) {
	question, err := qh.db.GetQuestionByID(id)
	if err != nil {
		utils.LogHTTP("Question ID %d not found: %v", id, err)
		http.Error(w, "Question not found", http.StatusNotFound)
		return
	}

	utils.LogHTTP("Returning question ID %d", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(question)
}

func (qh *QuestionHandlers) updateQuestion(w http.ResponseWriter, r *http.Request, id int) {
	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in update request for ID %d: %v", id, err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	question, err := qh.db.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Question not found", http.StatusNotFound)
			return
		}
		utils.LogError("Failed to update question ID %d: %v", id, err)
		http.Error(w, "Failed to update question: "+err.Error(), http.StatusBadRequest)
		return
	}

	utils.LogHTTP("Updated question ID %d", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(question)
}

func (qh *QuestionHandlers) deleteQuestion(w http.ResponseWriter, r *http.Request, id int) {
	if err := qh.db.DeleteQuestion(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Question not found", http.StatusNotFound)
			return
		}
		utils.LogError("Failed to delete question ID %d: %v", id, err)
		http.Error(w, "Failed to delete question", http.StatusInternalServerError)
		return
	}

	utils.LogHTTP("Deleted question ID %d", id)
	w.WriteHeader(http.StatusNoContent)
}

func (qh *QuestionHandlers) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.LogHTTP("Method %s not allowed for /api/import", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var importReq models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&importReq); err != nil {
		utils.LogHTTP("Invalid JSON in import request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(importReq.Questions) == 0 {
		http.Error(w, "No questions to import", http.StatusBadRequest)
		return
	}

	result, err := qh.db.ImportQuestions(importReq)
	if err != nil {
		utils.LogError("Import failed: %v", err)
		http.Error(w, "Import failed", http.StatusInternalServerError)
		return
	}

	utils.LogHTTP("Import finished: %d/%d imported", result.ImportedQuestions, result.TotalQuestions)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
