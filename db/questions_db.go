package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/utils"
)

const questionColumns = "id, category, subcategory, difficulty, stimulus, prompt, choices, answer, explanation, created_at, updated_at"

func scanQuestion(scan func(dest ...interface{}) error) (*models.Question, error) {
	var q models.Question
	var stimulus, choicesJSON sql.NullString

	err := scan(&q.ID, &q.Category, &q.Subcategory, &q.Difficulty, &stimulus, &q.Prompt,
		&choicesJSON, &q.Answer, &q.Explanation, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if stimulus.Valid {
		q.Stimulus = stimulus.String
	}

	if choicesJSON.Valid && choicesJSON.String != "" {
		json.Unmarshal([]byte(choicesJSON.String), &q.Choices)
	}

	return &q, nil
}

// GetUnseenQuestions returns up to limit questions matching subcategory
// and difficulty whose IDs are not in seenIDs, in random order.
func (db *DB) GetUnseenQuestions(subcategory string, difficulty int, seenIDs []int, limit int) ([]models.Question, error) {
	utils.LogDB("Getting up to %d unseen questions: subcategory='%s' difficulty=%d (%d seen)",
		limit, subcategory, difficulty, len(seenIDs))
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM questions WHERE subcategory = ? AND difficulty = ?", questionColumns)
	args := []interface{}{subcategory, difficulty}

	if len(seenIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seenIDs)), ",")
		query += fmt.Sprintf(" AND id NOT IN (%s)", placeholders)
		for _, id := range seenIDs {
			args = append(args, id)
		}
	}

	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		utils.LogError("GetUnseenQuestions query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, *q)
	}

	duration := time.Since(start)
	utils.LogDB("GetUnseenQuestions completed: %d questions in %v", len(questions), duration)
	return questions, nil
}

func (db *DB) GetQuestionByID(id int) (*models.Question, error) {
	utils.LogDB("Executing query: GetQuestionByID(%d)", id)
	start := time.Now()

	row := db.QueryRow(fmt.Sprintf("SELECT %s FROM questions WHERE id = ?", questionColumns), id)
	q, err := scanQuestion(row.Scan)
	if err != nil {
		duration := time.Since(start)
		if err == sql.ErrNoRows {
			utils.LogDB("Question ID %d not found (%v)", id, duration)
		} else {
			utils.LogError("GetQuestionByID(%d) failed: %v (%v)", id, err, duration)
		}
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("GetQuestionByID(%d) completed in %v", id, duration)
	return q, nil
}

func (db *DB) GetAllQuestions() ([]models.Question, error) {
	utils.LogDB("Getting all questions")
	start := time.Now()

	rows, err := db.Query(fmt.Sprintf("SELECT %s FROM questions ORDER BY subcategory, difficulty, id", questionColumns))
	if err != nil {
		utils.LogError("GetAllQuestions query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			utils.LogError("Failed to scan question row: %v", err)
			return nil, err
		}
		questions = append(questions, *q)
	}

	duration := time.Since(start)
	utils.LogDB("GetAllQuestions completed: %d questions in %v", len(questions), duration)
	return questions, nil
}

// GetSubcategories lists every distinct subcategory with its question count
func (db *DB) GetSubcategories() ([]models.SubcategoryInfo, error) {
	utils.LogDB("Getting subcategory list")
	start := time.Now()

	rows, err := db.Query(`
		SELECT category, subcategory, COUNT(*) as questions
		FROM questions
		GROUP BY category, subcategory
		ORDER BY category, subcategory
	`)
	if err != nil {
		utils.LogError("GetSubcategories query failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var subcategories []models.SubcategoryInfo
	for rows.Next() {
		var info models.SubcategoryInfo
		if err := rows.Scan(&info.Category, &info.Subcategory, &info.Questions); err != nil {
			utils.LogError("Failed to scan subcategory row: %v", err)
			return nil, err
		}
		subcategories = append(subcategories, info)
	}

	duration := time.Since(start)
	utils.LogDB("GetSubcategories completed: %d subcategories in %v", len(subcategories), duration)
	return subcategories, nil
}

// SubcategoryExists reports whether any question carries the subcategory
func (db *DB) SubcategoryExists(subcategory string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM questions WHERE subcategory = ?", subcategory).Scan(&count)
	if err != nil {
		utils.LogError("SubcategoryExists(%s) failed: %v", subcategory, err)
		return false, err
	}
	return count > 0, nil
}

func validateQuestionRequest(req models.QuestionRequest) error {
	if strings.TrimSpace(req.Subcategory) == "" {
		return fmt.Errorf("subcategory is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return fmt.Errorf("answer is required")
	}
	if strings.TrimSpace(req.Explanation) == "" {
		return fmt.Errorf("explanation is required")
	}
	if req.Difficulty < 1 || req.Difficulty > 3 {
		return fmt.Errorf("difficulty must be between 1 and 3, got %d", req.Difficulty)
	}
	if len(req.Choices) == 1 {
		return fmt.Errorf("choice questions must have at least 2 choices")
	}
	if len(req.Choices) > 1 {
		answerInChoices := false
		for _, choice := range req.Choices {
			if utils.NormalizeAnswer(choice) == utils.NormalizeAnswer(req.Answer) {
				answerInChoices = true
				break
			}
		}
		if !answerInChoices {
			return fmt.Errorf("answer '%s' not found in choices", req.Answer)
		}
	}
	return nil
}

func (db *DB) CreateQuestion(req models.QuestionRequest) (*models.Question, error) {
	utils.LogDB("Creating question: subcategory='%s' difficulty=%d", req.Subcategory, req.Difficulty)
	start := time.Now()

	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "math"
	}

	var choicesJSON []byte
	if len(req.Choices) > 0 {
		choicesJSON, _ = json.Marshal(req.Choices)
	}

	result, err := db.Exec(`
		INSERT INTO questions (category, subcategory, difficulty, stimulus, prompt, choices, answer, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, category, strings.TrimSpace(req.Subcategory), req.Difficulty, req.Stimulus,
		strings.TrimSpace(req.Prompt), string(choicesJSON), strings.TrimSpace(req.Answer), req.Explanation)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("CreateQuestion failed: %v (%v)", err, duration)
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.LogError("Failed to get LastInsertId: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	utils.LogDB("Question created with ID %d in %v", id, duration)

	return db.GetQuestionByID(int(id))
}

func (db *DB) UpdateQuestion(id int, req models.QuestionRequest) (*models.Question, error) {
	utils.LogDB("Updating question ID %d", id)
	start := time.Now()

	current, err := db.GetQuestionByID(id)
	if err != nil {
		return nil, err
	}

	if err := validateQuestionRequest(req); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = current.Category
	}

	var choicesJSON []byte
	if len(req.Choices) > 0 {
		choicesJSON, _ = json.Marshal(req.Choices)
	}

	_, err = db.Exec(`
		UPDATE questions
		SET category = ?, subcategory = ?, difficulty = ?, stimulus = ?, prompt = ?, choices = ?,
		    answer = ?, explanation = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, category, strings.TrimSpace(req.Subcategory), req.Difficulty, req.Stimulus,
		strings.TrimSpace(req.Prompt), string(choicesJSON), strings.TrimSpace(req.Answer), req.Explanation, id)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("UpdateQuestion(%d) failed: %v (%v)", id, err, duration)
		return nil, err
	}

	// Clear logged answers if the answer changed, they were graded
	// against the old one
	if current.Answer != req.Answer {
		utils.LogDB("Answer changed for question %d, clearing answer logs", id)
		deleteResult, err := db.Exec("DELETE FROM answer_logs WHERE question_id = ?", id)
		if err != nil {
			utils.LogError("Failed to clear answer logs for question %d: %v", id, err)
			return nil, err
		}
		logsDeleted, _ := deleteResult.RowsAffected()
		utils.LogDB("Cleared %d answer log entries for question %d", logsDeleted, id)
	}

	duration := time.Since(start)
	utils.LogDB("UpdateQuestion(%d) completed in %v", id, duration)

	return db.GetQuestionByID(id)
}

func (db *DB) DeleteQuestion(id int) error {
	utils.LogDB("Deleting question ID %d", id)
	start := time.Now()

	logResult, err := db.Exec("DELETE FROM answer_logs WHERE question_id = ?", id)
	if err != nil {
		utils.LogError("Failed to delete answer logs for question %d: %v", id, err)
		return err
	}

	logsDeleted, _ := logResult.RowsAffected()
	if logsDeleted > 0 {
		utils.LogDB("Deleted %d answer log entries for question %d", logsDeleted, id)
	}

	questionResult, err := db.Exec("DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		duration := time.Since(start)
		utils.LogError("Failed to delete question %d: %v (%v)", id, err, duration)
		return err
	}

	rowsAffected, _ := questionResult.RowsAffected()
	duration := time.Since(start)

	if rowsAffected == 0 {
		utils.LogDB("DeleteQuestion(%d): no rows affected (%v)", id, duration)
		return sql.ErrNoRows
	}

	utils.LogDB("DeleteQuestion(%d) completed in %v", id, duration)
	return nil
}

func (db *DB) ImportQuestions(importReq models.ImportRequest) (*models.ImportResult, error) {
	utils.LogImport("Starting import of %d questions", len(importReq.Questions))
	start := time.Now()

	result := &models.ImportResult{
		TotalQuestions: len(importReq.Questions),
		Errors:         make([]string, 0),
	}

	tx, err := db.Begin()
	if err != nil {
		utils.LogError("Failed to start transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	utils.LogImport("Transaction started")

	stmt, err := tx.Prepare(`
		INSERT INTO questions (category, subcategory, difficulty, stimulus, prompt, choices, answer, explanation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		utils.LogError("Failed to prepare statement: %v", err)
		return nil, err
	}
	defer stmt.Close()

	existingPrompts := make(map[string]bool)
	rows, err := db.Query("SELECT prompt FROM questions")
	if err != nil {
		utils.LogError("Failed to fetch existing questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var existingPrompt string
		if err := rows.Scan(&existingPrompt); err != nil {
			utils.LogError("Failed to scan existing question: %v", err)
			continue
		}
		existingPrompts[strings.ToLower(strings.TrimSpace(existingPrompt))] = true
	}

	utils.LogImport("Found %d existing questions to check for duplicates", len(existingPrompts))

	for i, q := range importReq.Questions {
		utils.LogImport("Processing question %d/%d: subcategory='%s'", i+1, len(importReq.Questions), q.Subcategory)

		req := models.QuestionRequest{
			Category:    q.Category,
			Subcategory: q.Subcategory,
			Difficulty:  q.Difficulty,
			Stimulus:    q.Stimulus,
			Prompt:      q.Prompt,
			Choices:     q.Choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
		if req.Difficulty == 0 {
			req.Difficulty = 2
			utils.LogImport("Question %d: using default difficulty 2", i+1)
		}

		if err := validateQuestionRequest(req); err != nil {
			errMsg := fmt.Sprintf("Question %d: %v", i+1, err)
			utils.LogImport("SKIP: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.SkippedQuestions++
			continue
		}

		promptKey := strings.ToLower(strings.TrimSpace(q.Prompt))
		if existingPrompts[promptKey] {
			errMsg := fmt.Sprintf("Question %d: duplicate question already exists", i+1)
			utils.LogImport("SKIP: %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.SkippedQuestions++
			continue
		}

		category := strings.TrimSpace(q.Category)
		if category == "" {
			category = "math"
		}

		var choicesJSON []byte
		if len(q.Choices) > 0 {
			choicesJSON, err = json.Marshal(q.Choices)
			if err != nil {
				errMsg := fmt.Sprintf("Question %d: failed to marshal choices: %v", i+1, err)
				utils.LogImport("SKIP: %s", errMsg)
				result.Errors = append(result.Errors, errMsg)
				result.SkippedQuestions++
				continue
			}
		}

		_, err = stmt.Exec(
			category,
			strings.TrimSpace(q.Subcategory),
			req.Difficulty,
			q.Stimulus,
			strings.TrimSpace(q.Prompt),
			string(choicesJSON),
			strings.TrimSpace(q.Answer),
			q.Explanation,
		)

		if err != nil {
			errMsg := fmt.Sprintf("Question %d: database insert failed: %v", i+1, err)
			utils.LogError("%s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.SkippedQuestions++
			continue
		}

		existingPrompts[promptKey] = true
		result.ImportedQuestions++

		if (i+1)%10 == 0 || i+1 == len(importReq.Questions) {
			utils.LogImport("Progress: %d/%d questions processed", i+1, len(importReq.Questions))
		}
	}

	if err := tx.Commit(); err != nil {
		utils.LogError("Failed to commit transaction: %v", err)
		return nil, err
	}

	duration := time.Since(start)
	result.TimeTaken = duration.String()

	utils.LogImport("Import completed: %d imported, %d skipped, %d errors in %v",
		result.ImportedQuestions, result.SkippedQuestions, len(result.Errors), duration)

	return result, nil
}
