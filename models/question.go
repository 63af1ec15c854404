package models

import "time"

// Question represents a question in the system
type Question struct {
	ID          int       `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Difficulty  int       `json:"difficulty"`
	Stimulus    string    `json:"stimulus,omitempty"`
	Prompt      string    `json:"prompt"`
	Choices     []string  `json:"choices,omitempty"`
	Answer      string    `json:"answer"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// QuestionRequest for creating/updating questions
type QuestionRequest struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Difficulty  int      `json:"difficulty"`
	Stimulus    string   `json:"stimulus,omitempty"`
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// SubcategoryInfo pairs a subcategory with its question count
type SubcategoryInfo struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Questions   int    `json:"questions"`
}

// Import types
type ImportRequest struct {
	Questions []QuestionImport `json:"questions"`
}

type QuestionImport struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Difficulty  int      `json:"difficulty"`
	Stimulus    string   `json:"stimulus,omitempty"`
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type ImportResult struct {
	TotalQuestions    int      `json:"total_questions"`
	ImportedQuestions int      `json:"imported_questions"`
	SkippedQuestions  int      `json:"skipped_questions"`
	Errors            []string `json:"errors"`
	TimeTaken         string   `json:"time_taken"`
}
