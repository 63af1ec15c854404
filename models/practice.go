package models

// StartRequest begins a round in the given subcategory
type StartRequest struct {
	Subcategory string `json:"subcategory"`
}

// QuestionView is a question as delivered to the client: no answer,
// no explanation. Those only come back in the submit feedback.
type QuestionView struct {
	ID         int      `json:"id"`
	Stimulus   string   `json:"stimulus,omitempty"`
	Prompt     string   `json:"prompt"`
	Choices    []string `json:"choices,omitempty"`
	Difficulty int      `json:"difficulty"`
}

// RoundResponse is the payload for a started round
type RoundResponse struct {
	Round      int            `json:"round"`
	Difficulty int            `json:"difficulty"`
	Questions  []QuestionView `json:"questions"`
}

// SubmitRequest carries the answers for the open round
type SubmitRequest struct {
	Answers []SubmittedAnswer `json:"answers"`
}

type SubmittedAnswer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// AnswerResult is per-question feedback after a submit
type AnswerResult struct {
	QuestionID    int    `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// SubmitResponse summarizes the round and announces the difficulty
// the next round will be served at
type SubmitResponse struct {
	Results    []AnswerResult `json:"results"`
	Correct    int            `json:"correct"`
	Total      int            `json:"total"`
	Accuracy   float64        `json:"accuracy"`
	Difficulty int            `json:"difficulty"`
	Round      int            `json:"round"`
}

// SessionStats reports the session's running totals
type SessionStats struct {
	Subcategory string  `json:"subcategory"`
	Difficulty  int     `json:"difficulty"`
	Rounds      int     `json:"rounds"`
	Answered    int     `json:"answered"`
	Correct     int     `json:"correct"`
	Accuracy    float64 `json:"accuracy"`
	SeenCount   int     `json:"seen_count"`
}
