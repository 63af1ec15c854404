package db

import (
	"time"

	"github.com/adamspd/SatPracticeApi/utils"
)

// LogAnswer records one graded answer for a session
func (db *DB) LogAnswer(sessionID string, questionID int, userAnswer string, isCorrect bool) error {
	utils.LogDB("Logging answer: session %s, question %d, correct %t", sessionID, questionID, isCorrect)
	start := time.Now()

	_, err := db.Exec(`
        INSERT INTO answer_logs (session_id, question_id, user_answer, is_correct)
        VALUES (?, ?, ?, ?)
    `, sessionID, questionID, userAnswer, isCorrect)

	if err != nil {
		duration := time.Since(start)
		utils.LogError("LogAnswer failed: %v (%v)", err, duration)
		return err
	}

	return nil
}

// GetSessionAnswerStats aggregates the answer log for a session
func (db *DB) GetSessionAnswerStats(sessionID string) (answered int, correct int, err error) {
	utils.LogDB("Calculating answer stats for session %s", sessionID)
	start := time.Now()

	// COALESCE handles sessions that have not answered anything yet
	err = db.QueryRow(`
        SELECT COALESCE(COUNT(*), 0) as answered,
               COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) as correct
        FROM answer_logs WHERE session_id = ?
    `, sessionID).Scan(&answered, &correct)
	if err != nil {
		utils.LogError("Failed to get session answer stats: %v", err)
		return 0, 0, err
	}

	duration := time.Since(start)
	utils.LogDB("Session %s stats: %d/%d correct in %v", sessionID, correct, answered, duration)
	return answered, correct, nil
}
