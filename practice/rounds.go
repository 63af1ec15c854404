package practice

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/utils"
)

var (
	ErrUnknownSubcategory = errors.New("unknown subcategory")
	ErrPoolExhausted      = errors.New("no more questions available")
	ErrNoOpenRound        = errors.New("no open round to submit")
	ErrNoValidAnswers     = errors.New("no valid answers in submission")
)

// Service runs the round lifecycle: select unseen questions, grade
// submissions, adjust difficulty.
type Service struct {
	db       *db.DB
	sessions *SessionStore

	// mu serializes session bookkeeping so two concurrent requests on
	// the same session cannot be served overlapping questions or read
	// state mid-update.
	mu sync.Mutex
}

func NewService(database *db.DB, sessions *SessionStore) *Service {
	return &Service{
		db:       database,
		sessions: sessions,
	}
}

func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// StartRound selects up to RoundSize unseen questions for the session
// at its current difficulty and marks them seen immediately, so a
// question can never be delivered twice even if the client re-requests
// before answering.
func (s *Service) StartRound(session *models.PracticeSession, subcategory string) (*models.RoundResponse, error) {
	exists, err := s.db.SubcategoryExists(subcategory)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownSubcategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session.Subcategory = subcategory

	questions, difficulty, err := s.selectQuestions(session, subcategory)
	if err != nil {
		return nil, err
	}

	session.Round++
	session.OpenRound = make([]int, 0, len(questions))
	views := make([]models.QuestionView, 0, len(questions))

	for _, q := range questions {
		session.MarkSeen(q.ID)
		session.OpenRound = append(session.OpenRound, q.ID)
		views = append(views, models.QuestionView{
			ID:         q.ID,
			Stimulus:   q.Stimulus,
			Prompt:     q.Prompt,
			Choices:    q.Choices,
			Difficulty: q.Difficulty,
		})
	}

	utils.LogSession("Session %s round %d: %d questions at difficulty %d (subcategory '%s')",
		session.Token, session.Round, len(views), difficulty, subcategory)

	return &models.RoundResponse{
		Round:      session.Round,
		Difficulty: difficulty,
		Questions:  views,
	}, nil
}

// selectQuestions tries the session's exact difficulty first. When the
// exact tier is empty it widens to the nearest tiers still in range
// before giving up with ErrPoolExhausted. Partial rounds (1 to 4
// questions) are served as-is.
func (s *Service) selectQuestions(session *models.PracticeSession, subcategory string) ([]models.Question, int, error) {
	seen := session.SeenIDs()

	questions, err := s.db.GetUnseenQuestions(subcategory, session.Difficulty, seen, RoundSize)
	if err != nil {
		return nil, 0, err
	}
	if len(questions) > 0 {
		return questions, session.Difficulty, nil
	}

	for _, delta := range []int{-1, 1, -2, 2} {
		difficulty := session.Difficulty + delta
		if difficulty < MinDifficulty || difficulty > MaxDifficulty {
			continue
		}

		questions, err = s.db.GetUnseenQuestions(subcategory, difficulty, seen, RoundSize)
		if err != nil {
			return nil, 0, err
		}
		if len(questions) > 0 {
			utils.LogSession("Session %s: difficulty %d exhausted for '%s', widened to %d",
				session.Token, session.Difficulty, subcategory, difficulty)
			return questions, difficulty, nil
		}
	}

	return nil, 0, ErrPoolExhausted
}

// SubmitRound grades the answers for the open round against the stored
// questions, logs them, and adjusts the session difficulty for the
// next round.
func (s *Service) SubmitRound(session *models.PracticeSession, req models.SubmitRequest) (*models.SubmitResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(session.OpenRound) == 0 {
		return nil, ErrNoOpenRound
	}

	results := make([]models.AnswerResult, 0, len(req.Answers))
	graded := make(map[int]struct{}, len(req.Answers))
	correct := 0

	for _, answer := range req.Answers {
		if answer.QuestionID == 0 {
			continue
		}
		if _, done := graded[answer.QuestionID]; done {
			utils.LogSession("Session %s: duplicate answer for question %d, skipping",
				session.Token, answer.QuestionID)
			continue
		}
		if !session.InOpenRound(answer.QuestionID) {
			utils.LogSession("Session %s: answer for question %d outside open round, skipping",
				session.Token, answer.QuestionID)
			continue
		}

		question, err := s.db.GetQuestionByID(answer.QuestionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				utils.LogSession("Session %s: answered question %d no longer exists, skipping",
					session.Token, answer.QuestionID)
				continue
			}
			return nil, err
		}

		graded[answer.QuestionID] = struct{}{}

		isCorrect := utils.CheckAnswer(question.Answer, answer.Answer)
		if isCorrect {
			correct++
		}

		if err := s.db.LogAnswer(session.Token, question.ID, answer.Answer, isCorrect); err != nil {
			return nil, err
		}

		results = append(results, models.AnswerResult{
			QuestionID:    question.ID,
			Correct:       isCorrect,
			CorrectAnswer: question.Answer,
			Explanation:   question.Explanation,
		})
	}

	if len(results) == 0 {
		return nil, ErrNoValidAnswers
	}

	total := len(results)
	accuracy := float64(correct) / float64(total)
	newDifficulty := AdjustDifficulty(session.Difficulty, correct, total)

	utils.LogSession("Session %s round %d submitted: %d/%d correct, difficulty %d -> %d",
		session.Token, session.Round, correct, total, session.Difficulty, newDifficulty)

	session.Answered += total
	session.Correct += correct
	session.Difficulty = newDifficulty
	session.OpenRound = nil

	return &models.SubmitResponse{
		Results:    results,
		Correct:    correct,
		Total:      total,
		Accuracy:   accuracy,
		Difficulty: newDifficulty,
		Round:      session.Round,
	}, nil
}

// Stats reports the session's running totals. Answered and correct
// counts come from the answer log so they survive whatever the
// in-memory counters might have missed.
func (s *Service) Stats(session *models.PracticeSession) (*models.SessionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered, correct, err := s.db.GetSessionAnswerStats(session.Token)
	if err != nil {
		return nil, err
	}

	stats := &models.SessionStats{
		Subcategory: session.Subcategory,
		Difficulty:  session.Difficulty,
		Rounds:      session.Round,
		Answered:    answered,
		Correct:     correct,
		SeenCount:   len(session.Seen),
	}
	if answered > 0 {
		stats.Accuracy = float64(correct) / float64(answered)
	}

	return stats, nil
}
