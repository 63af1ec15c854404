package practice

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/adamspd/SatPracticeApi/db"
	"github.com/adamspd/SatPracticeApi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubcategory = "Linear equations in one variable"

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return database
}

// seedQuestions inserts n questions for the subcategory at the given
// difficulty. Every question's correct answer is "B".
func seedQuestions(t *testing.T, database *db.DB, subcategory string, difficulty, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := database.CreateQuestion(models.QuestionRequest{
			Category:    "math",
			Subcategory: subcategory,
			Difficulty:  difficulty,
			Prompt:      fmt.Sprintf("Solve for x (%s, difficulty %d, #%d)", subcategory, difficulty, i),
			Choices:     []string{"A", "B", "C", "D"},
			Answer:      "B",
			Explanation: "Isolate x on one side of the equation.",
		})
		require.NoError(t, err)
	}
}

func newTestService(t *testing.T, database *db.DB) (*Service, *models.PracticeSession) {
	t.Helper()

	sessions := NewSessionStore(time.Hour)
	service := NewService(database, sessions)
	return service, sessions.CreateSession()
}

func TestStartRoundServesAtCurrentDifficulty(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 8)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	assert.Equal(t, 1, round.Round)
	assert.Equal(t, 2, round.Difficulty)
	require.Len(t, round.Questions, RoundSize)
	for _, q := range round.Questions {
		assert.Equal(t, 2, q.Difficulty)
		assert.True(t, session.HasSeen(q.ID), "served question must be marked seen")
	}
	assert.Len(t, session.OpenRound, RoundSize)
}

func TestStartRoundNeverRepeatsQuestions(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 12)
	service, session := newTestService(t, database)

	served := make(map[int]bool)
	for i := 0; i < 3; i++ {
		round, err := service.StartRound(session, testSubcategory)
		require.NoError(t, err)
		for _, q := range round.Questions {
			assert.False(t, served[q.ID], "question %d served twice", q.ID)
			served[q.ID] = true
		}
	}

	// 12 questions in the pool: 5 + 5 + 2
	assert.Len(t, served, 12)
}

func TestStartRoundPartialRound(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 3)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)
	assert.Len(t, round.Questions, 3)
}

func TestStartRoundWidensWhenTierEmpty(t *testing.T) {
	database := newTestDB(t)
	// Session sits at difficulty 2 but only difficulty 1 questions exist
	seedQuestions(t, database, testSubcategory, 1, 4)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)
	assert.Equal(t, 1, round.Difficulty)
	assert.Len(t, round.Questions, 4)
}

func TestStartRoundPoolExhausted(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	_, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	_, err = service.StartRound(session, testSubcategory)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestStartRoundUnknownSubcategory(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	_, err := service.StartRound(session, "Ancient philosophy")
	assert.ErrorIs(t, err, ErrUnknownSubcategory)
}

func submitAll(round *models.RoundResponse, answer string) models.SubmitRequest {
	var req models.SubmitRequest
	for _, q := range round.Questions {
		req.Answers = append(req.Answers, models.SubmittedAnswer{
			QuestionID: q.ID,
			Answer:     answer,
		})
	}
	return req
}

func TestSubmitRoundAllCorrectRaisesDifficulty(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	seedQuestions(t, database, testSubcategory, 3, 5)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	result, err := service.SubmitRound(session, submitAll(round, "B"))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Correct)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 1.0, result.Accuracy)
	assert.Equal(t, 3, result.Difficulty)
	assert.Equal(t, 3, session.Difficulty)
	assert.Empty(t, session.OpenRound)

	for _, r := range result.Results {
		assert.True(t, r.Correct)
		assert.Equal(t, "B", r.CorrectAnswer)
		assert.NotEmpty(t, r.Explanation)
	}

	// Next round is served at the raised difficulty
	next, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Difficulty)
}

func TestSubmitRoundAllWrongLowersDifficulty(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	result, err := service.SubmitRound(session, submitAll(round, "C"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Correct)
	assert.Equal(t, 1, result.Difficulty)
	assert.Equal(t, 1, session.Difficulty)

	for _, r := range result.Results {
		assert.False(t, r.Correct)
		assert.Equal(t, "B", r.CorrectAnswer)
		assert.NotEmpty(t, r.Explanation, "feedback carries the explanation even for wrong answers")
	}
}

func TestSubmitRoundNormalizesAnswers(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	result, err := service.SubmitRound(session, submitAll(round, "  b "))
	require.NoError(t, err)
	assert.Equal(t, 5, result.Correct)
}

func TestSubmitRoundWithoutOpenRound(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	_, err := service.SubmitRound(session, models.SubmitRequest{
		Answers: []models.SubmittedAnswer{{QuestionID: 1, Answer: "B"}},
	})
	assert.ErrorIs(t, err, ErrNoOpenRound)
}

func TestSubmitRoundSkipsAnswersOutsideRound(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 8)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	req := submitAll(round, "B")
	req.Answers = append(req.Answers, models.SubmittedAnswer{QuestionID: 99999, Answer: "B"})
	req.Answers = append(req.Answers, models.SubmittedAnswer{Answer: "B"}) // missing ID

	result, err := service.SubmitRound(session, req)
	require.NoError(t, err)
	assert.Equal(t, RoundSize, result.Total)
}

func TestSubmitRoundNoValidAnswers(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	_, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	_, err = service.SubmitRound(session, models.SubmitRequest{
		Answers: []models.SubmittedAnswer{{QuestionID: 99999, Answer: "B"}},
	})
	assert.ErrorIs(t, err, ErrNoValidAnswers)
}

func TestSubmitRoundGradesDuplicateAnswersOnce(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	// First question answered correctly, twice; the rest wrong.
	// The duplicate must not be graded or logged a second time.
	req := models.SubmitRequest{
		Answers: []models.SubmittedAnswer{
			{QuestionID: round.Questions[0].ID, Answer: "B"},
			{QuestionID: round.Questions[0].ID, Answer: "B"},
		},
	}
	for _, q := range round.Questions[1:] {
		req.Answers = append(req.Answers, models.SubmittedAnswer{QuestionID: q.ID, Answer: "C"})
	}

	result, err := service.SubmitRound(session, req)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 1, result.Correct)
	assert.Len(t, result.Results, 5)
	assert.Equal(t, 1, result.Difficulty, "a repeated correct answer must not inflate accuracy")

	answered, correct, err := database.GetSessionAnswerStats(session.Token)
	require.NoError(t, err)
	assert.Equal(t, 5, answered, "duplicate answers must not be double-logged")
	assert.Equal(t, 1, correct)
}

func TestStatsConcurrentWithStartRound(t *testing.T) {
	database := newTestDB(t)
	for difficulty := MinDifficulty; difficulty <= MaxDifficulty; difficulty++ {
		seedQuestions(t, database, testSubcategory, difficulty, 20)
	}
	service, session := newTestService(t, database)

	// Two tabs on one session: one keeps starting rounds while the
	// other polls stats. Run under -race this catches unguarded reads
	// of the session state.
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if _, err := service.StartRound(session, testSubcategory); err != nil {
				assert.ErrorIs(t, err, ErrPoolExhausted)
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, err := service.Stats(session)
			assert.NoError(t, err)
		}
	}()

	wg.Wait()

	stats, err := service.Stats(session)
	require.NoError(t, err)
	assert.Equal(t, len(session.Seen), stats.SeenCount)
}

func TestStatsReflectAnswerLog(t *testing.T) {
	database := newTestDB(t)
	seedQuestions(t, database, testSubcategory, 2, 5)
	seedQuestions(t, database, testSubcategory, 3, 5)
	service, session := newTestService(t, database)

	round, err := service.StartRound(session, testSubcategory)
	require.NoError(t, err)

	_, err = service.SubmitRound(session, submitAll(round, "B"))
	require.NoError(t, err)

	stats, err := service.Stats(session)
	require.NoError(t, err)

	assert.Equal(t, testSubcategory, stats.Subcategory)
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 5, stats.Answered)
	assert.Equal(t, 5, stats.Correct)
	assert.Equal(t, 1.0, stats.Accuracy)
	assert.Equal(t, 3, stats.Difficulty)
	assert.Equal(t, 5, stats.SeenCount)
}
