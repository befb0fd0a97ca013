package service

import (
	"errors"
	"testing"
	"time"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEvaluateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		chosen  string
		correct string
		want    bool
	}{
		{"exact match", "B", "B", true},
		{"case is ignored", "b", "B", true},
		{"surrounding whitespace is ignored", "  B ", "B", true},
		{"free text match", "glucose", "Glucose", true},
		{"wrong answer", "A", "B", false},
		{"empty chosen", "", "B", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateAnswer(tt.chosen, tt.correct))
		})
	}
}

func TestDecideRetry(t *testing.T) {
	tests := []struct {
		name         string
		attemptNo    int
		maxAttempts  int
		correct      bool
		terminal     bool
		retryAllowed bool
	}{
		{"correct on first try ends the question", 1, 2, true, true, false},
		{"wrong on first try allows a retry", 1, 2, false, false, true},
		{"wrong on last try ends the question", 2, 2, false, true, false},
		{"correct on retry ends the question", 2, 2, true, true, false},
		{"single-attempt policy never retries", 1, 1, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terminal, retryAllowed := DecideRetry(tt.attemptNo, tt.maxAttempts, tt.correct)
			assert.Equal(t, tt.terminal, terminal)
			assert.Equal(t, tt.retryAllowed, retryAllowed)
		})
	}
}

func TestAttemptPoints(t *testing.T) {
	policy := testPolicy()

	assert.Equal(t, 7, AttemptPoints(policy, true, 1), "first-try solve")
	assert.Equal(t, 5, AttemptPoints(policy, true, 2), "retry solve")
	assert.Equal(t, 2, AttemptPoints(policy, false, 1), "wrong answer still earns the base")
	assert.Equal(t, 2, AttemptPoints(policy, false, 2))
}

func appErrorKind(t *testing.T, err error) util.ErrorKind {
	t.Helper()
	var appErr *util.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Kind
}

func TestEnsureOwnedActive(t *testing.T) {
	session := &model.PracticeSession{
		BaseModel: model.BaseModel{ID: 7},
		StudentID: 3,
		IsActive:  true,
	}

	t.Run("owner with active session passes", func(t *testing.T) {
		assert.NoError(t, ensureOwnedActive(session, 3))
	})

	t.Run("another student's session is reported missing", func(t *testing.T) {
		err := ensureOwnedActive(session, 99)
		assert.Equal(t, util.KindNotFound, appErrorKind(t, err))
	})

	t.Run("submitting to an ended session is invalid state", func(t *testing.T) {
		ended := *session
		ended.IsActive = false
		err := ensureOwnedActive(&ended, 3)
		assert.Equal(t, util.KindInvalidState, appErrorKind(t, err))
	})
}

func TestCloseSessionIdempotent(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	session := &model.PracticeSession{
		BaseModel: model.BaseModel{ID: 7},
		Mode:      model.ModeTopic,
		StartedAt: started,
		IsActive:  true,
	}
	attempts := []model.Attempt{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
		{QuestionID: 2, IsCorrect: false},
	}

	firstEnd := started.Add(10 * time.Minute)
	assert.True(t, closeSession(session, firstEnd))
	assert.False(t, session.IsActive)
	require.NotNil(t, session.EndedAt)
	first := SummarizeAttempts(session, attempts, 2, firstEnd.Add(time.Hour))

	// Ending again changes nothing and yields identical stats.
	assert.False(t, closeSession(session, firstEnd.Add(time.Hour)))
	assert.Equal(t, firstEnd, *session.EndedAt)
	second := SummarizeAttempts(session, attempts, 2, firstEnd.Add(2*time.Hour))
	assert.Equal(t, first, second)
}

func TestCompletedResponse(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	session := &model.PracticeSession{
		BaseModel: model.BaseModel{ID: 7},
		Mode:      model.ModeTopic,
		StartedAt: started,
		IsActive:  true,
	}
	attempts := []model.Attempt{
		{QuestionID: 1, IsCorrect: true},
		{QuestionID: 2, IsCorrect: false},
		{QuestionID: 2, IsCorrect: true},
	}

	resp := completedResponse(session, attempts, 2, started.Add(time.Minute))

	assert.True(t, resp.SessionComplete)
	assert.Nil(t, resp.Question, "an exhausted pool serves no question")
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 2, resp.Summary.TotalQuestions)
	assert.Equal(t, 2, resp.Summary.CorrectAnswers)
	assert.Equal(t, uint(7), resp.Summary.SessionID)
}

func TestWrapAttemptInsert(t *testing.T) {
	t.Run("idempotency key race surfaces as conflict", func(t *testing.T) {
		err := wrapAttemptInsert(gorm.ErrDuplicatedKey, "key-1")
		assert.Equal(t, util.KindConflict, appErrorKind(t, err))
	})

	t.Run("duplicate without a key stays internal", func(t *testing.T) {
		err := wrapAttemptInsert(gorm.ErrDuplicatedKey, "")
		assert.Equal(t, util.KindInternal, appErrorKind(t, err))
	})

	t.Run("other insert failures stay internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := wrapAttemptInsert(cause, "key-1")
		assert.Equal(t, util.KindInternal, appErrorKind(t, err))
		assert.ErrorIs(t, err, cause)
	})
}

func TestSummarizeAttempts(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	session := &model.PracticeSession{
		BaseModel: model.BaseModel{ID: 11},
		Mode:      model.ModeAdaptive,
		StartedAt: started,
	}
	attempt := func(questionID uint, correct bool) model.Attempt {
		return model.Attempt{QuestionID: questionID, IsCorrect: correct}
	}

	t.Run("retried and exhausted questions each count once", func(t *testing.T) {
		attempts := []model.Attempt{
			attempt(1, false), attempt(1, true), // solved on retry
			attempt(2, false), attempt(2, false), // exhausted
		}
		summary := SummarizeAttempts(session, attempts, 2, started.Add(10*time.Minute))

		assert.Equal(t, 2, summary.TotalQuestions)
		assert.Equal(t, 1, summary.CorrectAnswers)
		assert.InDelta(t, 0.5, summary.Accuracy, 1e-9)
		assert.Equal(t, 600, summary.ElapsedSeconds)
	})

	t.Run("a question with retries left is not counted yet", func(t *testing.T) {
		attempts := []model.Attempt{
			attempt(1, true),
			attempt(2, false), // one wrong attempt, one remaining
		}
		summary := SummarizeAttempts(session, attempts, 2, started.Add(time.Minute))

		assert.Equal(t, 1, summary.TotalQuestions)
		assert.Equal(t, 1, summary.CorrectAnswers)
		assert.InDelta(t, 1.0, summary.Accuracy, 1e-9)
	})

	t.Run("no attempts yields zero accuracy", func(t *testing.T) {
		summary := SummarizeAttempts(session, nil, 2, started)

		assert.Equal(t, 0, summary.TotalQuestions)
		assert.Equal(t, 0, summary.CorrectAnswers)
		assert.Zero(t, summary.Accuracy)
	})

	t.Run("ended sessions measure elapsed to the end time", func(t *testing.T) {
		ended := started.Add(5 * time.Minute)
		closed := *session
		closed.EndedAt = &ended

		summary := SummarizeAttempts(&closed, nil, 2, started.Add(2*time.Hour))

		assert.Equal(t, 300, summary.ElapsedSeconds)
		assert.Equal(t, &ended, summary.EndedAt)
	})

	t.Run("two-question mechanics walkthrough", func(t *testing.T) {
		// Two Mechanics questions at difficulties 2 and 3, target 2: the
		// selector serves the difficulty-2 question first. The student solves
		// it on the first try, then misses the second question twice.
		pool := []model.Question{
			{BaseModel: model.BaseModel{ID: 2}, Topic: "Mechanics", Difficulty: 3},
			{BaseModel: model.BaseModel{ID: 1}, Topic: "Mechanics", Difficulty: 2},
		}
		first := PickQuestion(pool, 2)
		assert.Equal(t, uint(1), first.ID)

		terminal, _ := DecideRetry(1, 2, true)
		assert.True(t, terminal)

		terminal, retry := DecideRetry(1, 2, false)
		assert.False(t, terminal)
		assert.True(t, retry)
		terminal, retry = DecideRetry(2, 2, false)
		assert.True(t, terminal)
		assert.False(t, retry)

		attempts := []model.Attempt{
			attempt(first.ID, true),
			attempt(2, false),
			attempt(2, false),
		}
		summary := SummarizeAttempts(session, attempts, 2, started.Add(time.Minute))
		assert.Equal(t, 2, summary.TotalQuestions)
		assert.Equal(t, 1, summary.CorrectAnswers)
		assert.InDelta(t, 0.5, summary.Accuracy, 1e-9)
	})

	t.Run("recompute ignores the session row counters", func(t *testing.T) {
		drifted := *session
		drifted.QuestionsAnswered = 99
		drifted.CorrectAnswers = 99

		attempts := []model.Attempt{attempt(1, true)}
		summary := SummarizeAttempts(&drifted, attempts, 2, started)

		assert.Equal(t, 1, summary.TotalQuestions)
		assert.Equal(t, 1, summary.CorrectAnswers)
	})
}
