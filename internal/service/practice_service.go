package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
	"tachyon_backend/pkg/logger"
	"tachyon_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StartSessionRequest struct {
	Mode       string   `json:"mode" binding:"required"`
	Subjects   []string `json:"subjects"`
	Chapters   []string `json:"chapters"`
	Topics     []string `json:"topics"`
	DeviceType string   `json:"device_type"`
}

type SubmitAttemptRequest struct {
	SessionID        uint   `json:"session_id" binding:"required"`
	QuestionID       uint   `json:"question_id" binding:"required"`
	ChosenAnswer     string `json:"chosen_answer"`
	TimeTakenSeconds int    `json:"time_taken"`
	IdempotencyKey   string `json:"idempotency_key"`
}

// QuestionView is a question as served to students: no answer, no solution.
type QuestionView struct {
	ID           uint             `json:"id"`
	Subject      model.Subject    `json:"subject"`
	Chapter      string           `json:"chapter"`
	Topic        string           `json:"topic"`
	Difficulty   int              `json:"difficulty"`
	QuestionText string           `json:"questionText"`
	Options      model.OptionList `json:"options,omitempty"`
	Hint         string           `json:"hint,omitempty"`
}

// NextQuestionResponse carries either the next question or, once the pool is
// exhausted, a completion marker with the session stats.
type NextQuestionResponse struct {
	Question        *QuestionView   `json:"question,omitempty"`
	AttemptsMade    int             `json:"attemptsMade,omitempty"`
	MaxAttempts     int             `json:"maxAttempts"`
	SessionComplete bool            `json:"sessionComplete"`
	Summary         *SessionSummary `json:"summary,omitempty"`
}

type AttemptResult struct {
	Correct       bool   `json:"correct"`
	RetryAllowed  bool   `json:"retryAllowed"`
	AttemptNo     int    `json:"attemptNo"`
	Hint          string `json:"hint,omitempty"`
	Solution      string `json:"solution,omitempty"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	PointsAwarded int    `json:"pointsAwarded"`
	Replayed      bool   `json:"replayed,omitempty"`
}

type SessionSummary struct {
	SessionID      uint               `json:"sessionId"`
	Mode           model.PracticeMode `json:"mode"`
	TotalQuestions int                `json:"totalQuestions"`
	CorrectAnswers int                `json:"correctAnswers"`
	Accuracy       float64            `json:"accuracy"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
	StartedAt      time.Time          `json:"startedAt"`
	EndedAt        *time.Time         `json:"endedAt,omitempty"`
}

// PracticeService drives the session lifecycle: start, serve, evaluate, end.
// All submission writes happen inside one transaction under a row lock on the
// session, which gives per-session ordering without any in-process state.
type PracticeService struct {
	db           *gorm.DB
	sessionRepo  *repository.SessionRepository
	attemptRepo  *repository.AttemptRepository
	questionRepo *repository.QuestionRepository
	adaptive     *AdaptiveService
	gamification *GamificationService
	policy       PolicyProvider
	cache        *redis.Client
}

func NewPracticeService(
	db *gorm.DB,
	sessionRepo *repository.SessionRepository,
	attemptRepo *repository.AttemptRepository,
	questionRepo *repository.QuestionRepository,
	adaptive *AdaptiveService,
	gamification *GamificationService,
	policy PolicyProvider,
	cache *redis.Client,
) *PracticeService {
	return &PracticeService{
		db:           db,
		sessionRepo:  sessionRepo,
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		adaptive:     adaptive,
		gamification: gamification,
		policy:       policy,
		cache:        cache,
	}
}

// StartSession validates the request and opens a new session. Any session the
// student still has open is ended first, so a student has at most one active
// session.
func (s *PracticeService) StartSession(studentID uint, req StartSessionRequest) (*model.PracticeSession, error) {
	if !model.ValidPracticeMode(req.Mode) {
		return nil, util.NewInvalidInput("unknown practice mode: %s", req.Mode)
	}
	for _, subject := range req.Subjects {
		if !model.ValidSubject(subject) {
			return nil, util.NewInvalidInput("unknown subject: %s", subject)
		}
	}
	mode := model.PracticeMode(req.Mode)
	switch mode {
	case model.ModeTopic:
		if len(req.Topics) == 0 {
			return nil, util.NewInvalidInput("topic mode requires at least one topic")
		}
	case model.ModeChapter:
		if len(req.Chapters) == 0 {
			return nil, util.NewInvalidInput("chapter mode requires at least one chapter")
		}
	case model.ModeSubject:
		if len(req.Subjects) == 0 {
			return nil, util.NewInvalidInput("subject mode requires at least one subject")
		}
	}

	device := model.DeviceType(req.DeviceType)
	if device != model.DeviceKiosk {
		device = model.DevicePersonal
	}

	now := time.Now()
	if previous, err := s.sessionRepo.FindActiveByStudent(studentID); err == nil {
		previous.IsActive = false
		previous.EndedAt = &now
		if err := s.sessionRepo.Update(previous); err != nil {
			return nil, util.NewInternal("closing previous session", err)
		}
		monitoring.ActiveSessions.Dec()
	}

	session := &model.PracticeSession{
		StudentID:  studentID,
		Mode:       mode,
		DeviceType: device,
		StartedAt:  now,
		IsActive:   true,
	}
	session.SetSubjects(req.Subjects)
	session.SetChapters(req.Chapters)
	session.SetTopics(req.Topics)

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, util.NewInternal("creating session", err)
	}
	monitoring.ActiveSessions.Inc()
	return session, nil
}

// NextQuestion serves the next question for the session. A question the
// student answered wrong but may still retry is re-served (with its hint)
// before the selector is consulted. An exhausted pool is not an error: the
// response flags the session complete and carries the stats.
func (s *PracticeService) NextQuestion(studentID, sessionID uint) (*NextQuestionResponse, error) {
	session, err := s.loadOwnedSession(studentID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnedActive(session, studentID); err != nil {
		return nil, err
	}

	policy := s.policy.Practice()

	if open, attemptsMade, err := s.findOpenQuestion(session, policy.MaxAttempts); err != nil {
		return nil, err
	} else if open != nil {
		view := questionView(open)
		view.Hint = open.Hint
		return &NextQuestionResponse{
			Question:     &view,
			AttemptsMade: attemptsMade,
			MaxAttempts:  policy.MaxAttempts,
		}, nil
	}

	question, err := s.adaptive.SelectNext(session)
	if errors.Is(err, ErrSessionComplete) {
		attempts, aerr := s.attemptRepo.ListBySession(session.ID)
		if aerr != nil {
			return nil, util.NewInternal("loading attempts", aerr)
		}
		return completedResponse(session, attempts, policy.MaxAttempts, time.Now()), nil
	}
	if err != nil {
		return nil, err
	}
	view := questionView(question)
	return &NextQuestionResponse{
		Question:    &view,
		MaxAttempts: policy.MaxAttempts,
	}, nil
}

// SubmitAttempt records one answer and returns the evaluation. Safe against
// at-least-once delivery: a replayed idempotency key returns the originally
// stored result without appending a second attempt.
func (s *PracticeService) SubmitAttempt(ctx context.Context, studentID uint, req SubmitAttemptRequest) (*AttemptResult, error) {
	if strings.TrimSpace(req.ChosenAnswer) == "" {
		return nil, util.NewInvalidInput("chosen answer must not be empty")
	}

	policy := s.policy.Practice()

	if req.IdempotencyKey != "" {
		if result, err := s.replayFromCache(ctx, req.IdempotencyKey); err == nil && result != nil {
			return result, nil
		}
		if stored, err := s.attemptRepo.FindByIdempotencyKey(req.IdempotencyKey); err == nil {
			return s.replayStored(stored, req, policy.MaxAttempts)
		}
	}

	var result *AttemptResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessionRepo.FindByIDForUpdate(tx, req.SessionID)
		if err != nil {
			return util.WrapDB(err, "session %d not found", req.SessionID)
		}
		if err := ensureOwnedActive(session, studentID); err != nil {
			return err
		}

		var question model.Question
		if err := tx.First(&question, req.QuestionID).Error; err != nil {
			return util.WrapDB(err, "question %d not found", req.QuestionID)
		}

		var prior int64
		if err := tx.Model(&model.Attempt{}).
			Where("session_id = ? AND question_id = ?", session.ID, question.ID).
			Count(&prior).Error; err != nil {
			return util.NewInternal("counting attempts", err)
		}
		if prior > 0 {
			var lastCorrect int64
			if err := tx.Model(&model.Attempt{}).
				Where("session_id = ? AND question_id = ? AND is_correct = ?", session.ID, question.ID, true).
				Count(&lastCorrect).Error; err != nil {
				return util.NewInternal("counting attempts", err)
			}
			if lastCorrect > 0 || int(prior) >= policy.MaxAttempts {
				return util.NewInvalidInput("question %d has no attempts left in this session", question.ID)
			}
		}

		attemptNo := int(prior) + 1
		correct := EvaluateAnswer(req.ChosenAnswer, question.CorrectAnswer)
		terminal, retryAllowed := DecideRetry(attemptNo, policy.MaxAttempts, correct)

		attempt := &model.Attempt{
			StudentID:        studentID,
			QuestionID:       question.ID,
			SessionID:        session.ID,
			ChosenAnswer:     strings.TrimSpace(req.ChosenAnswer),
			IsCorrect:        correct,
			AttemptNo:        attemptNo,
			TimeTakenSeconds: req.TimeTakenSeconds,
			IdempotencyKey:   req.IdempotencyKey,
		}
		if err := tx.Create(attempt).Error; err != nil {
			return wrapAttemptInsert(err, req.IdempotencyKey)
		}

		if terminal {
			session.QuestionsAnswered++
			if correct {
				session.CorrectAnswers++
			}
			if err := tx.Save(session).Error; err != nil {
				return util.NewInternal("updating session counters", err)
			}
		}

		points, err := s.gamification.ApplyAttempt(tx, attempt, &question, terminal, policy)
		if err != nil {
			return err
		}

		result = &AttemptResult{
			Correct:       correct,
			RetryAllowed:  retryAllowed,
			AttemptNo:     attemptNo,
			PointsAwarded: points,
		}
		if retryAllowed {
			result.Hint = question.Hint
		}
		if terminal {
			result.Solution = question.Solution
			result.CorrectAnswer = question.CorrectAnswer
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.ObserveAttempt(result.Correct)

	if req.IdempotencyKey != "" {
		s.storeInCache(ctx, req.IdempotencyKey, result)
	}
	return result, nil
}

// EndSession closes the session and returns its summary. Ending an already
// ended session is a no-op that returns the same summary.
func (s *PracticeService) EndSession(studentID, sessionID uint) (*SessionSummary, error) {
	var summary *SessionSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessionRepo.FindByIDForUpdate(tx, sessionID)
		if err != nil {
			return util.WrapDB(err, "session %d not found", sessionID)
		}
		if session.StudentID != studentID {
			return util.NewNotFound("session %d not found", sessionID)
		}

		if closeSession(session, time.Now()) {
			if err := tx.Save(session).Error; err != nil {
				return util.NewInternal("ending session", err)
			}
			monitoring.ActiveSessions.Dec()
		}

		var attempts []model.Attempt
		if err := tx.Where("session_id = ?", session.ID).Order("id").Find(&attempts).Error; err != nil {
			return util.NewInternal("loading attempts", err)
		}
		result := SummarizeAttempts(session, attempts, s.policy.Practice().MaxAttempts, time.Now())
		summary = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Summary recomputes the session stats from the attempt log. Works for both
// active and ended sessions.
func (s *PracticeService) Summary(studentID, sessionID uint) (*SessionSummary, error) {
	session, err := s.loadOwnedSession(studentID, sessionID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListBySession(session.ID)
	if err != nil {
		return nil, util.NewInternal("loading attempts", err)
	}
	summary := SummarizeAttempts(session, attempts, s.policy.Practice().MaxAttempts, time.Now())
	return &summary, nil
}

func (s *PracticeService) ListSessions(studentID uint, page, limit int) ([]model.PracticeSession, int64, error) {
	return s.sessionRepo.ListByStudent(studentID, page, limit)
}

func (s *PracticeService) loadOwnedSession(studentID, sessionID uint) (*model.PracticeSession, error) {
	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, util.WrapDB(err, "session %d not found", sessionID)
	}
	if session.StudentID != studentID {
		return nil, util.NewNotFound("session %d not found", sessionID)
	}
	return session, nil
}

// findOpenQuestion returns the session's in-flight question, if any: answered
// wrong at least once but with retries remaining.
func (s *PracticeService) findOpenQuestion(session *model.PracticeSession, maxAttempts int) (*model.Question, int, error) {
	attempts, err := s.attemptRepo.ListBySession(session.ID)
	if err != nil {
		return nil, 0, util.NewInternal("loading attempts", err)
	}

	counts := make(map[uint]int)
	solved := make(map[uint]bool)
	var lastQuestionID uint
	for _, a := range attempts {
		counts[a.QuestionID]++
		if a.IsCorrect {
			solved[a.QuestionID] = true
		}
		lastQuestionID = a.QuestionID
	}
	if lastQuestionID == 0 || solved[lastQuestionID] || counts[lastQuestionID] >= maxAttempts {
		return nil, 0, nil
	}

	question, err := s.questionRepo.FindByID(lastQuestionID)
	if err != nil {
		return nil, 0, util.WrapDB(err, "question %d not found", lastQuestionID)
	}
	return question, counts[lastQuestionID], nil
}

// replayStored rebuilds the result of a previously recorded attempt. A key
// reused with a different payload is a client bug and reported as a conflict.
func (s *PracticeService) replayStored(stored *model.Attempt, req SubmitAttemptRequest, maxAttempts int) (*AttemptResult, error) {
	if stored.SessionID != req.SessionID || stored.QuestionID != req.QuestionID ||
		!strings.EqualFold(strings.TrimSpace(req.ChosenAnswer), stored.ChosenAnswer) {
		return nil, util.NewConflict("idempotency key %s was already used with a different payload", req.IdempotencyKey)
	}

	question, err := s.questionRepo.FindByID(stored.QuestionID)
	if err != nil {
		return nil, util.WrapDB(err, "question %d not found", stored.QuestionID)
	}

	policy := s.policy.Practice()
	terminal, retryAllowed := DecideRetry(stored.AttemptNo, maxAttempts, stored.IsCorrect)
	result := &AttemptResult{
		Correct:       stored.IsCorrect,
		RetryAllowed:  retryAllowed,
		AttemptNo:     stored.AttemptNo,
		PointsAwarded: AttemptPoints(policy, stored.IsCorrect, stored.AttemptNo),
		Replayed:      true,
	}
	if retryAllowed {
		result.Hint = question.Hint
	}
	if terminal {
		result.Solution = question.Solution
		result.CorrectAnswer = question.CorrectAnswer
	}
	return result, nil
}

const idempotencyCacheTTL = 24 * time.Hour

func (s *PracticeService) replayFromCache(ctx context.Context, key string) (*AttemptResult, error) {
	if s.cache == nil {
		return nil, redis.Nil
	}
	raw, err := s.cache.Get(ctx, "attempt:idem:"+key).Result()
	if err != nil {
		return nil, err
	}
	var result AttemptResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	result.Replayed = true
	return &result, nil
}

func (s *PracticeService) storeInCache(ctx context.Context, key string, result *AttemptResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, "attempt:idem:"+key, raw, idempotencyCacheTTL).Err(); err != nil {
		logger.Log.Warn("idempotency cache write failed", zap.Error(err))
	}
}

func questionView(q *model.Question) QuestionView {
	return QuestionView{
		ID:           q.ID,
		Subject:      q.Subject,
		Chapter:      q.Chapter,
		Topic:        q.Topic,
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
		Options:      q.GetOptions(),
	}
}

// ensureOwnedActive guards the write paths: a session belonging to another
// student is reported as missing, an ended session as invalid state.
func ensureOwnedActive(session *model.PracticeSession, studentID uint) error {
	if session.StudentID != studentID {
		return util.NewNotFound("session %d not found", session.ID)
	}
	if !session.IsActive {
		return util.NewInvalidState("session %d has ended", session.ID)
	}
	return nil
}

// closeSession marks the session ended at now. Returns false when it had
// already ended, in which case nothing is modified.
func closeSession(session *model.PracticeSession, now time.Time) bool {
	if !session.IsActive {
		return false
	}
	session.IsActive = false
	session.EndedAt = &now
	return true
}

// completedResponse is served once no unanswered question matches the session
// filters anymore: no question, the completion flag, and the stats so far.
func completedResponse(session *model.PracticeSession, attempts []model.Attempt, maxAttempts int, now time.Time) *NextQuestionResponse {
	summary := SummarizeAttempts(session, attempts, maxAttempts, now)
	return &NextQuestionResponse{
		SessionComplete: true,
		MaxAttempts:     maxAttempts,
		Summary:         &summary,
	}
}

// wrapAttemptInsert classifies a failed attempt insert. Two in-flight submits
// sharing an idempotency key race on the unique index; the loser gets a
// conflict and can retry once to replay the stored result.
func wrapAttemptInsert(err error, idempotencyKey string) error {
	if idempotencyKey != "" && errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.NewConflict("attempt with idempotency key %s is already recorded, retry to fetch the result", idempotencyKey)
	}
	return util.NewInternal("recording attempt", err)
}

// EvaluateAnswer compares the chosen answer against the stored one,
// ignoring case and surrounding whitespace.
func EvaluateAnswer(chosen, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(chosen), strings.TrimSpace(correct))
}

// DecideRetry applies the retry policy: a wrong answer before the attempt cap
// allows one more try; a correct answer or the cap ends the question.
func DecideRetry(attemptNo, maxAttempts int, correct bool) (terminal, retryAllowed bool) {
	terminal = correct || attemptNo >= maxAttempts
	return terminal, !terminal
}

// AttemptPoints computes the points a single attempt earns under the policy:
// a flat per-attempt amount, plus a bonus for solving (larger on the first
// try).
func AttemptPoints(policy config.PracticeConfig, correct bool, attemptNo int) int {
	points := policy.PointsPerAttempt
	if correct {
		if attemptNo == 1 {
			points += policy.PointsFirstCorrect
		} else {
			points += policy.PointsRetryCorrect
		}
	}
	return points
}

// SummarizeAttempts recomputes session stats from the attempt log. A question
// counts as answered once it is solved or its attempts are exhausted; the
// running counters on the session row are ignored.
func SummarizeAttempts(session *model.PracticeSession, attempts []model.Attempt, maxAttempts int, now time.Time) SessionSummary {
	counts := make(map[uint]int)
	solved := make(map[uint]bool)
	for _, a := range attempts {
		counts[a.QuestionID]++
		if a.IsCorrect {
			solved[a.QuestionID] = true
		}
	}

	answered, correct := 0, 0
	for questionID, count := range counts {
		if solved[questionID] {
			answered++
			correct++
		} else if count >= maxAttempts {
			answered++
		}
	}

	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(correct) / float64(answered)
	}

	end := now
	if session.EndedAt != nil {
		end = *session.EndedAt
	}

	return SessionSummary{
		SessionID:      session.ID,
		Mode:           session.Mode,
		TotalQuestions: answered,
		CorrectAnswers: correct,
		Accuracy:       accuracy,
		ElapsedSeconds: int(end.Sub(session.StartedAt).Seconds()),
		StartedAt:      session.StartedAt,
		EndedAt:        session.EndedAt,
	}
}
