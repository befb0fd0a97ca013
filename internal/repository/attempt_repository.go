package repository

import (
	"time"

	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

// TopicStat aggregates a student's attempt history for one topic; the
// adaptive selector ranks topics by it.
type TopicStat struct {
	Topic   string
	Subject string
	Total   int64
	Correct int64
}

// QuestionStat aggregates per-question accuracy, used by revision mode.
type QuestionStat struct {
	QuestionID uint
	Total      int64
	Correct    int64
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByIdempotencyKey(key string) (*model.Attempt, error) {
	var a model.Attempt
	if err := r.DB.Where("idempotency_key = ?", key).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) ListBySession(sessionID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("session_id = ?", sessionID).Order("id").Find(&attempts).Error
	return attempts, err
}

// QuestionIDsBySession returns the distinct questions already served in a
// session; the selector treats them as seen.
func (r *AttemptRepository) QuestionIDsBySession(sessionID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Attempt{}).
		Where("session_id = ?", sessionID).
		Distinct("question_id").
		Pluck("question_id", &ids).Error
	return ids, err
}

// RecentQuestionIDs returns the ids of the student's most recently attempted
// questions across all sessions, newest first.
func (r *AttemptRepository) RecentQuestionIDs(studentID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Attempt{}).
		Where("student_id = ?", studentID).
		Order("id DESC").
		Limit(limit).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (r *AttemptRepository) CountByStudent(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}

// ListRecentCorrect returns the student's latest correct attempts, newest
// first. Pass the surrounding transaction when called from a write path.
func (r *AttemptRepository) ListRecentCorrect(tx *gorm.DB, studentID uint, limit int) ([]model.Attempt, error) {
	if tx == nil {
		tx = r.DB
	}
	var attempts []model.Attempt
	err := tx.Where("student_id = ? AND is_correct = ?", studentID, true).
		Order("id DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// ListRecentWithQuestions returns the student's latest attempts restricted to
// the given question filter, joined against the question table.
func (r *AttemptRepository) ListRecentWithQuestions(studentID uint, filter QuestionFilter, limit int) ([]model.Attempt, map[uint]model.Question, error) {
	query := r.DB.Model(&model.Attempt{}).
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Where("attempts.student_id = ?", studentID)
	if len(filter.Subjects) > 0 {
		query = query.Where("questions.subject IN ?", filter.Subjects)
	}
	if len(filter.Topics) > 0 {
		query = query.Where("questions.topic IN ?", filter.Topics)
	}

	var attempts []model.Attempt
	if err := query.Order("attempts.id DESC").Limit(limit).Find(&attempts).Error; err != nil {
		return nil, nil, err
	}

	questions := make(map[uint]model.Question, len(attempts))
	if len(attempts) > 0 {
		ids := make([]uint, 0, len(attempts))
		for _, a := range attempts {
			ids = append(ids, a.QuestionID)
		}
		var qs []model.Question
		if err := r.DB.Where("id IN ?", ids).Find(&qs).Error; err != nil {
			return nil, nil, err
		}
		for _, q := range qs {
			questions[q.ID] = q
		}
	}
	return attempts, questions, nil
}

// TopicStats aggregates per-topic accuracy over attempts since the cutoff.
func (r *AttemptRepository) TopicStats(studentID uint, since time.Time, subjects []string) ([]TopicStat, error) {
	query := r.DB.Model(&model.Attempt{}).
		Select("questions.topic AS topic, questions.subject AS subject, COUNT(attempts.id) AS total, SUM(attempts.is_correct) AS correct").
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Where("attempts.student_id = ? AND attempts.created_at >= ?", studentID, since)
	if len(subjects) > 0 {
		query = query.Where("questions.subject IN ?", subjects)
	}

	var stats []TopicStat
	err := query.Group("questions.topic, questions.subject").Order("questions.topic").Scan(&stats).Error
	return stats, err
}

// QuestionStats aggregates per-question accuracy for the student within the
// optional filter, counting only questions attempted at least minAttempts
// times.
func (r *AttemptRepository) QuestionStats(studentID uint, filter QuestionFilter, minAttempts int) ([]QuestionStat, error) {
	query := r.DB.Model(&model.Attempt{}).
		Select("attempts.question_id AS question_id, COUNT(attempts.id) AS total, SUM(attempts.is_correct) AS correct").
		Joins("JOIN questions ON questions.id = attempts.question_id").
		Where("attempts.student_id = ?", studentID)
	if len(filter.Subjects) > 0 {
		query = query.Where("questions.subject IN ?", filter.Subjects)
	}
	if len(filter.Chapters) > 0 {
		query = query.Where("questions.chapter IN ?", filter.Chapters)
	}
	if len(filter.Topics) > 0 {
		query = query.Where("questions.topic IN ?", filter.Topics)
	}

	var stats []QuestionStat
	err := query.Group("attempts.question_id").
		Having("COUNT(attempts.id) >= ?", minAttempts).
		Scan(&stats).Error
	return stats, err
}
