package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.PracticeSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.PracticeSession, error) {
	var s model.PracticeSession
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByIDForUpdate loads the session row under a FOR UPDATE lock. Must be
// called inside a transaction; it is what serializes racing submissions for
// the same session.
func (r *SessionRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.PracticeSession, error) {
	var s model.PracticeSession
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) FindActiveByStudent(studentID uint) (*model.PracticeSession, error) {
	var s model.PracticeSession
	if err := r.DB.Where("student_id = ? AND is_active = ?", studentID, true).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Update(session *model.PracticeSession) error {
	return r.DB.Save(session).Error
}

func (r *SessionRepository) ListByStudent(studentID uint, page, limit int) ([]model.PracticeSession, int64, error) {
	var sessions []model.PracticeSession
	var total int64

	query := r.DB.Model(&model.PracticeSession{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}
