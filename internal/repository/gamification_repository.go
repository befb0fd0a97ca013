package repository

import (
	"time"

	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type GamificationRepository struct {
	DB *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{DB: db}
}

func (r *GamificationRepository) FindOrCreateStreak(tx *gorm.DB, studentID uint) (*model.Streak, error) {
	if tx == nil {
		tx = r.DB
	}
	var streak model.Streak
	err := tx.Where("student_id = ?", studentID).First(&streak).Error
	if err == gorm.ErrRecordNotFound {
		streak = model.Streak{StudentID: studentID}
		if err := tx.Create(&streak).Error; err != nil {
			return nil, err
		}
		return &streak, nil
	}
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *GamificationRepository) SaveStreak(tx *gorm.DB, streak *model.Streak) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Save(streak).Error
}

func (r *GamificationRepository) FindOrCreatePoints(tx *gorm.DB, studentID uint) (*model.Points, error) {
	if tx == nil {
		tx = r.DB
	}
	var points model.Points
	err := tx.Where("student_id = ?", studentID).First(&points).Error
	if err == gorm.ErrRecordNotFound {
		points = model.Points{StudentID: studentID}
		if err := tx.Create(&points).Error; err != nil {
			return nil, err
		}
		return &points, nil
	}
	if err != nil {
		return nil, err
	}
	return &points, nil
}

func (r *GamificationRepository) SavePoints(tx *gorm.DB, points *model.Points) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Save(points).Error
}

// AwardBadge creates the badge unless the student already holds it.
func (r *GamificationRepository) AwardBadge(tx *gorm.DB, studentID uint, code, name, description string) error {
	if tx == nil {
		tx = r.DB
	}
	var existing model.Badge
	err := tx.Where("student_id = ? AND code = ?", studentID, code).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	badge := model.Badge{
		StudentID:   studentID,
		Code:        code,
		Name:        name,
		Description: description,
		AwardedAt:   time.Now(),
	}
	return tx.Create(&badge).Error
}

func (r *GamificationRepository) ListBadges(studentID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("student_id = ?", studentID).Order("awarded_at").Find(&badges).Error
	return badges, err
}

func (r *GamificationRepository) FindStreak(studentID uint) (*model.Streak, error) {
	var streak model.Streak
	if err := r.DB.Where("student_id = ?", studentID).First(&streak).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *GamificationRepository) FindPoints(studentID uint) (*model.Points, error) {
	var points model.Points
	if err := r.DB.Where("student_id = ?", studentID).First(&points).Error; err != nil {
		return nil, err
	}
	return &points, nil
}
