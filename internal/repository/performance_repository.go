package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

func (r *PerformanceRepository) FindByStudentAndSubject(tx *gorm.DB, studentID uint, subject model.Subject) (*model.PerformanceSummary, error) {
	if tx == nil {
		tx = r.DB
	}
	var s model.PerformanceSummary
	if err := tx.Where("student_id = ? AND subject = ?", studentID, subject).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PerformanceRepository) Save(tx *gorm.DB, summary *model.PerformanceSummary) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Save(summary).Error
}

func (r *PerformanceRepository) ListByStudent(studentID uint) ([]model.PerformanceSummary, error) {
	var summaries []model.PerformanceSummary
	err := r.DB.Where("student_id = ?", studentID).Order("subject").Find(&summaries).Error
	return summaries, err
}
