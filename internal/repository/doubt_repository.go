package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type DoubtRepository struct {
	DB *gorm.DB
}

func NewDoubtRepository(db *gorm.DB) *DoubtRepository {
	return &DoubtRepository{DB: db}
}

func (r *DoubtRepository) Create(doubt *model.Doubt) error {
	return r.DB.Create(doubt).Error
}

func (r *DoubtRepository) FindByID(id uint) (*model.Doubt, error) {
	var d model.Doubt
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoubtRepository) Update(doubt *model.Doubt) error {
	return r.DB.Save(doubt).Error
}

func (r *DoubtRepository) ListByStudent(studentID uint, status string, page, limit int) ([]model.Doubt, int64, error) {
	query := r.DB.Model(&model.Doubt{}).Where("student_id = ?", studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var doubts []model.Doubt
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&doubts).Error
	return doubts, total, err
}

func (r *DoubtRepository) ListOpen(page, limit int) ([]model.Doubt, int64, error) {
	query := r.DB.Model(&model.Doubt{}).Where("status = ?", model.DoubtOpen)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var doubts []model.Doubt
	err := query.Order("created_at").Offset((page - 1) * limit).Limit(limit).Find(&doubts).Error
	return doubts, total, err
}
