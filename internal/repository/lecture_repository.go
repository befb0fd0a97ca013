package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) Create(lecture *model.Lecture) error {
	return r.DB.Create(lecture).Error
}

func (r *LectureRepository) FindByID(id uint) (*model.Lecture, error) {
	var l model.Lecture
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LectureRepository) Update(lecture *model.Lecture) error {
	return r.DB.Save(lecture).Error
}

func (r *LectureRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Lecture{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *LectureRepository) List(subject string, page, limit int) ([]model.Lecture, int64, error) {
	query := r.DB.Model(&model.Lecture{}).Where("is_active = ?", true)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lectures []model.Lecture
	err := query.Order("date DESC, id DESC").Offset((page - 1) * limit).Limit(limit).Find(&lectures).Error
	return lectures, total, err
}
