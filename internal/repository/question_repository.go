package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionFilter narrows the candidate pool for the selector and for listing
// endpoints. Empty slices mean "no constraint".
type QuestionFilter struct {
	Subjects     []string
	Chapters     []string
	Topics       []string
	Difficulties []int
	IncludeIDs   []uint
	ExcludeIDs   []uint
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Create(&questions).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Question{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *QuestionRepository) applyFilter(query *gorm.DB, filter QuestionFilter) *gorm.DB {
	if len(filter.Subjects) > 0 {
		query = query.Where("subject IN ?", filter.Subjects)
	}
	if len(filter.Chapters) > 0 {
		query = query.Where("chapter IN ?", filter.Chapters)
	}
	if len(filter.Topics) > 0 {
		query = query.Where("topic IN ?", filter.Topics)
	}
	if len(filter.Difficulties) > 0 {
		query = query.Where("difficulty IN ?", filter.Difficulties)
	}
	if len(filter.IncludeIDs) > 0 {
		query = query.Where("id IN ?", filter.IncludeIDs)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	return query
}

// ListActive returns the filtered active pool in a stable order (difficulty
// asc, id asc) so repeated selector calls are reproducible.
func (r *QuestionRepository) ListActive(filter QuestionFilter) ([]model.Question, error) {
	var questions []model.Question
	query := r.applyFilter(r.DB.Where("is_active = ?", true), filter)
	err := query.Order("difficulty ASC, id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) List(filter QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	query := r.applyFilter(r.DB.Model(&model.Question{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) DistinctTopics(subjects []string) ([]string, error) {
	var topics []string
	query := r.DB.Model(&model.Question{}).Where("is_active = ?", true)
	if len(subjects) > 0 {
		query = query.Where("subject IN ?", subjects)
	}
	err := query.Distinct("topic").Order("topic").Pluck("topic", &topics).Error
	return topics, err
}
