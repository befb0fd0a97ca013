package repository

import (
	"tachyon_backend/internal/model"

	"gorm.io/gorm"
)

type BookmarkRepository struct {
	DB *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

func (r *BookmarkRepository) Create(bookmark *model.Bookmark) error {
	return r.DB.Create(bookmark).Error
}

func (r *BookmarkRepository) FindByID(id uint) (*model.Bookmark, error) {
	var b model.Bookmark
	if err := r.DB.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookmarkRepository) FindByStudentAndQuestion(studentID, questionID uint) (*model.Bookmark, error) {
	var b model.Bookmark
	if err := r.DB.Where("student_id = ? AND question_id = ?", studentID, questionID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookmarkRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Bookmark{}, id).Error
}

// ListByStudent returns bookmarks with their questions, filtered to active
// questions only, newest first.
func (r *BookmarkRepository) ListByStudent(studentID uint, filter QuestionFilter, page, limit int) ([]model.Bookmark, map[uint]model.Question, int64, error) {
	query := r.DB.Model(&model.Bookmark{}).
		Joins("JOIN questions ON questions.id = bookmarks.question_id").
		Where("bookmarks.student_id = ? AND questions.is_active = ?", studentID, true)
	if len(filter.Subjects) > 0 {
		query = query.Where("questions.subject IN ?", filter.Subjects)
	}
	if len(filter.Chapters) > 0 {
		query = query.Where("questions.chapter IN ?", filter.Chapters)
	}
	if len(filter.Topics) > 0 {
		query = query.Where("questions.topic IN ?", filter.Topics)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var bookmarks []model.Bookmark
	if err := query.Order("bookmarks.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bookmarks).Error; err != nil {
		return nil, nil, 0, err
	}

	questions := make(map[uint]model.Question, len(bookmarks))
	if len(bookmarks) > 0 {
		ids := make([]uint, 0, len(bookmarks))
		for _, b := range bookmarks {
			ids = append(ids, b.QuestionID)
		}
		var qs []model.Question
		if err := r.DB.Where("id IN ?", ids).Find(&qs).Error; err != nil {
			return nil, nil, 0, err
		}
		for _, q := range qs {
			questions[q.ID] = q
		}
	}
	return bookmarks, questions, total, nil
}
