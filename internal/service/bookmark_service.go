package service

import (
	"errors"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"

	"gorm.io/gorm"
)

type BookmarkView struct {
	ID       uint         `json:"id"`
	Question QuestionView `json:"question"`
}

type BookmarkService struct {
	bookmarkRepo *repository.BookmarkRepository
	questionRepo *repository.QuestionRepository
}

func NewBookmarkService(bookmarkRepo *repository.BookmarkRepository, questionRepo *repository.QuestionRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, questionRepo: questionRepo}
}

// Add bookmarks a question for the student. Bookmarking twice is a no-op
// returning the existing bookmark.
func (s *BookmarkService) Add(studentID, questionID uint) (*model.Bookmark, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.WrapDB(err, "question %d not found", questionID)
	}
	if !question.IsActive {
		return nil, util.NewInvalidState("question %d is no longer active", questionID)
	}

	if existing, err := s.bookmarkRepo.FindByStudentAndQuestion(studentID, questionID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewInternal("looking up bookmark", err)
	}

	bookmark := &model.Bookmark{StudentID: studentID, QuestionID: questionID}
	if err := s.bookmarkRepo.Create(bookmark); err != nil {
		return nil, util.NewInternal("creating bookmark", err)
	}
	return bookmark, nil
}

func (s *BookmarkService) Remove(studentID, questionID uint) error {
	bookmark, err := s.bookmarkRepo.FindByStudentAndQuestion(studentID, questionID)
	if err != nil {
		return util.WrapDB(err, "bookmark not found")
	}
	if err := s.bookmarkRepo.Delete(bookmark.ID); err != nil {
		return util.NewInternal("removing bookmark", err)
	}
	return nil
}

func (s *BookmarkService) List(studentID uint, filter repository.QuestionFilter, page, limit int) ([]BookmarkView, int64, error) {
	bookmarks, questions, total, err := s.bookmarkRepo.ListByStudent(studentID, filter, page, limit)
	if err != nil {
		return nil, 0, util.NewInternal("listing bookmarks", err)
	}

	views := make([]BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		q, ok := questions[b.QuestionID]
		if !ok {
			continue
		}
		views = append(views, BookmarkView{ID: b.ID, Question: questionView(&q)})
	}
	return views, total, nil
}
