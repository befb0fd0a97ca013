package service

import (
	"strings"
	"time"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
)

type CreateDoubtRequest struct {
	QuestionID *uint  `json:"question_id"`
	Message    string `json:"message" binding:"required"`
}

type ResolveDoubtRequest struct {
	Response string `json:"response" binding:"required"`
}

type DoubtService struct {
	doubtRepo    *repository.DoubtRepository
	questionRepo *repository.QuestionRepository
}

func NewDoubtService(doubtRepo *repository.DoubtRepository, questionRepo *repository.QuestionRepository) *DoubtService {
	return &DoubtService{doubtRepo: doubtRepo, questionRepo: questionRepo}
}

func (s *DoubtService) Create(studentID uint, req CreateDoubtRequest) (*model.Doubt, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, util.NewInvalidInput("message must not be empty")
	}
	if req.QuestionID != nil {
		if _, err := s.questionRepo.FindByID(*req.QuestionID); err != nil {
			return nil, util.WrapDB(err, "question %d not found", *req.QuestionID)
		}
	}

	doubt := &model.Doubt{
		StudentID:  studentID,
		QuestionID: req.QuestionID,
		Message:    strings.TrimSpace(req.Message),
		Status:     model.DoubtOpen,
	}
	if err := s.doubtRepo.Create(doubt); err != nil {
		return nil, util.NewInternal("creating doubt", err)
	}
	return doubt, nil
}

// Resolve records a mentor's answer. Resolving an already resolved doubt is
// rejected so two mentors do not silently overwrite each other.
func (s *DoubtService) Resolve(doubtID, resolverID uint, req ResolveDoubtRequest) (*model.Doubt, error) {
	doubt, err := s.doubtRepo.FindByID(doubtID)
	if err != nil {
		return nil, util.WrapDB(err, "doubt %d not found", doubtID)
	}
	if doubt.Status == model.DoubtResolved {
		return nil, util.NewInvalidState("doubt %d is already resolved", doubtID)
	}

	doubt.MarkResolved(strings.TrimSpace(req.Response), resolverID, time.Now())
	if err := s.doubtRepo.Update(doubt); err != nil {
		return nil, util.NewInternal("resolving doubt", err)
	}
	return doubt, nil
}

func (s *DoubtService) ListForStudent(studentID uint, status string, page, limit int) ([]model.Doubt, int64, error) {
	if status != "" && status != string(model.DoubtOpen) && status != string(model.DoubtResolved) {
		return nil, 0, util.NewInvalidInput("unknown doubt status: %s", status)
	}
	doubts, total, err := s.doubtRepo.ListByStudent(studentID, status, page, limit)
	if err != nil {
		return nil, 0, util.NewInternal("listing doubts", err)
	}
	return doubts, total, nil
}

func (s *DoubtService) ListOpen(page, limit int) ([]model.Doubt, int64, error) {
	doubts, total, err := s.doubtRepo.ListOpen(page, limit)
	if err != nil {
		return nil, 0, util.NewInternal("listing doubts", err)
	}
	return doubts, total, nil
}
