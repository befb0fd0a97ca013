package service

import (
	"strings"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
)

type QuestionRequest struct {
	Subject       string               `json:"subject" binding:"required"`
	Chapter       string               `json:"chapter" binding:"required"`
	Topic         string               `json:"topic" binding:"required"`
	Difficulty    int                  `json:"difficulty" binding:"required"`
	QuestionText  string               `json:"question_text" binding:"required"`
	Options       []model.ChoiceOption `json:"options"`
	CorrectAnswer string               `json:"correct_answer" binding:"required"`
	Hint          string               `json:"hint"`
	Solution      string               `json:"solution"`
	Source        string               `json:"source"`
}

type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	question, err := buildQuestion(req)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, util.NewInternal("creating question", err)
	}
	return question, nil
}

func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	existing, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, util.WrapDB(err, "question %d not found", id)
	}

	updated, err := buildQuestion(req)
	if err != nil {
		return nil, err
	}
	updated.BaseModel = existing.BaseModel
	updated.IsActive = existing.IsActive

	if err := s.questionRepo.Update(updated); err != nil {
		return nil, util.NewInternal("updating question", err)
	}
	return updated, nil
}

// Deactivate retires a question from the pool. Past attempts keep referencing
// it, so questions are never hard-deleted.
func (s *QuestionService) Deactivate(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		return util.WrapDB(err, "question %d not found", id)
	}
	if err := s.questionRepo.Deactivate(id); err != nil {
		return util.NewInternal("deactivating question", err)
	}
	return nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, util.WrapDB(err, "question %d not found", id)
	}
	return question, nil
}

func (s *QuestionService) List(filter repository.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	questions, total, err := s.questionRepo.List(filter, page, limit)
	if err != nil {
		return nil, 0, util.NewInternal("listing questions", err)
	}
	return questions, total, nil
}

func (s *QuestionService) Topics(subjects []string) ([]string, error) {
	topics, err := s.questionRepo.DistinctTopics(subjects)
	if err != nil {
		return nil, util.NewInternal("listing topics", err)
	}
	return topics, nil
}

func buildQuestion(req QuestionRequest) (*model.Question, error) {
	if !model.ValidSubject(req.Subject) {
		return nil, util.NewInvalidInput("unknown subject: %s", req.Subject)
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		return nil, util.NewInvalidInput("difficulty must be between 1 and 5")
	}
	if strings.TrimSpace(req.QuestionText) == "" {
		return nil, util.NewInvalidInput("question text must not be empty")
	}
	if strings.TrimSpace(req.CorrectAnswer) == "" {
		return nil, util.NewInvalidInput("correct answer must not be empty")
	}

	question := &model.Question{
		Subject:       model.Subject(req.Subject),
		Chapter:       strings.TrimSpace(req.Chapter),
		Topic:         strings.TrimSpace(req.Topic),
		Difficulty:    req.Difficulty,
		QuestionText:  strings.TrimSpace(req.QuestionText),
		CorrectAnswer: strings.TrimSpace(req.CorrectAnswer),
		Hint:          req.Hint,
		Solution:      req.Solution,
		Source:        req.Source,
		IsActive:      true,
	}
	if len(req.Options) > 0 {
		options := model.OptionList(req.Options)
		if err := question.SetOptions(options); err != nil {
			return nil, util.NewInvalidInput("invalid options: %v", err)
		}
		if !optionKeyExists(options, question.CorrectAnswer) {
			return nil, util.NewInvalidInput("correct answer %q is not one of the option keys", question.CorrectAnswer)
		}
	}
	return question, nil
}

func optionKeyExists(options model.OptionList, answer string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o.Key), answer) {
			return true
		}
	}
	return false
}
