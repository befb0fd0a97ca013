package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tachyon_backend/internal/model"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/util"
	"tachyon_backend/pkg/logger"

	"go.uber.org/zap"
)

// importColumns is the required CSV header, in order. option_* and the
// trailing metadata columns may be left empty per row but must be present.
var importColumns = []string{
	"subject", "chapter", "topic", "difficulty", "question_text",
	"option_a", "option_b", "option_c", "option_d",
	"correct_answer", "hint", "solution", "source",
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportReport struct {
	TotalRows int        `json:"totalRows"`
	Imported  int        `json:"imported"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors,omitempty"`
	Preview   bool       `json:"preview"`
}

// ImporterService loads question banks from operator-uploaded CSV files.
// Invalid rows are skipped and reported, valid rows are inserted in one
// batch; a preview run does everything except the insert.
type ImporterService struct {
	questionRepo *repository.QuestionRepository
}

func NewImporterService(questionRepo *repository.QuestionRepository) *ImporterService {
	return &ImporterService{questionRepo: questionRepo}
}

func (s *ImporterService) Import(r io.Reader, preview bool) (*ImportReport, error) {
	questions, report, err := ParseQuestionCSV(r)
	if err != nil {
		return nil, err
	}
	report.Preview = preview

	if !preview && len(questions) > 0 {
		if err := s.questionRepo.CreateBatch(questions); err != nil {
			return nil, util.NewInternal("inserting questions", err)
		}
		logger.Log.Info("question import finished",
			zap.Int("imported", report.Imported),
			zap.Int("skipped", report.Skipped),
		)
	}
	return report, nil
}

// ParseQuestionCSV validates the file row by row. The returned questions are
// the valid rows in file order; the report lists every rejected row with its
// 1-based row number (header is row 1).
func ParseQuestionCSV(r io.Reader) ([]model.Question, *ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, util.NewInvalidInput("reading CSV header: %v", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, nil, err
	}

	report := &ImportReport{}
	var questions []model.Question
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			report.TotalRows++
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}

		report.TotalRows++
		question, rowErr := parseRow(record)
		if rowErr != "" {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: row, Message: rowErr})
			continue
		}
		questions = append(questions, *question)
		report.Imported++
	}
	return questions, report, nil
}

func validateHeader(header []string) error {
	if len(header) != len(importColumns) {
		return util.NewInvalidInput("expected %d columns, got %d", len(importColumns), len(header))
	}
	for i, want := range importColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return util.NewInvalidInput("column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseRow(record []string) (*model.Question, string) {
	if len(record) != len(importColumns) {
		return nil, fmt.Sprintf("expected %d fields, got %d", len(importColumns), len(record))
	}

	get := func(i int) string { return strings.TrimSpace(record[i]) }

	subject := get(0)
	if !model.ValidSubject(subject) {
		return nil, fmt.Sprintf("unknown subject %q", subject)
	}
	chapter, topic := get(1), get(2)
	if chapter == "" || topic == "" {
		return nil, "chapter and topic must not be empty"
	}
	difficulty, err := strconv.Atoi(get(3))
	if err != nil || difficulty < 1 || difficulty > 5 {
		return nil, fmt.Sprintf("difficulty %q must be an integer between 1 and 5", get(3))
	}
	questionText := get(4)
	if questionText == "" {
		return nil, "question_text must not be empty"
	}
	correctAnswer := get(9)
	if correctAnswer == "" {
		return nil, "correct_answer must not be empty"
	}

	question := &model.Question{
		Subject:       model.Subject(subject),
		Chapter:       chapter,
		Topic:         topic,
		Difficulty:    difficulty,
		QuestionText:  questionText,
		CorrectAnswer: correctAnswer,
		Hint:          get(10),
		Solution:      get(11),
		Source:        get(12),
		IsActive:      true,
	}

	var options model.OptionList
	for i, key := range []string{"A", "B", "C", "D"} {
		if text := get(5 + i); text != "" {
			options = append(options, model.ChoiceOption{Key: key, Text: text})
		}
	}
	if len(options) > 0 {
		if err := question.SetOptions(options); err != nil {
			return nil, err.Error()
		}
		if !optionKeyExists(options, correctAnswer) {
			return nil, fmt.Sprintf("correct_answer %q is not one of the option keys", correctAnswer)
		}
	}
	return question, ""
}
