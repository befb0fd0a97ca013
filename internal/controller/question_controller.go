package controller

import (
	"net/http"
	"strconv"

	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	ImporterService *service.ImporterService
}

func NewQuestionController(questionService *service.QuestionService, importerService *service.ImporterService) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		ImporterService: importerService,
	}
}

// Create godoc
// @Summary Create a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "question payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/operator/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	question, err := c.QuestionService.Create(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": question.ID})
}

// Update godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Param body body service.QuestionRequest true "question payload"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/operator/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid question id")
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	question, err := c.QuestionService.Update(id, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Deactivate godoc
// @Summary Retire a question from the pool
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/operator/questions/{id} [delete]
func (c *QuestionController) Deactivate(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid question id")
		return
	}
	if err := c.QuestionService.Deactivate(id); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deactivated": true})
}

// Get godoc
// @Summary Get a question with its answer and solution
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/operator/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid question id")
		return
	}
	question, err := c.QuestionService.Get(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"question":       question,
		"options":        question.GetOptions(),
		"correct_answer": question.CorrectAnswer,
		"hint":           question.Hint,
		"solution":       question.Solution,
	})
}

// List godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param subject query string false "subject filter"
// @Param chapter query string false "chapter filter"
// @Param topic query string false "topic filter"
// @Param difficulty query int false "difficulty filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/operator/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	filter := repository.QuestionFilter{
		Subjects: splitQuery(ctx, "subject"),
		Chapters: splitQuery(ctx, "chapter"),
		Topics:   splitQuery(ctx, "topic"),
	}
	if d, err := strconv.Atoi(ctx.Query("difficulty")); err == nil && d >= 1 && d <= 5 {
		filter.Difficulties = []int{d}
	}

	page, limit := pagination(ctx)
	questions, total, err := c.QuestionService.List(filter, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"questions": questions, "total": total, "page": page, "limit": limit})
}

// Topics godoc
// @Summary List distinct topics
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param subject query string false "subject filter"
// @Success 200 {object} util.Response
// @Router /api/students/topics [get]
func (c *QuestionController) Topics(ctx *gin.Context) {
	topics, err := c.QuestionService.Topics(splitQuery(ctx, "subject"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"topics": topics})
}

// Import godoc
// @Summary Import questions from CSV
// @Description Validates row by row; pass preview=true to validate without inserting
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param preview query bool false "validate only"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 400 {object} util.Response
// @Router /api/operator/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.Error(ctx, http.StatusBadRequest, "file form field is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.Error(ctx, http.StatusBadRequest, "cannot open uploaded file")
		return
	}
	defer src.Close()

	preview := ctx.Query("preview") == "true"
	report, svcErr := c.ImporterService.Import(src, preview)
	if svcErr != nil {
		util.FromError(ctx, svcErr)
		return
	}
	util.Success(ctx, report)
}
