package controller

import (
	"net/http"
	"strconv"

	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{PracticeService: practiceService}
}

// StartSession godoc
// @Summary Start a practice session
// @Description Opens a session in the requested mode; any previous active session is closed
// @Tags practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StartSessionRequest true "session parameters"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/students/sessions [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	session, err := c.PracticeService.StartSession(claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"session_id": session.ID, "mode": session.Mode, "started_at": session.StartedAt})
}

// NextQuestion godoc
// @Summary Get the next question for a session
// @Description Serves the in-flight question if a retry is pending, otherwise asks the selector. Once the pool is exhausted the response carries sessionComplete=true with the stats instead of a question
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param session_id query int true "session id"
// @Success 200 {object} util.Response{data=service.NextQuestionResponse}
// @Failure 404 {object} util.Response "session not found"
// @Failure 409 {object} util.Response "session has ended"
// @Router /api/students/next-question [get]
func (c *PracticeController) NextQuestion(ctx *gin.Context) {
	sessionID, err := strconv.ParseUint(ctx.Query("session_id"), 10, 32)
	if err != nil || sessionID == 0 {
		util.Error(ctx, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	resp, svcErr := c.PracticeService.NextQuestion(claims.UserID, uint(sessionID))
	if svcErr != nil {
		util.FromError(ctx, svcErr)
		return
	}
	util.Success(ctx, resp)
}

// SubmitAttempt godoc
// @Summary Submit an answer
// @Description Records one attempt; an idempotency key makes retried submissions safe
// @Tags practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitAttemptRequest true "attempt payload"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "ended session or key conflict"
// @Router /api/students/attempts [post]
func (c *PracticeController) SubmitAttempt(ctx *gin.Context) {
	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	result, err := c.PracticeService.SubmitAttempt(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// EndSession godoc
// @Summary End a practice session
// @Description Idempotent: ending an already ended session returns the same summary
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param id path int true "session id"
// @Success 200 {object} util.Response{data=service.SessionSummary}
// @Failure 404 {object} util.Response
// @Router /api/students/sessions/{id}/end [patch]
func (c *PracticeController) EndSession(ctx *gin.Context) {
	sessionID, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid session id")
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	summary, err := c.PracticeService.EndSession(claims.UserID, sessionID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// Summary godoc
// @Summary Get a session summary
// @Description Stats are recomputed from the attempt log
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param id path int true "session id"
// @Success 200 {object} util.Response{data=service.SessionSummary}
// @Failure 404 {object} util.Response
// @Router /api/students/sessions/{id}/summary [get]
func (c *PracticeController) Summary(ctx *gin.Context) {
	sessionID, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid session id")
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	summary, err := c.PracticeService.Summary(claims.UserID, sessionID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ListSessions godoc
// @Summary List the caller's practice sessions
// @Tags practice
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/students/sessions [get]
func (c *PracticeController) ListSessions(ctx *gin.Context) {
	page, limit := pagination(ctx)
	claims, _ := util.GetUserFromContext(ctx)

	sessions, total, err := c.PracticeService.ListSessions(claims.UserID, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sessions": sessions, "total": total, "page": page, "limit": limit})
}
