package controller

import (
	"net/http"

	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DoubtController struct {
	DoubtService *service.DoubtService
}

func NewDoubtController(doubtService *service.DoubtService) *DoubtController {
	return &DoubtController{DoubtService: doubtService}
}

// Create godoc
// @Summary Raise a doubt
// @Description Optionally tied to a question
// @Tags doubts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateDoubtRequest true "doubt payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/students/doubts [post]
func (c *DoubtController) Create(ctx *gin.Context) {
	var req service.CreateDoubtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	doubt, err := c.DoubtService.Create(claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": doubt.ID})
}

// ListMine godoc
// @Summary List the caller's doubts
// @Tags doubts
// @Produce json
// @Security BearerAuth
// @Param status query string false "open or resolved"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/students/doubts [get]
func (c *DoubtController) ListMine(ctx *gin.Context) {
	page, limit := pagination(ctx)
	claims, _ := util.GetUserFromContext(ctx)

	doubts, total, err := c.DoubtService.ListForStudent(claims.UserID, ctx.Query("status"), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"doubts": doubts, "total": total, "page": page, "limit": limit})
}

// ListOpen godoc
// @Summary List open doubts awaiting a mentor
// @Tags doubts
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/mentors/doubts [get]
func (c *DoubtController) ListOpen(ctx *gin.Context) {
	page, limit := pagination(ctx)
	doubts, total, err := c.DoubtService.ListOpen(page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"doubts": doubts, "total": total, "page": page, "limit": limit})
}

// Resolve godoc
// @Summary Resolve a doubt
// @Tags doubts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "doubt id"
// @Param body body service.ResolveDoubtRequest true "mentor response"
// @Success 200 {object} util.Response{data=model.Doubt}
// @Failure 409 {object} util.Response "already resolved"
// @Router /api/mentors/doubts/{id}/resolve [patch]
func (c *DoubtController) Resolve(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid doubt id")
		return
	}
	var req service.ResolveDoubtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	doubt, err := c.DoubtService.Resolve(id, claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, doubt)
}
