package controller

import (
	"net/http"

	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BookmarkController struct {
	BookmarkService *service.BookmarkService
}

func NewBookmarkController(bookmarkService *service.BookmarkService) *BookmarkController {
	return &BookmarkController{BookmarkService: bookmarkService}
}

type addBookmarkRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
}

// Add godoc
// @Summary Bookmark a question
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body addBookmarkRequest true "question to bookmark"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/students/bookmarks [post]
func (c *BookmarkController) Add(ctx *gin.Context) {
	var req addBookmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	bookmark, err := c.BookmarkService.Add(claims.UserID, req.QuestionID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": bookmark.ID})
}

// Remove godoc
// @Summary Remove a bookmark
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/students/bookmarks/{question_id} [delete]
func (c *BookmarkController) Remove(ctx *gin.Context) {
	questionID, ok := parseID(ctx, "question_id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid question id")
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	if err := c.BookmarkService.Remove(claims.UserID, questionID); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": true})
}

// List godoc
// @Summary List the caller's bookmarks
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param subject query string false "subject filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/students/bookmarks [get]
func (c *BookmarkController) List(ctx *gin.Context) {
	filter := repository.QuestionFilter{
		Subjects: splitQuery(ctx, "subject"),
		Chapters: splitQuery(ctx, "chapter"),
		Topics:   splitQuery(ctx, "topic"),
	}
	page, limit := pagination(ctx)

	claims, _ := util.GetUserFromContext(ctx)
	bookmarks, total, err := c.BookmarkService.List(claims.UserID, filter, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"bookmarks": bookmarks, "total": total, "page": page, "limit": limit})
}
