package controller

import (
	"net/http"

	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LectureController struct {
	LectureService *service.LectureService
}

func NewLectureController(lectureService *service.LectureService) *LectureController {
	return &LectureController{LectureService: lectureService}
}

// Create godoc
// @Summary Register a youtube lecture
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LectureRequest true "lecture payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/mentors/lectures [post]
func (c *LectureController) Create(ctx *gin.Context) {
	var req service.LectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	lecture, err := c.LectureService.Create(claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": lecture.ID})
}

// Upload godoc
// @Summary Upload a lecture recording
// @Description Stores the video, probes duration and generates a thumbnail
// @Tags lectures
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "video file"
// @Param title formData string true "title"
// @Param date formData string true "YYYY-MM-DD"
// @Param subject formData string true "subject"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response "storage unavailable"
// @Router /api/mentors/lectures/upload [post]
func (c *LectureController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.Error(ctx, http.StatusBadRequest, "file form field is required")
		return
	}
	req := service.LectureRequest{
		Title:        ctx.PostForm("title"),
		Date:         ctx.PostForm("date"),
		Subject:      ctx.PostForm("subject"),
		ResourceType: "video",
		Notes:        ctx.PostForm("notes"),
	}
	if req.Title == "" || req.Date == "" || req.Subject == "" {
		util.Error(ctx, http.StatusBadRequest, "title, date and subject form fields are required")
		return
	}

	claims, _ := util.GetUserFromContext(ctx)
	lecture, svcErr := c.LectureService.Upload(ctx.Request.Context(), claims.UserID, req, file)
	if svcErr != nil {
		util.FromError(ctx, svcErr)
		return
	}
	util.Created(ctx, gin.H{"id": lecture.ID, "resource_url": lecture.ResourceURL, "thumbnail_url": lecture.ThumbnailURL})
}

// Update godoc
// @Summary Update a lecture
// @Tags lectures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "lecture id"
// @Param body body service.LectureRequest true "lecture payload"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Failure 404 {object} util.Response
// @Router /api/mentors/lectures/{id} [put]
func (c *LectureController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid lecture id")
		return
	}
	var req service.LectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	lecture, err := c.LectureService.Update(id, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// Deactivate godoc
// @Summary Remove a lecture from the listing
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param id path int true "lecture id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/mentors/lectures/{id} [delete]
func (c *LectureController) Deactivate(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		util.Error(ctx, http.StatusBadRequest, "invalid lecture id")
		return
	}
	if err := c.LectureService.Deactivate(id); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deactivated": true})
}

// List godoc
// @Summary List lectures
// @Tags lectures
// @Produce json
// @Security BearerAuth
// @Param subject query string false "subject filter"
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response
// @Router /api/students/lectures [get]
func (c *LectureController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	lectures, total, err := c.LectureService.List(ctx.Query("subject"), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"lectures": lectures, "total": total, "page": page, "limit": limit})
}
