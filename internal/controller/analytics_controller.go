package controller

import (
	"strconv"

	"tachyon_backend/internal/service"
	"tachyon_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService    *service.AnalyticsService
	GamificationService *service.GamificationService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService, gamificationService *service.GamificationService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService:    analyticsService,
		GamificationService: gamificationService,
	}
}

// Progress godoc
// @Summary Get the caller's per-subject progress
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentProgress}
// @Router /api/students/progress [get]
func (c *AnalyticsController) Progress(ctx *gin.Context) {
	claims, _ := util.GetUserFromContext(ctx)
	progress, err := c.AnalyticsService.Progress(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// WeakTopics godoc
// @Summary Get the caller's weak topics, weakest first
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students/weak-topics [get]
func (c *AnalyticsController) WeakTopics(ctx *gin.Context) {
	claims, _ := util.GetUserFromContext(ctx)
	topics, err := c.AnalyticsService.WeakTopics(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"weakTopics": topics})
}

// Gamification godoc
// @Summary Get the caller's streak, points and badges
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.GamificationStatus}
// @Router /api/students/gamification [get]
func (c *AnalyticsController) Gamification(ctx *gin.Context) {
	claims, _ := util.GetUserFromContext(ctx)
	status, err := c.GamificationService.Status(claims.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// Overview godoc
// @Summary Platform-wide counters
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PlatformOverview}
// @Router /api/admin/analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	overview, err := c.AnalyticsService.Overview()
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Trends godoc
// @Summary Daily attempt counts
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "window in days, default 30"
// @Success 200 {object} util.Response
// @Router /api/admin/analytics/trends [get]
func (c *AnalyticsController) Trends(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	activity, err := c.AnalyticsService.Trends(days)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"days": activity})
}
