package app

import (
	"tachyon_backend/docs"
	"tachyon_backend/internal/config"
	"tachyon_backend/internal/middleware"
	"tachyon_backend/internal/model"
	"tachyon_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/otp/request", c.auth.RequestOTP)
			auth.POST("/otp/verify", c.auth.VerifyOTP)
		}
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/profile", c.auth.Profile)
		authorized.PUT("/profile", c.auth.UpdateProfile)

		students := authorized.Group("/students")
		students.Use(middleware.RoleMiddleware(model.Student))
		{
			students.POST("/sessions", c.practice.StartSession)
			students.GET("/sessions", c.practice.ListSessions)
			students.GET("/next-question", c.practice.NextQuestion)
			students.POST("/attempts", c.practice.SubmitAttempt)
			students.PATCH("/sessions/:id/end", c.practice.EndSession)
			students.GET("/sessions/:id/summary", c.practice.Summary)

			students.GET("/topics", c.question.Topics)

			students.POST("/bookmarks", c.bookmark.Add)
			students.GET("/bookmarks", c.bookmark.List)
			students.DELETE("/bookmarks/:question_id", c.bookmark.Remove)

			students.POST("/doubts", c.doubt.Create)
			students.GET("/doubts", c.doubt.ListMine)

			students.GET("/lectures", c.lecture.List)

			students.GET("/progress", c.analytics.Progress)
			students.GET("/weak-topics", c.analytics.WeakTopics)
			students.GET("/gamification", c.analytics.Gamification)
		}

		mentors := authorized.Group("/mentors")
		mentors.Use(middleware.RoleMiddleware(model.Mentor))
		{
			mentors.GET("/doubts", c.doubt.ListOpen)
			mentors.PATCH("/doubts/:id/resolve", c.doubt.Resolve)

			mentors.POST("/lectures", c.lecture.Create)
			mentors.POST("/lectures/upload", c.lecture.Upload)
			mentors.PUT("/lectures/:id", c.lecture.Update)
			mentors.DELETE("/lectures/:id", c.lecture.Deactivate)
		}

		operators := authorized.Group("/operator")
		operators.Use(middleware.RoleMiddleware(model.Operator, model.Mentor))
		{
			operators.POST("/questions", c.question.Create)
			operators.GET("/questions", c.question.List)
			operators.GET("/questions/:id", c.question.Get)
			operators.PUT("/questions/:id", c.question.Update)
			operators.DELETE("/questions/:id", c.question.Deactivate)
			operators.POST("/questions/import", c.question.Import)
		}

		admin := authorized.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/analytics/overview", c.analytics.Overview)
			admin.GET("/analytics/trends", c.analytics.Trends)
		}
	}
}
