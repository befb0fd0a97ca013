package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tachyon_backend/internal/config"
	"tachyon_backend/internal/controller"
	"tachyon_backend/internal/repository"
	"tachyon_backend/internal/service"
	"tachyon_backend/pkg/configwatcher"
	"tachyon_backend/pkg/database"
	"tachyon_backend/pkg/logger"
	"tachyon_backend/pkg/monitoring"
	"tachyon_backend/pkg/security"
	"tachyon_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Policy *configwatcher.PolicyStore

	services *services
}

type repositories struct {
	user         *repository.UserRepository
	question     *repository.QuestionRepository
	session      *repository.SessionRepository
	attempt      *repository.AttemptRepository
	performance  *repository.PerformanceRepository
	gamification *repository.GamificationRepository
	bookmark     *repository.BookmarkRepository
	doubt        *repository.DoubtRepository
	otp          *repository.OTPRepository
	lecture      *repository.LectureRepository
}

type services struct {
	auth         *service.AuthService
	otp          *service.OTPService
	storage      *service.StorageService
	adaptive     *service.AdaptiveService
	practice     *service.PracticeService
	gamification *service.GamificationService
	question     *service.QuestionService
	importer     *service.ImporterService
	bookmark     *service.BookmarkService
	doubt        *service.DoubtService
	lecture      *service.LectureService
	analytics    *service.AnalyticsService
}

type controllers struct {
	auth      *controller.AuthController
	practice  *controller.PracticeController
	question  *controller.QuestionController
	bookmark  *controller.BookmarkController
	doubt     *controller.DoubtController
	lecture   *controller.LectureController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		question:     repository.NewQuestionRepository(db),
		session:      repository.NewSessionRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		performance:  repository.NewPerformanceRepository(db),
		gamification: repository.NewGamificationRepository(db),
		bookmark:     repository.NewBookmarkRepository(db),
		doubt:        repository.NewDoubtRepository(db),
		otp:          repository.NewOTPRepository(db),
		lecture:      repository.NewLectureRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client, policy service.PolicyProvider) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.otp = service.NewOTPService(repos.otp, repos.user, s.auth, rdb, cfg)

	s.adaptive = service.NewAdaptiveService(repos.question, repos.attempt, policy)
	s.gamification = service.NewGamificationService(repos.gamification, repos.performance, repos.attempt)
	s.practice = service.NewPracticeService(db, repos.session, repos.attempt, repos.question, s.adaptive, s.gamification, policy, rdb)

	s.question = service.NewQuestionService(repos.question)
	s.importer = service.NewImporterService(repos.question)
	s.bookmark = service.NewBookmarkService(repos.bookmark, repos.question)
	s.doubt = service.NewDoubtService(repos.doubt, repos.question)
	s.lecture = service.NewLectureService(repos.lecture, s.storage)
	s.analytics = service.NewAnalyticsService(db, repos.attempt, repos.performance, repos.session, policy)

	return s
}

func initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.otp),
		practice:  controller.NewPracticeController(s.practice),
		question:  controller.NewQuestionController(s.question, s.importer),
		bookmark:  controller.NewBookmarkController(s.bookmark),
		doubt:     controller.NewDoubtController(s.doubt),
		lecture:   controller.NewLectureController(s.lecture),
		analytics: controller.NewAnalyticsController(s.analytics, s.gamification),
		health:    controller.NewHealthController(db),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the maintenance loops: expired-OTP purge and the
// config watcher for practice policy reloads.
func (a *App) startBackgroundTasks() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			a.services.otp.PurgeExpired()
		}
	}()

	go configwatcher.WatchConfig("configs/config.yaml", a.Policy)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("initializing database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("running migrations", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb := database.InitRedis(&cfg.Redis)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Policy: configwatcher.NewPolicyStore(cfg.Practice),
	}

	repos := initRepositories(db)
	app.services = initServices(repos, cfg, db, rdb, app.Policy)
	ctrls := initControllers(app.services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("tachyon-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("initializing tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type != "minio" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks()
	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}
	logger.Log.Info("server exited")
}
