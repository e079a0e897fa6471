package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Axolotls/config"
	"github.com/lshigami/Axolotls/database"
	_ "github.com/lshigami/Axolotls/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Axolotls/internal/controller/admin"
	authctrl "github.com/lshigami/Axolotls/internal/controller/auth"
	publicctrl "github.com/lshigami/Axolotls/internal/controller/public"
	"github.com/lshigami/Axolotls/internal/logger"
	"github.com/lshigami/Axolotls/internal/model"
	"github.com/lshigami/Axolotls/internal/repository"
	"github.com/lshigami/Axolotls/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Student Feedback API
// @version 1.0
// @description API for collecting student answers, grading them with a generative model, and reviewing the results on an instructor dashboard.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://example.com/support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewResponseRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewImageUploadService,
			service.NewSheetMirrorService,
			func(
				questionRepo repository.QuestionRepository,
				responseRepo repository.ResponseRepository,
				llm service.GeminiLLMService,
				mirror service.SheetMirrorService,
			) service.SubmissionService {
				return service.NewSubmissionService(questionRepo, responseRepo, llm, mirror)
			},
			func(
				questionRepo repository.QuestionRepository,
				responseRepo repository.ResponseRepository,
				uploader service.ImageUploadService,
				db *gorm.DB,
			) service.QuestionService {
				return service.NewQuestionService(questionRepo, responseRepo, uploader, db)
			},
			func(
				responseRepo repository.ResponseRepository,
				llm service.GeminiLLMService,
				db *gorm.DB,
			) service.ReviewService {
				return service.NewReviewService(responseRepo, llm, db)
			},
		),

		// API Controllers Layer
		fx.Provide(
			publicctrl.NewPublicController,
			adminctrl.NewAdminController,
			authctrl.NewController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route Gin's access log through Zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	// CORS Configuration. Credentials must be allowed so the session cookie
	// reaches the admin API from the dashboard frontend.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI
	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	publicCtrl *publicctrl.PublicController,
	adminCtrl *adminctrl.AdminController,
	authCtrl *authctrl.Controller,
) {
	// Student-facing routes, no authentication.
	router.POST("/api/evaluate", publicCtrl.Evaluate)
	router.POST("/api/rate-feedback", publicCtrl.RateFeedback)
	router.GET("/api/question-details/:prompt_id", publicCtrl.QuestionDetails)

	// OAuth login flow.
	router.GET("/login", authCtrl.Login)
	router.GET("/auth", authCtrl.Callback)
	router.GET("/logout", authCtrl.Logout)
	router.GET("/unauthorized", authCtrl.Unauthorized)

	// Instructor dashboard API, session-gated.
	adminAPIGroup := router.Group("/api", authCtrl.RequireAdminAPI())
	{
		adminAPIGroup.GET("/get-unique-problems", adminCtrl.GetUniqueProblems)
		adminAPIGroup.GET("/get-all-feedback", adminCtrl.GetAllFeedback)
		adminAPIGroup.GET("/get-all-questions", adminCtrl.GetAllQuestions)
		adminAPIGroup.GET("/get-summary", adminCtrl.GetSummary)
		adminAPIGroup.POST("/create-question", adminCtrl.CreateQuestion)
		adminAPIGroup.POST("/update-question/:prompt_id", adminCtrl.UpdateQuestion)
		adminAPIGroup.DELETE("/delete-question/:prompt_id", adminCtrl.DeleteQuestion)
		adminAPIGroup.POST("/clear-problem-feedback", adminCtrl.ClearProblemFeedback)
		adminAPIGroup.POST("/clear-all-feedback", adminCtrl.ClearAllFeedback)
		adminAPIGroup.GET("/test-ai-connection", adminCtrl.TestAIConnection)
	}

	// Dashboard pages, session-gated with a redirect to /login.
	pagesGroup := router.Group("/", authCtrl.RequireAdminPage())
	{
		pagesGroup.GET("/dashboard", adminCtrl.DashboardPage)
		pagesGroup.GET("/create", adminCtrl.CreatePage)
		pagesGroup.GET("/edit-problems", adminCtrl.EditProblemsPage)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Student Feedback API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.Response{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
