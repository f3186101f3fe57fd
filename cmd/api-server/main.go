package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/api/cache"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
	"reviewhub/internal/config"
	"reviewhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	ratings := cache.NewRatingCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RatingCacheTTL)
	defer ratings.Close()

	sender := mailer.NewSMTPSender(cfg.SMTPAddr, cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPass)

	// repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// services
	authService := service.NewAuthService(userRepo, sender, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, reviewRepo, categoryRepo, genreRepo, ratings)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratings)
	commentService := service.NewCommentService(commentRepo, reviewRepo, titleRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	authn := middleware.Authenticate(authService, userRepo)
	optionalAuthn := middleware.OptionalAuthenticate(authService, userRepo)
	signupLimit := middleware.RateLimit(cfg.SignupRatePerMin, cfg.SignupBurst)

	api := r.Group("/api/v1")

	handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/auth"), signupLimit)

	titles := api.Group("/titles", optionalAuthn)
	handler.NewTitleHandler(titleService).RegisterRoutes(titles)
	handler.NewReviewHandler(reviewService).RegisterRoutes(titles)
	handler.NewCommentHandler(commentService).RegisterRoutes(titles)

	handler.NewCategoryHandler(categoryService).RegisterRoutes(api.Group("/categories", optionalAuthn))
	handler.NewGenreHandler(genreService).RegisterRoutes(api.Group("/genres", optionalAuthn))
	handler.NewUserHandler(userService).RegisterRoutes(api.Group("/users"), authn)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting API server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
