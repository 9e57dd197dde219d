package main

import (
	"log"
	"time"

	"github.com/finedmentor/fined_mentor/ai"
	config "github.com/finedmentor/fined_mentor/configs"
	"github.com/finedmentor/fined_mentor/database"
	"github.com/finedmentor/fined_mentor/handlers"
	"github.com/finedmentor/fined_mentor/jobs"
	"github.com/finedmentor/fined_mentor/notifications"
	"github.com/finedmentor/fined_mentor/repository"
	"github.com/finedmentor/fined_mentor/routes"
	"github.com/finedmentor/fined_mentor/search"
	"github.com/finedmentor/fined_mentor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()

	mailer := notifications.NewBrevoService()
	tavily := search.NewTavilyClient(config.Config("TAVILY_API_KEY"))

	aiClient, err := ai.NewOpenAIClient(
		config.Config("OPENAI_API_KEY"),
		config.Config("OPENAI_BASE_URL"),
		config.Config("OPENAI_MODEL"),
		tavily.SearchWeb,
	)
	if err != nil {
		log.Fatalf("🔥 Failed to initialize AI client: %v", err)
	}

	userRepo := repository.NewUserRepository(database.DB)
	tokenRepo := repository.NewTokenRepository(database.DB)
	quizRepo := repository.NewQuizRepository(database.DB)
	quizStateRepo := repository.NewQuizStateRepository(database.DB)
	sessionRepo := repository.NewChatSessionRepository(database.DB)
	messageRepo := repository.NewChatMessageRepository(database.DB)

	tokenService := services.NewTokenService(tokenRepo)
	authService := services.NewAuthService(userRepo, tokenService, mailer)
	topicValidator := services.NewTopicValidatorService(aiClient)
	quizGenerator := services.NewQuizGenerationService(aiClient, topicValidator)
	quizService := services.NewQuizService(quizRepo, quizStateRepo, quizGenerator)
	chatService := services.NewChatService(sessionRepo, messageRepo, aiClient)

	c := cron.New()
	c.AddFunc("@hourly", jobs.PurgeDeadTokens)
	go c.Start()
	log.Println("✅ Token cleanup job scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Fined Mentor",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  120 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(handlers.ApiResponse{
				Success: false,
				Message: err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigDefault("CORS_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.AuthRoutes(app, handlers.NewAuthHandler(authService))
	routes.QuizRoutes(app, handlers.NewQuizHandler(quizService))
	routes.ChatRoutes(app, handlers.NewChatHandler(chatService))

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
