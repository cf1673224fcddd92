package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"trivia-arena/internal/auth"
	"trivia-arena/internal/leaderboard"
	"trivia-arena/internal/models"
	"trivia-arena/internal/progression"
	"trivia-arena/internal/question"
	"trivia-arena/internal/quiz"
	"trivia-arena/pkg/cache"
	"trivia-arena/pkg/database"

	"github.com/gorilla/mux"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Session{},
		&models.SessionQuestion{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Repositories
	authRepo := auth.NewRepository(db)
	questionRepo := question.NewRepository(db)
	sessionRepo := quiz.NewSessionRepository(db)
	answerRepo := quiz.NewAnswerRepository(db)
	leaderboardRepo := leaderboard.NewRepository(db)

	// Services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	questionService := question.NewService(questionRepo)
	progressionService := progression.NewService(db)
	quizService := quiz.NewService(sessionRepo, answerRepo, questionService, progressionService)
	leaderboardService := leaderboard.NewService(leaderboardRepo, redisCache)

	// Handlers
	authHandler := auth.NewHandler(authService)
	questionHandler := question.NewHandler(questionService)
	quizHandler := quiz.NewHandler(quizService)
	leaderboardHandler := leaderboard.NewHandler(leaderboardService)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Everything else requires a token
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/users/me", authHandler.GetProfile).Methods("GET")

	apiRouter.HandleFunc("/quiz/start", quizHandler.StartGame).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/active", quizHandler.GetActiveGame).Methods("GET")
	apiRouter.HandleFunc("/quiz/{sessionId}/question", quizHandler.GetCurrentQuestion).Methods("GET")
	apiRouter.HandleFunc("/quiz/{sessionId}/answer", quizHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{sessionId}/end", quizHandler.EndGame).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{sessionId}", quizHandler.AbandonGame).Methods("DELETE", "OPTIONS")

	apiRouter.HandleFunc("/questions", questionHandler.CreateQuestion).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/categories", questionHandler.GetCategories).Methods("GET")

	apiRouter.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port 8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
