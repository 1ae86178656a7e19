package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"falconsphere/internal/auth"
	"falconsphere/internal/feed"
	"falconsphere/internal/session"
	"falconsphere/internal/set"
	"falconsphere/pkg/cache"
	"falconsphere/pkg/database"
	"falconsphere/pkg/filter"
	"falconsphere/pkg/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis, which holds every live game document
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisCache.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	cancel()

	// Shared profanity gate
	profanity := filter.New()

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	authRepo := auth.NewRepository(db)
	setRepo := set.NewRepository(db)
	feedRepo := feed.NewRepository(db)

	// Services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, profanity, jwtSecret)
	setService := set.NewService(setRepo, profanity)
	sessionService := session.NewService(redisCache, setService, wsHub, profanity)
	feedService := feed.NewService(feedRepo, profanity)
	wsHub.SetSessionService(sessionService)

	// Handlers
	authHandler := auth.NewHandler(authService)
	setHandler := set.NewHandler(setService)
	sessionHandler := session.NewHandler(sessionService)
	feedHandler := feed.NewHandler(feedService)

	// Router
	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{originFromEnv()},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Public reads and the whole game flow: players are identified by
	// display name only, never by an account
	router.HandleFunc("/api/sets", setHandler.Search).Methods("GET")
	router.HandleFunc("/api/sets/{id:[0-9]+}", setHandler.Get).Methods("GET")

	router.HandleFunc("/api/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}", sessionHandler.Get).Methods("GET")
	router.HandleFunc("/api/sessions/{code}/exists", sessionHandler.Exists).Methods("GET")
	router.HandleFunc("/api/sessions/{code}/join", sessionHandler.Join).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/advance", sessionHandler.Advance).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/end", sessionHandler.End).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/announce", sessionHandler.Announce).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/answer", sessionHandler.Answer).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/players/{playerID}", sessionHandler.Kick).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/players/{playerID}", sessionHandler.Rename).Methods("PUT", "OPTIONS")
	router.HandleFunc("/api/sessions/{code}/leaderboard", sessionHandler.Leaderboard).Methods("GET")
	router.HandleFunc("/api/sessions/{code}/export", sessionHandler.Export).Methods("GET")

	router.HandleFunc("/api/questions", feedHandler.List).Methods("GET")
	router.HandleFunc("/api/questions/{id:[0-9]+}", feedHandler.Get).Methods("GET")
	router.HandleFunc("/api/questions/{id:[0-9]+}/vote", feedHandler.Vote).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/questions/{id:[0-9]+}/reactions", feedHandler.React).Methods("POST", "OPTIONS")

	// JWT required: owning sets and authoring feed posts
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/sets/mine", setHandler.ListMine).Methods("GET")
	apiRouter.HandleFunc("/sets", setHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/sets/{id:[0-9]+}", setHandler.Update).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/sets/{id:[0-9]+}", setHandler.Delete).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/sets/{id:[0-9]+}/copy", setHandler.Copy).Methods("POST", "OPTIONS")

	apiRouter.HandleFunc("/questions", feedHandler.Create).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id:[0-9]+}", feedHandler.Update).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id:[0-9]+}", feedHandler.Delete).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/questions/{id:[0-9]+}/replies", feedHandler.Reply).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/replies/{replyID:[0-9]+}", feedHandler.DeleteReply).Methods("DELETE", "OPTIONS")

	// WebSocket endpoint, one room per join code
	router.HandleFunc("/ws/{code}", wsHub.HandleWebSocket)

	addr := ":" + port()
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server shutdown gracefully")
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func originFromEnv() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}
