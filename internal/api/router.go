package api

import (
	"net/http"
	"time"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api/handler"
	customMiddleware "github.com/Ozeirr/ai-chatbot-platform/internal/api/middleware"
	"github.com/Ozeirr/ai-chatbot-platform/internal/chunker"
	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/crawler"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm/gemini"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm/ollama"
	"github.com/Ozeirr/ai-chatbot-platform/internal/llm/openai"
	"github.com/Ozeirr/ai-chatbot-platform/internal/queue"
	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/postgres"
	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/redis"
	"github.com/Ozeirr/ai-chatbot-platform/internal/service"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. Background task handlers
// for ingestion and crawling are registered on tasks here; the caller starts
// the workers once the router is built.
func NewRouter(
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	store vector.Store,
	tasks *queue.Queue,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize repositories
	clientRepo := postgres.NewClientRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	crawlJobRepo := postgres.NewCrawlJobRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Initialize rate limiter
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.Burst,
	)

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API Key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	// Initialize services
	clientService := service.NewClientService(clientRepo, store)
	documentService := service.NewDocumentService(
		documentRepo,
		chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap),
		store,
		tasks,
	)
	chatService := service.NewChatService(sessionRepo, messageRepo, store, llmRouter)
	crawlService := service.NewCrawlService(
		crawlJobRepo,
		clientRepo,
		crawler.New(cfg.Crawler),
		chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap),
		store,
		tasks,
	)
	analyticsService := service.NewAnalyticsService(analyticsRepo)

	// Bind background task handlers
	documentService.RegisterHandlers(tasks)
	crawlService.RegisterHandlers(tasks)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService)
	documentHandler := handler.NewDocumentHandler(documentService)
	chatHandler := handler.NewChatHandler(chatService)
	crawlHandler := handler.NewCrawlHandler(crawlService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// Middleware backed by services
	authMiddleware := customMiddleware.NewAuthMiddleware(clientService)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))
		r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

		// Client provisioning (public, dashboard-facing)
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientHandler.Create)
			r.Get("/", clientHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", clientHandler.Me)
			})

			r.Route("/{clientID}", func(r chi.Router) {
				r.Get("/", clientHandler.Get)
				r.Put("/", clientHandler.Update)
				r.Delete("/", clientHandler.Delete)

				// Crawl jobs are keyed by path, matching the dashboard flow
				r.Post("/crawl", crawlHandler.Start)
				r.Get("/jobs", crawlHandler.ListJobs)
				r.Get("/jobs/{jobID}", crawlHandler.GetJob)
			})
		})

		// Widget and dashboard routes behind the API key
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Create)
				r.Get("/", documentHandler.List)

				r.Route("/{documentID}", func(r chi.Router) {
					r.Get("/", documentHandler.Get)
					r.Put("/", documentHandler.Update)
					r.Delete("/", documentHandler.Delete)
				})
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/", chatHandler.Chat)

				r.Route("/sessions/{sessionID}", func(r chi.Router) {
					r.Get("/", chatHandler.GetSession)
					r.Post("/end", chatHandler.EndSession)
					r.Get("/messages", chatHandler.ListMessages)
				})
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/summary", analyticsHandler.Summary)
				r.Get("/sessions/daily", analyticsHandler.DailySessions)
				r.Get("/messages/daily", analyticsHandler.DailyMessages)
				r.Post("/snapshot", analyticsHandler.Snapshot)
			})
		})
	})

	return r
}
