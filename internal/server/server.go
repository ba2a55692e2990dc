package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"parrot/internal/cache"
	"parrot/internal/compose"
	"parrot/internal/extract"
	"parrot/internal/generate"
	mid "parrot/internal/server/middleware"
	"parrot/internal/speech"
	"parrot/internal/storage"
	"parrot/internal/transcode"
	"parrot/internal/util"
	"parrot/pkg/ai"
	oai "parrot/pkg/ai/ollama"
	gai "parrot/pkg/ai/openai"
	"parrot/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient := newAIClient()
	store := newStore(ctx)
	generator := generate.NewService(generate.ServiceParams{
		Client:       aiClient,
		Cache:        newGenerationCache(),
		DefaultModel: util.GetEnv("AI_CHAT_MODEL"),
		Allowed:      splitModels(util.GetEnv("AI_CHAT_MODELS")),
		SystemPrompt: util.GetEnv("AI_SYSTEM_PROMPT"),
		Temperature:  util.GetEnvNumeric("AI_TEMPERATURE", 0),
		Timeout:      time.Duration(util.GetEnvNumeric("AI_REQUEST_TIMEOUT", 120)) * time.Second,
		MaxTries:     int(util.GetEnvNumeric("AI_MAX_RETRIES", 1)),
	})

	app := &mid.App{
		AIClient:    aiClient,
		Generator:   generator,
		Extractor:   extract.NewExtractor(aiClient),
		Transcoder:  transcode.NewTranscoder(),
		Synthesizer: speech.NewService(aiClient),
		Composer:    compose.NewComposer(store),
		Store:       store,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("50M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func newAIClient() ai.GatewayAIClient {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewGatewayOllamaClient(oai.NewGatewayOllamaClientParams{
			ChatModel:   util.GetEnv("AI_CHAT_MODEL"),
			VisionModel: util.GetEnv("AI_VISION_MODEL"),

			BaseURL: util.GetEnv("AI_BASE_URL"),
			APIKey:  util.GetEnv("AI_API_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 1)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGatewayOpenAIClient(gai.NewGatewayOpenAIClientParams{
			ChatModel:   util.GetEnv("AI_CHAT_MODEL"),
			VisionModel: util.GetEnv("AI_VISION_MODEL"),
			AudioModel:  util.GetEnvString("AI_AUDIO_MODEL", "whisper-1"),
			SpeechModel: util.GetEnvString("AI_SPEECH_MODEL", "tts-1"),
			SpeechVoice: util.GetEnvString("AI_SPEECH_VOICE", "alloy"),

			BaseURL: util.GetEnv("AI_BASE_URL"),
			APIKey:  util.GetEnv("AI_API_KEY"),
		})
	}
}

func newStore(ctx context.Context) storage.Store {
	switch util.GetEnv("STORAGE_BACKEND") {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Params{
			Region:    util.GetEnv("AWS_REGION"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
			SecretKey: util.GetEnv("AWS_SECRET_KEY"),
			Bucket:    util.GetEnv("AWS_BUCKET"),
			Prefix:    "pdfs",
		})
		if err != nil {
			logger.Fatal("Failed to create S3 store", "err", err)
		}
		return store
	default:
		store, err := storage.NewLocalStore(util.GetEnvString("STORAGE_ROOT", "storage/pdfs"))
		if err != nil {
			logger.Fatal("Failed to create local store", "err", err)
		}
		return store
	}
}

func newGenerationCache() generate.Cache {
	redisURL := util.GetEnv("REDIS_URL")
	if redisURL == "" {
		return nil
	}
	ttl := time.Duration(util.GetEnvNumeric("CACHE_TTL", 3600)) * time.Second
	c, err := cache.New(redisURL, ttl)
	if err != nil {
		logger.Error("Failed to create generation cache, continuing without", "err", err)
		return nil
	}
	return c
}

func splitModels(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
