package middleware

import (
	"github.com/labstack/echo/v4"

	"parrot/internal/compose"
	"parrot/internal/extract"
	"parrot/internal/generate"
	"parrot/internal/speech"
	"parrot/internal/storage"
	"parrot/internal/transcode"
	"parrot/pkg/ai"
)

// App holds the gateway's long-lived services. Everything is constructed
// once at startup and shared across requests.
type App struct {
	AIClient    ai.GatewayAIClient
	Generator   *generate.Service
	Extractor   *extract.Extractor
	Transcoder  *transcode.Transcoder
	Synthesizer *speech.Service
	Composer    *compose.Composer
	Store       storage.Store
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request context with the shared App.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
