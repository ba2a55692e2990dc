package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// TextToSpeechHandler synthesizes the given text and streams it back as an
// MP3 attachment
func TextToSpeechHandler(c echo.Context) error {
	// echo's binder skips query params on POST, so read the param directly.
	text := c.QueryParam("text")
	if strings.TrimSpace(text) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	audio, err := app.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		logger.Error("Failed to synthesize speech", "err", err)
		return faultJSON(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		"attachment; filename=response.mp3")
	return c.Blob(http.StatusOK, "audio/mp3", audio)
}
