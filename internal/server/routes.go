package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Chat routes
	chat := e.Group("/chat")
	chat.POST("/text", routes.ChatTextHandler)
	chat.POST("/voice", routes.ChatVoiceHandler)
	chat.POST("/text-to-speech", routes.TextToSpeechHandler)

	// File routes
	files := e.Group("/files")
	files.POST("/upload", routes.UploadFileHandler)
	files.POST("/process-image", routes.ProcessImageHandler)

	// PDF routes
	pdf := e.Group("/pdf")
	pdf.POST("/generate-story", routes.GenerateStoryHandler)
	pdf.GET("/download/:file_id", routes.DownloadPDFHandler)
}
