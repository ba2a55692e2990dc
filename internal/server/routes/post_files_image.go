package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/extract"
	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// ProcessImageHandler runs OCR over an uploaded image without the chat
// follow-up
func ProcessImageHandler(c echo.Context) error {
	type processImageResponse struct {
		Content string `json:"content"`
	}

	upload, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "No image provided",
		})
	}

	if !extract.IsImage(upload.Filename) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "File must be an image (JPEG, PNG, or BMP)",
		})
	}
	if upload.Size > maxImageSize {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Image size exceeds the 5MB limit",
		})
	}

	src, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not open image",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not read image",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	content, err := app.Extractor.Extract(ctx, data, upload.Filename)
	if err != nil {
		logger.Error("Failed to process image", "err", err, "filename", upload.Filename)
		return faultJSON(c, err)
	}

	return c.JSON(http.StatusOK, processImageResponse{Content: content})
}
