package routes

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/extract"
	"parrot/internal/generate"
	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// maxImageSize caps image uploads at 5 MB.
const maxImageSize = 5 * 1024 * 1024

// UploadFileHandler extracts text from an uploaded file and runs it
// through the analysis prompt
func UploadFileHandler(c echo.Context) error {
	type uploadFileResponse struct {
		Content string `json:"content"`
		Model   string `json:"model"`
		Text    string `json:"text"`
	}

	upload, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "No file provided",
		})
	}

	if extract.IsImage(upload.Filename) && upload.Size > maxImageSize {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Image size exceeds the 5MB limit",
		})
	}

	src, err := upload.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Could not read file",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	content, err := app.Extractor.Extract(ctx, data, upload.Filename)
	if err != nil {
		logger.Error("Failed to extract file content", "err", err, "filename", upload.Filename)
		return faultJSON(c, err)
	}

	result, err := app.Generator.Generate(ctx, generate.AnalysisPrompt(content), c.FormValue("model_name"))
	if err != nil {
		logger.Error("Failed to analyze file content", "err", err)
		return faultJSON(c, err)
	}

	return c.JSON(http.StatusOK, uploadFileResponse{
		Content: content,
		Model:   result.Model,
		Text:    result.Text,
	})
}
