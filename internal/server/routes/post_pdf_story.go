package routes

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/compose"
	"parrot/internal/server/middleware"
	"parrot/internal/story"
	"parrot/pkg/logger"
)

// GenerateStoryHandler generates a structured story, renders it as a PDF
// and returns the download handle
func GenerateStoryHandler(c echo.Context) error {
	type generateStoryBody struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	type generateStoryResponse struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    *compose.PersistedFile `json:"data,omitempty"`
	}

	data := new(generateStoryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateStoryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, generateStoryResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	parsed, err := generateStory(ctx, app, data.Prompt)
	if err != nil {
		logger.Error("Failed to generate story content", "err", err)
		return faultJSON(c, err)
	}

	file, err := app.Composer.ComposeStory(ctx, parsed)
	if err != nil {
		logger.Error("Failed to compose story PDF", "err", err)
		return c.JSON(http.StatusInternalServerError, generateStoryResponse{
			Message: "Failed to create PDF",
		})
	}

	return c.JSON(http.StatusOK, generateStoryResponse{
		Success: true,
		Message: "PDF generated successfully",
		Data:    &file,
	})
}

// generateStory asks the model for a schema-constrained story first. Not
// every adapter can enforce a schema, so on failure it retries with a
// plain completion and parses the JSON out of the text.
func generateStory(ctx context.Context, app *middleware.App, prompt string) (story.Story, error) {
	var s story.Story
	_, err := app.Generator.GenerateStructured(ctx,
		"story", "A children's story split into illustrated pages",
		story.Prompt(prompt), &s, "")
	if err == nil {
		err = story.Validate(s)
	}
	if err == nil {
		return s, nil
	}
	logger.Debug("structured story generation failed, falling back to text", "err", err)

	result, err := app.Generator.Generate(ctx, story.Prompt(prompt), "")
	if err != nil {
		return story.Story{}, err
	}
	return story.Parse(result.Text)
}
