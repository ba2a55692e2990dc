package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// ChatTextHandler runs a single chat completion for a text message
func ChatTextHandler(c echo.Context) error {
	type chatTextBody struct {
		Message   string `json:"message" validate:"required"`
		ModelName string `json:"model_name"`
	}

	type chatTextResponse struct {
		Text  string `json:"text"`
		Model string `json:"model"`
	}

	data := new(chatTextBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	result, err := app.Generator.Generate(ctx, data.Message, data.ModelName)
	if err != nil {
		logger.Error("Failed to generate chat response", "err", err)
		return faultJSON(c, err)
	}

	return c.JSON(http.StatusOK, chatTextResponse{
		Text:  result.Text,
		Model: result.Model,
	})
}
