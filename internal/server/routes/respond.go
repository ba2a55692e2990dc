package routes

import (
	"github.com/labstack/echo/v4"

	"parrot/internal/fault"
)

// faultJSON maps a pipeline error onto its HTTP status and client-safe
// message.
func faultJSON(c echo.Context, err error) error {
	return c.JSON(fault.HTTPStatus(err), map[string]string{
		"message": fault.MessageOf(err),
	})
}
