package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parrot/internal/server/middleware"
	"parrot/pkg/logger"
)

// DownloadPDFHandler streams a previously generated PDF
func DownloadPDFHandler(c echo.Context) error {
	fileID := c.Param("file_id")

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	data, err := app.Store.Get(ctx, fileID)
	if err != nil {
		logger.Error("Failed to fetch PDF", "err", err, "file_id", fileID)
		return faultJSON(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		"attachment; filename="+fileID)
	return c.Blob(http.StatusOK, "application/pdf", data)
}
