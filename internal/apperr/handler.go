package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPErrorHandler writes {"success": false, "message": ...} for every error
// that reaches echo. Handlers never write failure bodies themselves.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed || err == nil {
		return
	}

	status := StatusOf(err)
	msg := messageOf(err)

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, envelope{Success: false, Message: msg})
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
