package httpserver

import (
	"log/slog"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/labstack/echo/v4"
)

func bindBody(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return apperr.Validation("invalid body")
	}
	return nil
}

// fail logs err under event at a level matching its status and hands it on
// to the error handler.
func fail(l *slog.Logger, event string, err error) error {
	status := apperr.StatusOf(err)
	if status >= 500 {
		l.Error(event, "status", status, "error", err)
	} else {
		l.Warn(event, "status", status, "error", err)
	}
	return err
}
