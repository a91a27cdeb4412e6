package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/labstack/echo/v4"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.process")

	var req service.ProcessPaymentInput
	if err := bindBody(c, l, "payment_failed", &req); err != nil {
		return err
	}

	secret, err := h.Svc.Process(ctx, req)
	if err != nil {
		return fail(l, "payment_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "client_secret": secret})
}

func (h *PaymentHTTP) StripeAPIKey(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"stripeApikey": h.Svc.PublishableKey})
}
