package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/justcars/backend/internal/gateway"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/repositories"
	"github.com/justcars/backend/internal/services"
)

// respondError maps service errors onto HTTP statuses so handlers stay
// thin. Unknown errors become a generic 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	var status int
	message := err.Error()

	var gwErr *gateway.GatewayError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrNotTransactionOwner):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTerminalState),
		errors.Is(err, repositories.ErrStatusConflict),
		errors.Is(err, services.ErrTransferNotRetryable):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrAmountMismatch),
		errors.Is(err, services.ErrMissingJustification),
		errors.Is(err, services.ErrMissingReason),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrMissingReportSummary),
		errors.Is(err, services.ErrCarUnavailable),
		errors.Is(err, services.ErrBuyerNotVerified),
		errors.Is(err, services.ErrInspectionNotWanted),
		errors.Is(err, services.ErrInspectorDetails),
		errors.Is(err, services.ErrPaymentMethodRequired),
		errors.Is(err, gateway.ErrUnsupportedGateway),
		errors.Is(err, gateway.ErrVerificationFailed):
		status = fiber.StatusBadRequest
	case errors.As(err, &gwErr):
		status = fiber.StatusBadGateway
		message = gwErr.Message
	default:
		status = fiber.StatusInternalServerError
		message = "internal error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}
