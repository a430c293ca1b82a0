package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/services"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	log            *zap.Logger
}

func NewPaymentHandler(paymentService *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, log: log}
}

func (h *PaymentHandler) ListBanks(c *fiber.Ctx) error {
	banks, err := h.paymentService.ListBanks(c.Context(), c.Query("gateway"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: banks})
}

func (h *PaymentHandler) VerifyAccountNumber(c *fiber.Ctx) error {
	var req dto.VerifyAccountRequest
	if err := c.BodyParser(&req); err != nil || req.AccountNumber == "" || req.BankCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "account_number and bank_code are required"})
	}

	details, err := h.paymentService.VerifyAccountNumber(c.Context(), req.Gateway, req.AccountNumber, req.BankCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: details})
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "payment reference is required"})
	}

	payment, err := h.paymentService.GetPayment(c.Context(), reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: payment})
}
