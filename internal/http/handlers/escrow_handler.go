package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/middleware"
	"github.com/justcars/backend/internal/rbac"
	"github.com/justcars/backend/internal/repositories"
	"github.com/justcars/backend/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type EscrowHandler struct {
	escrowService *services.EscrowService
	log           *zap.Logger
}

func NewEscrowHandler(escrowService *services.EscrowService, log *zap.Logger) *EscrowHandler {
	return &EscrowHandler{escrowService: escrowService, log: log}
}

func (h *EscrowHandler) Initiate(c *fiber.Ctx) error {
	var req dto.InitiateEscrowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid car_id"})
	}

	buyerID := middleware.GetUserID(c)
	tx, err := h.escrowService.Initiate(c.Context(), buyerID, carID, req.WantsInspection)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *EscrowHandler) QuoteFee(c *fiber.Ctx) error {
	price, err := decimal.NewFromString(c.Query("price"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "price query parameter is required"})
	}

	breakdown, err := h.escrowService.QuoteFee(price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: breakdown})
}

func (h *EscrowHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	tx, err := h.escrowService.GetTransaction(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *EscrowHandler) ListTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	filter := repositories.EscrowFilter{
		Limit:  20,
		Offset: 0,
	}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = v
	}

	switch middleware.GetRole(c) {
	case rbac.RoleDealer:
		filter.DealerID = &userID
	case rbac.RoleAdmin:
		// Admins see everything unless they filter explicitly.
	default:
		filter.BuyerID = &userID
	}

	txs, err := h.escrowService.ListTransactions(c.Context(), filter)
	if err != nil {
		h.log.Error("list escrow transactions failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: txs})
}

func (h *EscrowHandler) GetTimeline(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	entries, err := h.escrowService.GetTimeline(c.Context(), id)
	if err != nil {
		h.log.Error("get timeline failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}

func (h *EscrowHandler) GetPayments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	payments, err := h.escrowService.GetPayments(c.Context(), id)
	if err != nil {
		h.log.Error("get payments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: payments})
}

func (h *EscrowHandler) SelectPaymentMethod(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.SelectPaymentMethodRequest
	if err := c.BodyParser(&req); err != nil || req.Method == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "method is required (online, bank_transfer)"})
	}

	buyerID := middleware.GetUserID(c)
	tx, init, err := h.escrowService.SelectPaymentMethod(c.Context(), id, buyerID, req.Method)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.PaymentMethodResponse{Transaction: tx}
	if init != nil {
		resp.AuthorizationURL = init.AuthorizationURL
		resp.AccessCode = init.AccessCode
		resp.Reference = init.Reference
	}
	if tx.VirtualAccountNumber != nil {
		resp.VirtualAccountNumber = *tx.VirtualAccountNumber
	}
	if tx.VirtualAccountBank != nil {
		resp.VirtualAccountBank = *tx.VirtualAccountBank
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func (h *EscrowHandler) ConfirmFunding(c *fiber.Ctx) error {
	var req dto.ConfirmFundingRequest
	if err := c.BodyParser(&req); err != nil || req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "reference is required"})
	}

	tx, err := h.escrowService.ConfirmFunding(c.Context(), req.Reference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *EscrowHandler) RequestInspection(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	buyerID := middleware.GetUserID(c)
	inspection, err := h.escrowService.RequestInspection(c.Context(), id, buyerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: inspection})
}

func (h *EscrowHandler) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	buyerID := middleware.GetUserID(c)
	tx, err := h.escrowService.BuyerApprove(c.Context(), id, buyerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *EscrowHandler) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.RejectRequest
	_ = c.BodyParser(&req)

	buyerID := middleware.GetUserID(c)
	tx, err := h.escrowService.BuyerReject(c.Context(), id, buyerID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *EscrowHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	buyerID := middleware.GetUserID(c)
	tx, err := h.escrowService.Cancel(c.Context(), id, buyerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}
