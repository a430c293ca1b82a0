package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/middleware"
	"github.com/justcars/backend/internal/services"
	"go.uber.org/zap"
)

// AdminHandler exposes the fund-movement and dispute endpoints. Every
// action here requires a justification note, which lands in the audit
// timeline.
type AdminHandler struct {
	escrowService  *services.EscrowService
	paymentService *services.PaymentService
	log            *zap.Logger
}

func NewAdminHandler(escrowService *services.EscrowService, paymentService *services.PaymentService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{escrowService: escrowService, paymentService: paymentService, log: log}
}

// executeTransfer pushes a payout instruction through the gateway. A
// failed transfer is not an endpoint failure: the ledger row stays
// pending and the transfer can be retried.
func (h *AdminHandler) executeTransfer(c *fiber.Ctx, instr *services.TransferInstruction) any {
	if instr == nil {
		return nil
	}

	result, err := h.paymentService.ExecuteTransfer(c.Context(), instr)
	if err != nil {
		h.log.Warn("payout transfer failed, left pending for retry",
			zap.Error(err), zap.String("reference", instr.Request.Reference))
		return fiber.Map{"reference": instr.Request.Reference, "status": "pending"}
	}
	return result
}

func (h *AdminHandler) Release(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.AdminActionRequest
	_ = c.BodyParser(&req)

	adminID := middleware.GetUserID(c)
	tx, instr, err := h.escrowService.AdminRelease(c.Context(), id, adminID, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ReleaseResponse{
		Transaction: tx,
		Transfer:    h.executeTransfer(c, instr),
	}})
}

func (h *AdminHandler) Refund(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.AdminActionRequest
	_ = c.BodyParser(&req)

	adminID := middleware.GetUserID(c)
	tx, instr, err := h.escrowService.AdminRefund(c.Context(), id, adminID, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ReleaseResponse{
		Transaction: tx,
		Transfer:    h.executeTransfer(c, instr),
	}})
}

func (h *AdminHandler) Dispute(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.AdminActionRequest
	_ = c.BodyParser(&req)

	adminID := middleware.GetUserID(c)
	tx, err := h.escrowService.AdminDispute(c.Context(), id, adminID, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: tx})
}

func (h *AdminHandler) ResolveDispute(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	var req dto.ResolveDisputeRequest
	if err := c.BodyParser(&req); err != nil || req.Outcome == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "outcome is required (approved, refunded)"})
	}

	adminID := middleware.GetUserID(c)
	tx, instr, err := h.escrowService.AdminResolveDispute(c.Context(), id, adminID, req.Outcome, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ReleaseResponse{
		Transaction: tx,
		Transfer:    h.executeTransfer(c, instr),
	}})
}

func (h *AdminHandler) RetryTransfer(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid transaction id"})
	}

	adminID := middleware.GetUserID(c)
	instr, err := h.escrowService.RetryTransfer(c.Context(), id, adminID)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.paymentService.ExecuteTransfer(c.Context(), instr)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: result})
}
