package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/middleware"
	"github.com/justcars/backend/internal/models"
	"github.com/justcars/backend/internal/services"
	"go.uber.org/zap"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
	log               *zap.Logger
}

func NewInspectionHandler(inspectionService *services.InspectionService, log *zap.Logger) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService, log: log}
}

func (h *InspectionHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid inspection id"})
	}

	inspection, err := h.inspectionService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspection})
}

func (h *InspectionHandler) List(c *fiber.Ctx) error {
	status := c.Query("status", models.InspectionStatusPending)

	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	inspections, err := h.inspectionService.ListByStatus(c.Context(), status, limit, offset)
	if err != nil {
		h.log.Error("list inspections failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspections})
}

func (h *InspectionHandler) Assign(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid inspection id"})
	}

	var req dto.AssignInspectorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	adminID := middleware.GetUserID(c)
	inspection, err := h.inspectionService.Assign(c.Context(), id, adminID, req.InspectorName, req.InspectorPhone, req.ScheduledDate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspection})
}

func (h *InspectionHandler) Start(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid inspection id"})
	}

	adminID := middleware.GetUserID(c)
	inspection, err := h.inspectionService.Start(c.Context(), id, adminID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspection})
}

func (h *InspectionHandler) Complete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid inspection id"})
	}

	var req dto.CompleteInspectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	adminID := middleware.GetUserID(c)
	inspection, err := h.inspectionService.Complete(c.Context(), id, adminID, req.Score, req.Summary, req.ReportFile)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspection})
}

func (h *InspectionHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid inspection id"})
	}

	adminID := middleware.GetUserID(c)
	inspection, err := h.inspectionService.Cancel(c.Context(), id, adminID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: inspection})
}
