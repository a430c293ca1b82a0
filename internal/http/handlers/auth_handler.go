package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/justcars/backend/internal/auth"
	"github.com/justcars/backend/internal/config"
	"github.com/justcars/backend/internal/http/dto"
	"github.com/justcars/backend/internal/rbac"
	"go.uber.org/zap"
)

// AuthHandler issues service JWTs. Buyers and dealers normally arrive
// with tokens minted by the main platform; this endpoint exists for the
// catalog service and internal tooling, guarded by a shared key.
type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	if h.cfg.InternalAPIKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
	}

	key := c.Get("X-Internal-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.InternalAPIKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid internal key"})
	}

	var req dto.IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid user_id"})
	}

	switch req.Role {
	case rbac.RoleBuyer, rbac.RoleDealer, rbac.RoleAdmin:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "role must be buyer, dealer or admin"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, userID, req.Role, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.TokenResponse{Token: token})
}
