package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inmohub/identity-service/internal/api/dto"
	"github.com/inmohub/identity-service/internal/auth"
	"github.com/inmohub/identity-service/internal/domain"
	"github.com/inmohub/identity-service/internal/service"
	apperrors "github.com/inmohub/identity-service/pkg/util"
)

// OperatorHandler exposes the back-office operator endpoints.
type OperatorHandler struct {
	operators *service.OperatorService
}

// NewOperatorHandler constructs handler.
func NewOperatorHandler(operatorService *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operators: operatorService}
}

// Login handles POST /users/operator/token.
func (h *OperatorHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("email and password required")
	}

	token, err := h.operators.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// Create handles POST /users/operator. The caller's own system role bounds
// which roles it may grant.
func (h *OperatorHandler) Create(c *fiber.Ctx) error {
	var req dto.OperatorRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.FirstName == "" || req.FamilyName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("firstName, familyName, email, password required")
	}
	if !domain.ValidSystemRole(req.SystemRole) {
		return apperrors.NewBadRequest("unknown system role: " + string(req.SystemRole))
	}

	creatorRole, ok := callerSystemRole(c)
	if !ok {
		return apperrors.NewForbidden("caller has no system role")
	}

	if err := h.operators.Create(c.Context(), req.ToOperator(), req.Password, creatorRole); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ChangePassword handles PATCH /users/operator/:email/change-password.
func (h *OperatorHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.NewPassword == "" {
		return apperrors.NewBadRequest("newPassword required")
	}

	return h.operators.ChangePassword(c.Context(), c.Params("email"), req.Password, req.NewPassword)
}

// UpdateGeneralInfo handles PATCH /users/operator/:email/general-info.
func (h *OperatorHandler) UpdateGeneralInfo(c *fiber.Ctx) error {
	var req dto.OperatorInfoDto
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return h.operators.UpdateGeneralInfo(c.Context(), c.Params("email"), req.ToInfo())
}

// GetGeneralInfo handles GET /users/operator/:email/general-info.
func (h *OperatorHandler) GetGeneralInfo(c *fiber.Ctx) error {
	info, err := h.operators.ReadGeneralInfo(c.Context(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OperatorInfoFromService(info))
}

// callerSystemRole derives the caller's system role from the request
// principal. Company authorities are ignored here.
func callerSystemRole(c *fiber.Ctx) (domain.SystemRole, bool) {
	principal := auth.PrincipalFromContext(c)
	if principal == nil {
		return "", false
	}
	for _, role := range []domain.SystemRole{domain.SystemRoleAdmin, domain.SystemRoleSupport} {
		if auth.HasGlobalRole(principal.Authorities, role) {
			return role, true
		}
	}
	return "", false
}
