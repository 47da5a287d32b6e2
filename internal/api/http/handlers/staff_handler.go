package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inmohub/identity-service/internal/api/dto"
	"github.com/inmohub/identity-service/internal/domain"
	"github.com/inmohub/identity-service/internal/service"
	apperrors "github.com/inmohub/identity-service/pkg/util"
)

// StaffHandler exposes the staff lifecycle endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// Login handles POST /users/staff/token.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("email and password required")
	}

	token, err := h.staff.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

// RegisterWithoutCompany handles POST /users/staff/no-company.
func (h *StaffHandler) RegisterWithoutCompany(c *fiber.Ctx) error {
	var req dto.StaffRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.FirstName == "" || req.FamilyName == "" || req.Email == "" {
		return apperrors.NewBadRequest("firstName, familyName, email required")
	}

	if err := h.staff.RegisterWithoutCompany(c.Context(), req.ToStaff(), req.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RegisterWithCompany handles POST /users/staff/companies/:taxIdentificationNumber.
func (h *StaffHandler) RegisterWithCompany(c *fiber.Ctx) error {
	var req dto.StaffRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.FirstName == "" || req.FamilyName == "" || req.Email == "" {
		return apperrors.NewBadRequest("firstName, familyName, email required")
	}
	if req.CompanyRole == "" {
		req.CompanyRole = domain.CompanyRoleAgent
	}

	staff := req.ToStaff()
	taxID := c.Params("taxIdentificationNumber")
	staff.TaxIdentificationNumber = &taxID

	if err := h.staff.RegisterWithCompany(c.Context(), staff); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusCreated)
}

// AssignCompany handles PATCH /users/staff/:email/set-company.
func (h *StaffHandler) AssignCompany(c *fiber.Ctx) error {
	var req dto.StaffCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.TaxIdentificationNumber == "" {
		return apperrors.NewBadRequest("taxIdentificationNumber required")
	}

	return h.staff.AssignCompany(c.Context(), c.Params("email"), req.TaxIdentificationNumber)
}

// NotifyActivationCode handles
// POST /users/staff/:email/companies/:taxIdentificationNumber/notify-code.
// The rendered message body is handed to the external notifier; the
// response carries no code.
func (h *StaffHandler) NotifyActivationCode(c *fiber.Ctx) error {
	_, err := h.staff.RequestActivationCode(c.Context(), c.Params("email"), c.Params("taxIdentificationNumber"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// NotifyResetPassword handles POST /users/staff/:email/notify-reset-password.
func (h *StaffHandler) NotifyResetPassword(c *fiber.Ctx) error {
	_, err := h.staff.RequestPasswordResetCode(c.Context(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// Activate handles POST /users/staff/activate-code/:activationCode.
func (h *StaffHandler) Activate(c *fiber.Ctx) error {
	passwordSet, err := h.staff.Activate(c.Context(), c.Params("activationCode"))
	if err != nil {
		return err
	}
	return c.JSON(dto.AccountConfirmationResponse{IsPasswordSet: passwordSet})
}

// ChangePassword handles PATCH /users/staff/:email/change-password.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.NewPassword == "" {
		return apperrors.NewBadRequest("newPassword required")
	}

	return h.staff.ChangePassword(c.Context(), c.Params("email"), req.Password, req.NewPassword)
}

// ResetPassword handles PATCH /users/staff/:email/reset-password.
func (h *StaffHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.NotificationToken == "" || req.NewPassword == "" {
		return apperrors.NewBadRequest("notificationToken and newPassword required")
	}

	return h.staff.ResetPassword(c.Context(), c.Params("email"), req.NotificationToken, req.NewPassword)
}

// UpdateGeneralInfo handles PATCH /users/staff/:email/general-info.
func (h *StaffHandler) UpdateGeneralInfo(c *fiber.Ctx) error {
	var req dto.StaffInfoDto
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return h.staff.UpdateGeneralInfo(c.Context(), c.Params("email"), req.ToInfo())
}

// GetGeneralInfo handles GET /users/staff/:email/general-info.
func (h *StaffHandler) GetGeneralInfo(c *fiber.Ctx) error {
	info, err := h.staff.ReadGeneralInfo(c.Context(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.StaffInfoFromService(info))
}
