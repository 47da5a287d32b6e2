package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inmohub/identity-service/internal/api/http/handlers"
	"github.com/inmohub/identity-service/internal/auth"
	"github.com/inmohub/identity-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Operators *handlers.OperatorHandler
	Staff     *handlers.StaffHandler
	Gate      *auth.Gate
}

// RegisterRoutes wires HTTP routes. The gate runs on every request and
// publishes a principal when a valid bearer token is present; role guards
// on individual routes enforce access.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users", cfg.Gate.Handle)

	operator := users.Group("/operator")
	operator.Post("/token", cfg.Operators.Login)
	operator.Post("", auth.RequireGlobalRole(domain.SystemRoleAdmin, domain.SystemRoleSupport), cfg.Operators.Create)
	operator.Patch("/:email/change-password", auth.RequireAuthenticated(), cfg.Operators.ChangePassword)
	operator.Get("/:email/general-info", auth.RequireAuthenticated(), cfg.Operators.GetGeneralInfo)
	operator.Patch("/:email/general-info", auth.RequireAuthenticated(), cfg.Operators.UpdateGeneralInfo)

	staff := users.Group("/staff")
	staff.Post("/token", cfg.Staff.Login)
	staff.Post("/no-company", cfg.Staff.RegisterWithoutCompany)
	staff.Post("/companies/:taxIdentificationNumber",
		auth.RequireCompanyRole(domain.CompanyRoleOwner, "taxIdentificationNumber"),
		cfg.Staff.RegisterWithCompany)
	staff.Patch("/:email/set-company", cfg.Staff.AssignCompany)
	staff.Post("/:email/companies/:taxIdentificationNumber/notify-code", cfg.Staff.NotifyActivationCode)
	staff.Post("/:email/notify-reset-password", cfg.Staff.NotifyResetPassword)
	staff.Post("/activate-code/:activationCode", cfg.Staff.Activate)
	staff.Patch("/:email/change-password", auth.RequireAuthenticated(), cfg.Staff.ChangePassword)
	staff.Patch("/:email/reset-password", cfg.Staff.ResetPassword)
	staff.Get("/:email/general-info", auth.RequireAuthenticated(), cfg.Staff.GetGeneralInfo)
	staff.Patch("/:email/general-info", auth.RequireAuthenticated(), cfg.Staff.UpdateGeneralInfo)
}
