package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inmohub/identity-service/internal/domain"
	apperrors "github.com/inmohub/identity-service/pkg/util"
)

// HasGlobalRole reports whether the authority set grants the system-wide
// role. Pure function, no I/O.
func HasGlobalRole(authorities []string, role domain.SystemRole) bool {
	want := GlobalAuthority(string(role))
	for _, authority := range authorities {
		if authority == want {
			return true
		}
	}
	return false
}

// HasCompanyRole reports whether the authority set grants the role within
// the given company. Matches the exact (tenant, role) pair.
func HasCompanyRole(authorities []string, role domain.CompanyRole, taxIdentificationNumber string) bool {
	want := CompanyAuthority(taxIdentificationNumber, string(role))
	for _, authority := range authorities {
		if authority == want {
			return true
		}
	}
	return false
}

// RequireAuthenticated rejects requests without a verified token.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !PrincipalFromContext(c).Authenticated() {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireGlobalRole rejects callers lacking any of the given system roles.
func RequireGlobalRole(roles ...domain.SystemRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		for _, role := range roles {
			if HasGlobalRole(principal.Authorities, role) {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// RequireCompanyRole rejects callers lacking the role for the company named
// by the given route parameter.
func RequireCompanyRole(role domain.CompanyRole, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		if HasCompanyRole(principal.Authorities, role, c.Params(param)) {
			return c.Next()
		}
		return apperrors.NewForbidden("insufficient role for company")
	}
}
