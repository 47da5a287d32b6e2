package auth

import (
	"github.com/gofiber/fiber/v2"
)

const principalKey = "auth_principal"

// RolePrefix prefixes every derived authority string.
const RolePrefix = "ROLE_"

// Principal is the authenticated caller published into request state. An
// invalid or absent token yields a principal with no subject and no
// authorities; rejection is a downstream authorization concern.
type Principal struct {
	Subject     string
	Token       string
	Authorities []string
}

// Authenticated reports whether a verified token backed this principal.
func (p *Principal) Authenticated() bool {
	return p != nil && p.Subject != ""
}

// GlobalAuthority formats the authority string for a system-wide role.
func GlobalAuthority(role string) string {
	return RolePrefix + role
}

// CompanyAuthority formats the authority string for a (tenant, role) pair.
func CompanyAuthority(taxIdentificationNumber, role string) string {
	return RolePrefix + taxIdentificationNumber + "_" + role
}

// Gate verifies bearer tokens once per request and derives authorities for
// downstream authorization checks.
type Gate struct {
	tokens *TokenManager
}

// NewGate constructs the authentication gate.
func NewGate(tokens *TokenManager) *Gate {
	return &Gate{tokens: tokens}
}

// Handle extracts and verifies the bearer token, publishes the principal,
// and continues the pipeline regardless of outcome.
func (g *Gate) Handle(c *fiber.Ctx) error {
	principal := &Principal{}

	token := g.tokens.ExtractBearer(c.Get(fiber.HeaderAuthorization))
	if token != "" {
		if claims, ok := g.tokens.Verify(token); ok {
			principal.Subject = claims.User
			principal.Token = token
			if claims.Role != "" {
				principal.Authorities = append(principal.Authorities, GlobalAuthority(claims.Role))
			}
			for company, role := range claims.CompanyRoles {
				principal.Authorities = append(principal.Authorities, CompanyAuthority(company, role))
			}
		}
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the principal published by the gate.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	if val, ok := c.Locals(principalKey).(*Principal); ok {
		return val
	}
	return &Principal{}
}
