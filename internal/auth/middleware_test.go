package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmohub/identity-service/internal/domain"
	apperrors "github.com/inmohub/identity-service/pkg/util"
)

// newGateApp builds a fiber app with the gate installed globally and an
// error handler that maps domain errors to their HTTP status.
func newGateApp(tm *TokenManager, routes func(app *fiber.App)) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error":   domainErr.Code,
				"message": domainErr.Message,
				"code":    domainErr.HTTPStatus,
			})
		},
	})
	app.Use(NewGate(tm).Handle)
	routes(app)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGate_PublishesOperatorAuthorities(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	var seen *Principal
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/whoami", func(c *fiber.Ctx) error {
			seen = PrincipalFromContext(c)
			return c.SendStatus(fiber.StatusOK)
		})
	})

	token, err := tm.CreateToken("admin@example.com", "Ada", domain.SystemRoleAdmin)
	require.NoError(t, err)

	resp := doGet(t, app, "/whoami", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, seen)
	assert.True(t, seen.Authenticated())
	assert.Equal(t, "admin@example.com", seen.Subject)
	assert.Equal(t, []string{"ROLE_ADMIN"}, seen.Authorities)
}

func TestGate_PublishesCompanyAuthorities(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	var seen *Principal
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/whoami", func(c *fiber.Ctx) error {
			seen = PrincipalFromContext(c)
			return c.SendStatus(fiber.StatusOK)
		})
	})

	token, err := tm.CreateCompanyToken("staff@example.com", "Grace", map[string]string{"B12345678": "OWNER"})
	require.NoError(t, err)

	resp := doGet(t, app, "/whoami", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, seen)
	assert.Equal(t, []string{"ROLE_B12345678_OWNER"}, seen.Authorities)
}

func TestGate_InvalidTokenYieldsEmptyPrincipal(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	var seen *Principal
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/open", func(c *fiber.Ctx) error {
			seen = PrincipalFromContext(c)
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doGet(t, app, "/open", "Bearer aaa.bbb.ccc")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, seen)
	assert.False(t, seen.Authenticated())
	assert.Empty(t, seen.Authorities)
}

func TestRequireAuthenticated_RejectsAnonymous(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/private", RequireAuthenticated(), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	resp := doGet(t, app, "/private", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireGlobalRole(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/admin", RequireGlobalRole(domain.SystemRoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	})

	adminToken, err := tm.CreateToken("admin@example.com", "Ada", domain.SystemRoleAdmin)
	require.NoError(t, err)
	supportToken, err := tm.CreateToken("support@example.com", "Sam", domain.SystemRoleSupport)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/admin", "Bearer "+adminToken).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, doGet(t, app, "/admin", "Bearer "+supportToken).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, doGet(t, app, "/admin", "").StatusCode)
}

func TestRequireCompanyRole_MatchesRouteParam(t *testing.T) {
	tm := NewTokenManager(testKeys(t), "identity-service", time.Hour)
	app := newGateApp(tm, func(app *fiber.App) {
		app.Get("/companies/:taxIdentificationNumber",
			RequireCompanyRole(domain.CompanyRoleOwner, "taxIdentificationNumber"),
			func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
	})

	token, err := tm.CreateCompanyToken("staff@example.com", "Grace", map[string]string{"B12345678": "OWNER"})
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, doGet(t, app, "/companies/B12345678", "Bearer "+token).StatusCode)
	assert.Equal(t, fiber.StatusForbidden, doGet(t, app, "/companies/B99999999", "Bearer "+token).StatusCode)
}

func TestHasCompanyRole_ExactMatchOnly(t *testing.T) {
	authorities := []string{"ROLE_B12345678_OWNER"}

	assert.True(t, HasCompanyRole(authorities, domain.CompanyRoleOwner, "B12345678"))
	assert.False(t, HasCompanyRole(authorities, domain.CompanyRoleAgent, "B12345678"))
	assert.False(t, HasCompanyRole(authorities, domain.CompanyRoleOwner, "B1234567"))
	assert.False(t, HasGlobalRole(authorities, domain.SystemRoleAdmin))
}
