package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/inmohub/identity-service/internal/domain"
)

const bearerPrefix = "Bearer "

// tokenParts is the number of dot-separated segments of a structurally
// sound JWT.
const tokenParts = 3

// TokenManager issues and verifies RSA-signed bearer tokens. It is
// stateless beyond the immutable keypair and safe for concurrent use.
type TokenManager struct {
	keys   KeyProvider
	issuer string
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(keys KeyProvider, issuer string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{keys: keys, issuer: issuer, ttl: ttl}
}

// Claims describes the token payload. Exactly one of Role or CompanyRoles
// is present: Role for operators, CompanyRoles (tenant id to role name) for
// staff.
type Claims struct {
	User         string            `json:"user"`
	Name         string            `json:"name"`
	Role         string            `json:"role,omitempty"`
	CompanyRoles map[string]string `json:"companyRoles,omitempty"`
	jwt.RegisteredClaims
}

// CreateToken signs a token carrying a single global role claim.
func (tm *TokenManager) CreateToken(user, name string, role domain.SystemRole) (string, error) {
	claims := &Claims{
		User: user,
		Name: name,
		Role: string(role),
	}
	return tm.sign(claims)
}

// CreateCompanyToken signs a token carrying a tenant-to-role claim built
// from the subject's active memberships.
func (tm *TokenManager) CreateCompanyToken(user, name string, companyRoles map[string]string) (string, error) {
	claims := &Claims{
		User:         user,
		Name:         name,
		CompanyRoles: companyRoles,
	}
	return tm.sign(claims)
}

func (tm *TokenManager) sign(claims *Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tm.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(tm.keys.PrivateKey())
}

// ExtractBearer returns the token from an Authorization header value, or
// empty when the value is not a Bearer token with exactly three segments.
// The segment count is a structural sanity check only.
func (tm *TokenManager) ExtractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	token := header[len(bearerPrefix):]
	if len(strings.Split(token, ".")) != tokenParts {
		return ""
	}
	return token
}

// Verify checks signature, issuer, expiry and not-before. Every failure
// collapses to ok=false; callers only decide authenticated or not.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, bool) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.keys.PublicKey(), nil
	}, jwt.WithIssuer(tm.issuer))
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, false
	}
	return claims, true
}

// Subject returns the user claim, or empty when verification fails.
func (tm *TokenManager) Subject(tokenStr string) string {
	if claims, ok := tm.Verify(tokenStr); ok {
		return claims.User
	}
	return ""
}

// Name returns the name claim, or empty when verification fails.
func (tm *TokenManager) Name(tokenStr string) string {
	if claims, ok := tm.Verify(tokenStr); ok {
		return claims.Name
	}
	return ""
}

// GlobalRole returns the single role claim, or empty when verification
// fails or the token carries company roles instead.
func (tm *TokenManager) GlobalRole(tokenStr string) string {
	if claims, ok := tm.Verify(tokenStr); ok {
		return claims.Role
	}
	return ""
}

// CompanyRoles returns the tenant-to-role claim, or nil when verification
// fails or the token carries a global role instead.
func (tm *TokenManager) CompanyRoles(tokenStr string) map[string]string {
	if claims, ok := tm.Verify(tokenStr); ok {
		return claims.CompanyRoles
	}
	return nil
}
