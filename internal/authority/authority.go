// Package authority issues and validates the JWTs that gate admin-only
// surface operations, carrying the admin/base role claim that mirrors the
// two DB roles (traits_admin / traits_base) the schema grants; which DB
// handle serves a route is wired in cmd/traitsctl. Adapted from the
// teacher's pkg/jwt/jwt.go (HMAC signing, RegisteredClaims, validateToken
// shape), collapsed from its access/refresh pair down to a single role
// claim since Traits has no end-user session concept of its own.
package authority

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Role identifies which schema-granted DB role a request is authorized as.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleBase  Role = "base"
)

// Claims carries the authorized role through the request lifecycle.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates role-bearing JWTs, and checks the bootstrap
// admin credential.
type Service struct {
	secret            string
	tokenExpiry       time.Duration
	bootstrapEmail    string
	bootstrapHashed   string
}

// NewService builds an authority Service. bootstrapEmail/bootstrapHash
// come from config.SecurityConfig and gate the one privileged login route
// that mints admin-role tokens.
func NewService(secret string, tokenExpiry time.Duration, bootstrapEmail, bootstrapHash string) *Service {
	return &Service{
		secret:          secret,
		tokenExpiry:     tokenExpiry,
		bootstrapEmail:  bootstrapEmail,
		bootstrapHashed: bootstrapHash,
	}
}

// CheckBootstrapAdmin verifies email/password against the configured
// bootstrap admin credential.
func (s *Service) CheckBootstrapAdmin(email, password string) bool {
	if email != s.bootstrapEmail {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.bootstrapHashed), []byte(password)) == nil
}

// IssueToken mints a signed JWT carrying role.
func (s *Service) IssueToken(role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "traits-core",
			Subject:   string(role),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its Claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Role != RoleAdmin && claims.Role != RoleBase {
		return nil, fmt.Errorf("invalid role claim: %q", claims.Role)
	}
	return claims, nil
}

// HashPassword is the bcrypt helper used by cmd/traitsctl's bootstrap-admin
// command to produce the configured BOOTSTRAP_ADMIN_HASH value.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
