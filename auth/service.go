package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/provider"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer identifies tokens minted by this service.
	Issuer = "snapdetect"
	// CookieName is the session cookie carrying the JWT.
	CookieName = "JWT"
	// TokenTTL is the session token lifetime.
	TokenTTL = 24 * time.Hour
	// CookieTTL is the session cookie lifetime.
	CookieTTL = 7 * 24 * time.Hour
)

// Global auth service instance
var authService *auth.Service

// Setup initializes the token service used for session cookies. The
// credential checker is the login path's source of truth (the users table).
func Setup(secret, appURL string, checker provider.CredChecker) *auth.Service {
	options := auth.Opts{
		SecretReader: token.SecretFunc(func(id string) (string, error) {
			return secret, nil
		}),
		TokenDuration:  TokenTTL,
		CookieDuration: CookieTTL,
		Issuer:         Issuer,
		URL:            appURL,
		AvatarStore:    avatar.NewLocalFS("/tmp/avatars"),
	}

	service := auth.NewService(options)
	service.AddDirectProvider("local", checker)

	authService = service
	return service
}

// Get returns the auth service instance.
func Get() *auth.Service {
	return authService
}

// IssueToken mints a session JWT for the given user.
func IssueToken(userID uint, username string) (string, error) {
	now := time.Now()
	claims := token.Claims{
		User: &token.User{
			ID:   strconv.FormatUint(uint64(userID), 10),
			Name: username,
			Attributes: map[string]interface{}{
				"username": username,
			},
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  []string{Issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return authService.TokenService().Token(claims)
}

// ParseToken validates a session JWT and returns the user id it carries.
func ParseToken(tokenStr string) (uint, error) {
	claims, err := authService.TokenService().Parse(tokenStr)
	if err != nil {
		return 0, err
	}
	if claims.User == nil {
		return 0, fmt.Errorf("token has no user")
	}
	id, err := strconv.ParseUint(claims.User.ID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token: %w", err)
	}
	return uint(id), nil
}
