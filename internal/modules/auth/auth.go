package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Claims is the JWT payload. PlatformAdmin is carried explicitly so the
// permission evaluator never has to special-case an identity.
type Claims struct {
	PlatformAdmin bool `json:"platform_admin"`
	jwt.StandardClaims
}
