package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the bearer-token claims issued by the identity service.
// The subject is the owner id.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}
