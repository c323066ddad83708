package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims describes access tokens accepted by the dashboard routes. Tokens
// are minted by the external identity service, never by this API.
type JWTClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
