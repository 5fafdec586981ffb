package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CreatorID uuid.UUID
	Handle    string
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to creators.
type AccessTokenClaims struct {
	CreatorID uuid.UUID `json:"creator_id"`
	Handle    string    `json:"handle,omitempty"`
	jwt.RegisteredClaims
}
