package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the validated identity attached to authenticated requests.
type AccessTokenClaims struct {
	UserID   uuid.UUID  `json:"uid"`
	SellerID *uuid.UUID `json:"sid,omitempty"`
	Role     string     `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenPayload carries the fields minted into a new access token.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	SellerID *uuid.UUID
	Role     string
	JTI      string
}
