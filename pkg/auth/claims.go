package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	PrincipalID uint
	Kind        enums.PrincipalKind
	// StoreID is set for customer tokens so a storefront session cannot cross stores.
	StoreID *uint
}

// Claims represents the typed JWT issued to clients.
type Claims struct {
	PrincipalID uint                `json:"id"`
	Kind        enums.PrincipalKind `json:"kind"`
	StoreID     *uint               `json:"store_id,omitempty"`
	Use         string              `json:"use"`
	jwt.RegisteredClaims
}
