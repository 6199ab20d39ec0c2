package helpers

import "github.com/golang-jwt/jwt/v5"

type AdminClaims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (ac *AdminClaims) IsAdmin() bool {
	return ac.Role == AdminRole
}
