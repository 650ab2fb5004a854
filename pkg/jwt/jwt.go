package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token emitidos por la aplicación.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Se añade Role para que el middleware RBAC pueda tomar decisiones sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`       // "admin" | "staff"
	TokenType string `json:"token_type"` // "access" | "refresh"
}

// GenerateAccessToken genera un access token firmado de vida corta.
func GenerateAccessToken(secret string, userID int64, role, issuer string, expMinutes int) (string, error) {
	return generate(secret, userID, role, issuer, TokenTypeAccess, expMinutes)
}

// GenerateRefreshToken genera un refresh token firmado con jti propio para rotación.
func GenerateRefreshToken(secret string, userID int64, role, issuer string, expMinutes int) (string, error) {
	return generate(secret, userID, role, issuer, TokenTypeRefresh, expMinutes)
}

func generate(secret string, userID int64, role, issuer, tokenType string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken valida un access token y devuelve userID y role.
func ParseAccessToken(secret, tokenString string) (userID int64, role string, err error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return 0, "", err
	}
	if claims.TokenType != TokenTypeAccess {
		return 0, "", fmt.Errorf("jwt: no es un access token")
	}
	return claims.UserID, claims.Role, nil
}

// ParseRefreshToken valida un refresh token y devuelve userID y role.
func ParseRefreshToken(secret, tokenString string) (userID int64, role string, err error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return 0, "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return 0, "", fmt.Errorf("jwt: no es un refresh token")
	}
	return claims.UserID, claims.Role, nil
}

// parse valida firma y expiración. Retorna error si el token es inválido, expirado o con firma incorrecta.
func parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
