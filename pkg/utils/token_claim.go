package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role values carried in the user_role JWT claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func parseBearer(authHeader string) (jwt.MapClaims, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("missing or invalid Authorization header")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT secret not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil })
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ExtractUserIDFromHeader parses an Authorization header (Bearer <token>)
// and returns the user_id UUID from the JWT claims.
func ExtractUserIDFromHeader(authHeader string) (uuid.UUID, error) {
	claims, err := parseBearer(authHeader)
	if err != nil {
		return uuid.Nil, err
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid token payload")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id in token")
	}
	return userID, nil
}

// ExtractUserRoleFromHeader returns the user_role claim. Used only to gate
// the admin surface; offer-level buyer/seller roles are always re-derived
// from the stored offer, never from the token.
func ExtractUserRoleFromHeader(authHeader string) (string, error) {
	claims, err := parseBearer(authHeader)
	if err != nil {
		return "", err
	}
	role, ok := claims["user_role"].(string)
	if !ok || role == "" {
		return "", errors.New("invalid token payload")
	}
	return role, nil
}
