package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secretKey = []byte("development_secret")

// SetSecret overrides the signing key, called once from server wiring
// with the configured JWT_SECRET.
func SetSecret(secret string) {
	if secret != "" {
		secretKey = []byte(secret)
	}
}

type jwtUserDataClaims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

func CreateToken(id int, username string) (string, error) {
	claims := jwtUserDataClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		UserID:   id,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// BearerClaims validates the token carried in an Authorization header
// of the form "Bearer <token>".
func BearerClaims(header string) (*jwtUserDataClaims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errors.New("missing bearer token")
	}
	return ValidateToken(strings.TrimPrefix(header, prefix))
}

func ValidateToken(tokenString string) (*jwtUserDataClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtUserDataClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*jwtUserDataClaims)
	if !ok {
		return nil, errors.New("could not parse claims")
	}

	return claims, nil
}
