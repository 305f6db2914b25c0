package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/krishisahayak/internal/common"
	"github.com/dmitrijs2005/krishisahayak/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: the user identity plus the standard
// registered claims (exp, iat, jti).
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// now is swapped in tests.
var now = time.Now

// GenerateToken signs an HS256 session token for id valid for validityDuration.
func GenerateToken(id models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}

	issued := now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validityDuration)),
		},
		UserID: id.ID,
		Name:   id.Name,
		Email:  id.Email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// identity it carries. Expired tokens yield common.ErrTokenExpired, tokens
// without a user id common.ErrNoUserID, anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, common.ErrTokenExpired
		}
		return models.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return models.Identity{}, common.ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return models.Identity{}, common.ErrNoUserID
	}

	return models.Identity{ID: claims.UserID, Name: claims.Name, Email: claims.Email}, nil
}
