package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims isi JWT: ID user, role (cuma hint buat client) dan jti = ID session.
type Claims struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("token tidak valid")

// GenerateToken membuat JWT HS256 untuk satu session.
func GenerateToken(secret []byte, userID uint64, role, sessionID string, expiresAt time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    "sairaklin",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken memverifikasi tanda tangan + masa berlaku token.
// Token yang sudah expired tetap ditolak.
func ParseToken(secret []byte, encodedToken string) (*Claims, error) {
	return parse(secret, encodedToken)
}

// ParseTokenIgnoringExpiry dipakai logout: token expired boleh di-revoke
// asal tanda tangannya valid.
func ParseTokenIgnoringExpiry(secret []byte, encodedToken string) (*Claims, error) {
	return parse(secret, encodedToken, jwt.WithoutClaimsValidation())
}

func parse(secret []byte, encodedToken string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(encodedToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validasi algoritma enkripsi (harus HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
