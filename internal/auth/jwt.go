package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
	Username     string `json:"username"`
	FullName     string `json:"fullName,omitempty"`
	Role         string `json:"role"`
	OwnerID      *int64 `json:"ownerId,omitempty"`
	PermissionID int    `json:"permissionId,omitempty"`
}

// Tokens issues and verifies the HS256 bearer tokens the dashboard uses.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Username:     id.Username,
		FullName:     id.FullName,
		Role:         string(id.Role),
		OwnerID:      id.OwnerID,
		PermissionID: id.PermissionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Verify(token string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid {
		return Identity{}, jwt.ErrTokenUnverifiable
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("bad subject claim: %w", err)
	}
	return Identity{
		AccountID:    accountID,
		Username:     claims.Username,
		FullName:     claims.FullName,
		Role:         Role(claims.Role),
		OwnerID:      claims.OwnerID,
		PermissionID: claims.PermissionID,
	}, nil
}
