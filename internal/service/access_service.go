package service

import (
	"errors"
	"hiroonarita/practice-planner/internal/domain"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- Error Definitions ---
var (
	ErrInvalidRole      = errors.New("role must be coach or player")
	ErrKeyGeneration    = errors.New("failed to generate access key")
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrAccessKeyExpired = errors.New("access key has expired")
)

const accessKeyIssuer = "practice-planner"

// AccessService mints and verifies store access keys. A key is an HS256 JWT
// carrying the role it grants; there are no user accounts.
type AccessService interface {
	MintKey(role domain.Role, label string) (string, error)
	ParseKey(key string) (*AccessClaims, error)
}

// AccessClaims defines the structure of the access key payload.
type AccessClaims struct {
	Role  domain.Role `json:"role"`
	Label string      `json:"label,omitempty"` // Free text, e.g. the device or coach it was issued to
	jwt.RegisteredClaims
}

type accessService struct {
	secret     []byte
	expiration time.Duration
}

// NewAccessService creates an AccessService signing with secret. A zero
// expiration mints keys that never expire.
func NewAccessService(secret string, expiration time.Duration) AccessService {
	return &accessService{secret: []byte(secret), expiration: expiration}
}

// MintKey creates a signed access key for role.
func (s *accessService) MintKey(role domain.Role, label string) (string, error) {
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	now := time.Now()
	claims := &AccessClaims{
		Role:  role,
		Label: label,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  string(role),
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   accessKeyIssuer,
		},
	}
	if s.expiration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", ErrKeyGeneration
	}
	return signed, nil
}

// ParseKey verifies a key's signature, expiry and role.
func (s *accessService) ParseKey(key string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(key, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessKey
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAccessKeyExpired
		}
		return nil, ErrInvalidAccessKey
	}
	if !token.Valid || !claims.Role.Valid() || claims.Issuer != accessKeyIssuer {
		return nil, ErrInvalidAccessKey
	}
	return claims, nil
}
