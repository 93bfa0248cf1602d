// Package auth issues and validates the bearer tokens of the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/showring/backend/internal/infrastructure/config"
)

// Role is the caller's role inside their organisation
type Role string

const (
	RoleExhibitor Role = "exhibitor"
	RoleSecretary Role = "secretary"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleExhibitor || r == RoleSecretary
}

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrInvalidRole      = errors.New("unknown role in claims")
)

// Claims are the custom JWT claims. OrganisationID is empty for exhibitors
// who do not belong to a show society.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"user_id"`
	OrganisationID string `json:"organisation_id,omitempty"`
	Role           Role   `json:"role"`
}

// UserUUID parses the user id
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// OrganisationUUID parses the organisation id; uuid.Nil when absent
func (c *Claims) OrganisationUUID() (uuid.UUID, error) {
	if c.OrganisationID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.OrganisationID)
}

// Identity is the caller a token names
type Identity struct {
	UserID         uuid.UUID
	OrganisationID uuid.UUID
	Role           Role
}

// IsSecretary reports whether the caller acts for a show society
func (i Identity) IsSecretary() bool {
	return i.Role == RoleSecretary
}

// JWTService signs and validates HS256 access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	exp := cfg.AccessTokenExpiration
	if exp <= 0 {
		exp = time.Hour
	}
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: exp,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// Issue signs a token for id. Returns the token and its expiry.
func (s *JWTService) Issue(id Identity) (string, time.Time, error) {
	if !id.Role.IsValid() {
		return "", time.Time{}, ErrInvalidRole
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   id.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: id.UserID.String(),
		Role:   id.Role,
	}
	if id.OrganisationID != uuid.Nil {
		claims.OrganisationID = id.OrganisationID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if !claims.Role.IsValid() {
		return nil, ErrInvalidRole
	}
	return claims, nil
}

// Identify validates a token and resolves its identity
func (s *JWTService) Identify(tokenString string) (Identity, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return Identity{}, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}
	orgID, err := claims.OrganisationUUID()
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}
	return Identity{UserID: userID, OrganisationID: orgID, Role: claims.Role}, nil
}
