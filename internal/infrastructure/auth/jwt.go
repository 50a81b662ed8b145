package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in access tokens
const (
	RoleAdmin       = "admin"
	RoleArchivist   = "archivist"
	RoleReadingRoom = "reading_room"
)

// KnownRoles lists every role a token may carry
var KnownRoles = []string{RoleAdmin, RoleArchivist, RoleReadingRoom}

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrUnknownRole      = errors.New("unknown role")
	ErrTokenBlacklisted = errors.New("token has been revoked")
)

// Claims represents the AMS access token claims
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	// Service marks tokens minted for automation rather than a person
	Service bool `json:"service,omitempty"`
}

// Token is a signed access token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
	ID          string    `json:"jti"`
}

// JWTService signs and validates access tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	Subject  string
	Username string
	Roles    []string
	Service  bool
	// TTL overrides the configured access token lifetime
	TTL time.Duration
}

// GenerateToken signs an access token
func (s *JWTService) GenerateToken(input GenerateTokenInput) (*Token, error) {
	if input.Subject == "" {
		return nil, ErrMissingSubject
	}
	for _, r := range input.Roles {
		if !slices.Contains(KnownRoles, r) {
			return nil, ErrUnknownRole
		}
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.expiration
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.Subject,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: input.Username,
		Roles:    input.Roles,
		Service:  input.Service,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{
		AccessToken: signed,
		ExpiresAt:   claims.ExpiresAt.Time,
		TokenType:   "Bearer",
		ID:          claims.ID,
	}, nil
}

// ValidateToken validates an access token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// HasRole reports whether the claims carry any of the roles. Admins pass every check.
func (c *Claims) HasRole(roles ...string) bool {
	if slices.Contains(c.Roles, RoleAdmin) {
		return true
	}
	for _, r := range roles {
		if slices.Contains(c.Roles, r) {
			return true
		}
	}
	return false
}

// GetIssuedAtTime returns the issued at time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// GetRemainingTTL returns how long the token stays valid
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if remaining := time.Until(c.ExpiresAt.Time); remaining > 0 {
		return remaining
	}
	return 0
}

// Expiration returns the configured access token lifetime
func (s *JWTService) Expiration() time.Duration {
	return s.expiration
}
