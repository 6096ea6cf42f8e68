// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/Kitsune/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// TokenService handles JWT session token generation and validation
type TokenService interface {
	IssueToken(userID uint, phoneNumber string) (token string, claims *SessionClaims, err error)
	ValidateToken(token string) (*SessionClaims, error)
	RefreshToken(token string) (newToken string, claims *SessionClaims, err error)
}

// SessionClaims represents the claims in a session JWT
type SessionClaims struct {
	UserID      uint      `json:"user_id"`
	PhoneNumber string    `json:"phone_number"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenID     string    `json:"jti"`
}

// TokenServiceImpl implements TokenService
type TokenServiceImpl struct {
	tokenTTL  time.Duration
	secretKey []byte
	issuer    string
	audience  string
}

// NewTokenService creates a new token service
func NewTokenService(tokenTTL time.Duration, issuer, audience, secretKey string) (TokenService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}

	return &TokenServiceImpl{
		tokenTTL:  tokenTTL,
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
	}, nil
}

// IssueToken generates a session token for a verified staff member
func (s *TokenServiceImpl) IssueToken(userID uint, phoneNumber string) (string, *SessionClaims, error) {
	now := utils.UTCNow()
	tokenID := uuid.New().String()

	expiresAt := now.Add(s.tokenTTL)
	mapClaims := jwt.MapClaims{
		"user_id":      userID,
		"phone_number": phoneNumber,
		"jti":          tokenID,
		"iat":          now.Unix(),
		"exp":          expiresAt.Unix(),
		"iss":          s.issuer,
		"aud":          s.audience,
	}

	token, err := s.generateToken(mapClaims)
	if err != nil {
		return "", nil, err
	}

	return token, &SessionClaims{
		UserID:      userID,
		PhoneNumber: phoneNumber,
		TokenID:     tokenID,
		IssuedAt:    now,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateToken validates a session JWT and returns claims
func (s *TokenServiceImpl) ValidateToken(token string) (*SessionClaims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !parsedToken.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	// Extract claims
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	phoneNumber, ok := claims["phone_number"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	tokenID, ok := claims["jti"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	issuedAt, ok := claims["iat"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	expiresAt, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}

	// Check if token has expired
	if utils.UTCNow().After(time.Unix(int64(expiresAt), 0)) {
		return nil, ErrTokenExpired
	}

	return &SessionClaims{
		UserID:      uint(userID),
		PhoneNumber: phoneNumber,
		TokenID:     tokenID,
		IssuedAt:    time.Unix(int64(issuedAt), 0),
		ExpiresAt:   time.Unix(int64(expiresAt), 0),
	}, nil
}

// RefreshToken issues a fresh session token from a still-valid one
func (s *TokenServiceImpl) RefreshToken(token string) (string, *SessionClaims, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return "", nil, err
	}

	return s.IssueToken(claims.UserID, claims.PhoneNumber)
}

// generateToken creates a signed JWT token
func (s *TokenServiceImpl) generateToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}

	return signedString, nil
}
