package service

//go:generate mockgen -destination=../../mocks/mock_token_issuer.go -package=mocks github.com/stellarhive/account-service/internal/account/service TokenIssuer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/stellarhive/account-service/internal/errors"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeEmail   = "email"
)

type TokenIssuer interface {
	IssueAccessToken(userID int64) (string, error)
	IssueRefreshToken(userID int64) (string, error)
	IssueEmailToken(email string) (string, error)
	VerifyUserID(tokenString, tokenType string) (int64, error)
	VerifyEmail(tokenString string) (string, error)
	RefreshTokenTTL() time.Duration
}

// TokenService signs and verifies the three token classes with a single
// process-wide secret. Verification is stateless; nothing is persisted, so a
// token stays valid until its exp regardless of later account changes.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

// TokenClaims carries the subject in user_id: a numeric account id for access
// and refresh tokens, the email address string for email-action tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    any    `json:"user_id"`
	TokenType string `json:"token_type"`
}

func NewTokenService(secret string, accessMinutes, refreshMinutes, emailHours int) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshMinutes) * time.Minute,
		emailTTL:   time.Duration(emailHours) * time.Hour,
	}
}

func (ts *TokenService) IssueAccessToken(userID int64) (string, error) {
	return ts.IssueAccessTokenTTL(userID, ts.accessTTL)
}

func (ts *TokenService) IssueAccessTokenTTL(userID int64, ttl time.Duration) (string, error) {
	claims := TokenClaims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	return ts.sign(claims)
}

func (ts *TokenService) IssueRefreshToken(userID int64) (string, error) {
	claims := TokenClaims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ts.refreshTTL)),
		},
	}

	return ts.sign(claims)
}

func (ts *TokenService) IssueEmailToken(email string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    email,
		TokenType: TokenTypeEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.emailTTL)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return ts.sign(claims)
}

// VerifyUserID checks the token and returns the numeric subject. Any failure
// (bad signature, malformed, expired, wrong type, non-numeric subject)
// collapses to ErrInvalidToken so the caller leaks nothing.
func (ts *TokenService) VerifyUserID(tokenString, tokenType string) (int64, error) {
	claims, err := ts.verify(tokenString, tokenType)
	if err != nil {
		return 0, err
	}

	// user_id round-trips through JSON as a float64.
	id, ok := claims.UserID.(float64)
	if !ok {
		return 0, apperrors.ErrInvalidToken
	}

	return int64(id), nil
}

// VerifyEmail checks an email-action token and returns its email subject.
func (ts *TokenService) VerifyEmail(tokenString string) (string, error) {
	claims, err := ts.verify(tokenString, TokenTypeEmail)
	if err != nil {
		return "", err
	}

	email, ok := claims.UserID.(string)
	if !ok {
		return "", apperrors.ErrInvalidToken
	}

	return email, nil
}

func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.refreshTTL
}

func (ts *TokenService) sign(claims TokenClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

func (ts *TokenService) verify(tokenString, tokenType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.TokenType != tokenType {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
