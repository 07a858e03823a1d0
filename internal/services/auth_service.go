package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/repos"
)

// Claims is what a bearer token asserts: which account, which customer
// it belongs to, and the role for scope checks.
type Claims struct {
	AccountID  string `json:"account_id"`
	CustomerID string `json:"customer_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Accounts *repos.AccountRepo
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthService(accounts *repos.AccountRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Accounts: accounts, Secret: []byte(secret), TokenTTL: ttl}
}

// Login checks credentials and mints a signed token. Failures are
// deliberately indistinguishable: unknown username, wrong password and
// disabled account all answer the same Unauthorized.
func (s *AuthService) Login(username, password string) (string, time.Time, error) {
	badCreds := apperr.Unauthorized("invalid username or password")

	a, err := s.Accounts.ByUsername(username)
	if err != nil {
		return "", time.Time{}, badCreds
	}
	if !a.Active {
		return "", time.Time{}, badCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return "", time.Time{}, badCreds
	}

	now := time.Now()
	expires := now.Add(s.TokenTTL)
	claims := Claims{
		AccountID:  a.ID,
		CustomerID: a.CustomerID,
		Role:       a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, apperr.Internal("could not sign token", err)
	}
	return token, expires, nil
}

// Verify validates a token's signature and expiry and returns its
// claims. There is no revocation list; tokens die by expiry alone.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorized("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}
	return claims, nil
}
