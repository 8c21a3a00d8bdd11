package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mastkeey/cb-cloud-service/model"
)

// ErrInvalidToken covers every structural or cryptographic failure:
// bad signature, wrong algorithm, malformed token, missing claims.
// The boundary turns it into a 401. It is never treated as "no
// credential was sent".
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates the signed, time-limited tokens
// that bind a request to a user.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttlMin int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMin) * time.Minute,
	}
}

// Generate signs a token carrying the user's ID and username. The
// token is stateless, nothing is persisted.
func (t *TokenService) Generate(u *model.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID.String(),
		"sub":     u.Username,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	})

	return token.SignedString(t.secret)
}

// Parse verifies the signature and signing method and returns the
// embedded claims. Expiry is NOT checked here so that IsExpired can
// inspect tokens that are already past their exp.
func (t *TokenService) Parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(tk *jwt.Token) (any, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tk.Method.Alg())
		}

		return t.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// UserID extracts the user_id claim as a UUID.
func (t *TokenService) UserID(tokenStr string) (uuid.UUID, error) {
	claims, err := t.Parse(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}

	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id claim", ErrInvalidToken)
	}

	return id, nil
}

// Username extracts the subject claim.
func (t *TokenService) Username(tokenStr string) (string, error) {
	claims, err := t.Parse(tokenStr)
	if err != nil {
		return "", err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	return sub, nil
}

// IsValid reports whether the token verifies and belongs to username.
func (t *TokenService) IsValid(tokenStr, username string) bool {
	sub, err := t.Username(tokenStr)
	if err != nil {
		return false
	}

	return sub == username
}

// IsExpired compares the embedded expiration with the current time.
// A token that can't be parsed counts as expired.
func (t *TokenService) IsExpired(tokenStr string) bool {
	claims, err := t.Parse(tokenStr)
	if err != nil {
		return true
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}

	return time.Now().Unix() >= int64(exp)
}
