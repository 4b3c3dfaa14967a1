package identity

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail to parse or verify.
var ErrInvalidToken = errors.New("invalid or expired session token")

const usernameClaim = "username"

// Tokens signs and verifies the session tokens handed to guests. A token only
// proves which guest name the server issued; it grants nothing else.
type Tokens struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// NewTokens creates an HS256 token issuer.
func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), Issuer: issuer, TTL: ttl, Now: time.Now}
}

// Issue returns a signed token carrying username.
func (t *Tokens) Issue(username string) (string, error) {
	now := t.Now()
	claims := jwt.MapClaims{
		usernameClaim: username,
		"iat":         now.Unix(),
		"exp":         now.Add(t.TTL).Unix(),
		"iss":         t.Issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// Parse verifies tokenString and returns the guest name in it.
func (t *Tokens) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (any, error) {
			return t.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.Now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	username, _ := claims[usernameClaim].(string)
	if username == "" {
		return "", fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	return username, nil
}
