// Package token issues and decodes the signed, expiring bearer tokens that
// carry a user's identity between requests. Tokens are HMAC-signed JWTs whose
// subject is the decimal form of the user's int64 id.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/crypto"
	"github.com/golang-jwt/jwt/v5"
)

// TypeBearer is the token_type reported to clients.
const TypeBearer = "bearer"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrInvalidSubject = errors.New("invalid token subject")
	ErrMissingSecret  = errors.New("signing secret is required")
)

// Config configures a Codec.
type Config struct {
	Secret    crypto.Secret
	Algorithm string
	TTL       time.Duration
	// Leeway tolerates clock skew when checking expiry. Zero means none.
	Leeway time.Duration
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Codec signs and verifies identity claims. It holds no mutable state and is
// safe for concurrent use.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret.IsZero() {
		return nil, ErrMissingSecret
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}

	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}

	return &Codec{
		secret: cfg.Secret.Bytes(),
		method: method,
		ttl:    cfg.TTL,
		leeway: cfg.Leeway,
		now:    time.Now,
	}, nil
}

// TTL reports how long issued tokens stay valid.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a token for subjectID that expires after the configured TTL.
func (c *Codec) Issue(subjectID int64) (Token, error) {
	if subjectID <= 0 {
		return Token{}, ErrInvalidSubject
	}

	now := c.now()
	expiresAt := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   formatSubject(subjectID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{
		AccessToken: signed,
		TokenType:   TypeBearer,
		ExpiresAt:   expiresAt.Truncate(time.Second),
	}, nil
}

// Decode verifies tokenString and returns its subject id.
//
// A correctly signed token whose expiry has passed yields ErrExpiredToken;
// every other failure (malformed, foreign signature, unexpected algorithm,
// missing or non-canonical subject) yields ErrInvalidToken.
func (c *Codec) Decode(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := parseSubject(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return id, nil
}

func formatSubject(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseSubject only accepts the exact form produced by formatSubject, so a
// subject cannot change representation between issue and lookup.
func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 || formatSubject(id) != sub {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubject, sub)
	}
	return id, nil
}
