// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and access policy.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, bearer
// token signing, the role → scope table) from domain logic. Everything here
// is constructed once at startup and shared read-only across requests.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// # Verification Failures

var (
	// ErrMalformed means the token could not be decoded into a claim set.
	ErrMalformed = errors.New("token is malformed")

	// ErrInvalidSignature means the signature does not cover the presented claims.
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrExpired means the current time is at or past the token's expiry.
	ErrExpired = errors.New("token has expired")

	// ErrInvalidTTL is returned when issuing a token without a positive lifetime.
	ErrInvalidTTL = errors.New("token ttl must be positive")
)

// supportedMethods lists the HMAC algorithms accepted for JWT_ALGORITHM.
var supportedMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// AccessClaims is the payload embedded in an access token.
type AccessClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// VerifiedToken is the decoded content of a token that passed every check.
type VerifiedToken struct {
	ID        string
	Subject   string
	Scopes    ScopeSet
	ExpiresAt time.Time
}

// # Codec

// TokenCodec issues and verifies HMAC-signed, time-bounded access tokens.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customises a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the wall clock, mainly for expiry tests.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) {
		codec.now = now
	}
}

// SupportsAlgorithm reports whether algorithm can be used by [NewTokenCodec].
func SupportsAlgorithm(algorithm string) bool {
	_, ok := supportedMethods[algorithm]
	return ok
}

// NewTokenCodec creates a codec bound to one secret, algorithm and issuer.
func NewTokenCodec(secret []byte, algorithm, issuer string, options ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: token secret must not be empty")
	}

	method, ok := supportedMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	codec := &TokenCodec{
		secret: secret,
		method: method,
		issuer: issuer,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}

	// Only the configured algorithm is accepted; "none" and algorithm
	// confusion attempts fail the method check inside the parser.
	codec.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return codec.now() }),
	)

	return codec, nil
}

// Issue signs a token for subject carrying scopes and expiring after ttl.
//
// The returned expiry is the exact instant encoded in the token (second
// precision).
func (codec *TokenCodec) Issue(subject string, scopes ScopeSet, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("sec: token subject must not be empty")
	}
	if ttl <= 0 {
		return "", time.Time{}, ErrInvalidTTL
	}

	issuedAt := codec.now()
	claims := AccessClaims{
		Scopes: scopes.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	signedToken, err := jwt.NewWithClaims(codec.method, claims).SignedString(codec.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec_sign_token_failed: %w", err)
	}

	return signedToken, claims.ExpiresAt.Time, nil
}

// Verify decodes the token and checks signature, issuer and expiry.
//
// Failures wrap exactly one of [ErrMalformed], [ErrInvalidSignature] or
// [ErrExpired]. Expiry takes precedence: a token past its expiry reports
// [ErrExpired] even if its signature is also wrong.
func (codec *TokenCodec) Verify(tokenString string) (*VerifiedToken, error) {
	claims := &AccessClaims{}

	_, err := codec.parser.ParseWithClaims(tokenString, claims, codec.key)
	if err != nil {
		return nil, codec.classify(err, claims)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformed)
	}

	return &VerifiedToken{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Scopes:    FromStrings(claims.Scopes),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// key returns the HMAC secret for the parser.
func (codec *TokenCodec) key(_ *jwt.Token) (any, error) {
	return codec.secret, nil
}

// classify maps jwt parser errors onto the codec's three failure kinds.
// The parser decodes claims before checking the signature, so claims is
// populated whenever the token was structurally sound.
func (codec *TokenCodec) classify(err error, claims *AccessClaims) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)

	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)

	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		if codec.expired(claims) {
			return fmt.Errorf("%w: expired at %s", ErrExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)

	default:
		// Missing exp, wrong issuer and similar claim-shape problems.
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// expired reports whether the (unverified) claims are past their expiry.
func (codec *TokenCodec) expired(claims *AccessClaims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return !codec.now().Before(claims.ExpiresAt.Time)
}
