package domain

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
)

// Environment variables configuring authoring grant verification.
const (
	EnvGrantIssuer    = "PUZZLEBOX_AUTHORING_GRANT_ISSUER"
	EnvGrantAudience  = "PUZZLEBOX_AUTHORING_GRANT_AUDIENCE"
	EnvGrantPublicKey = "PUZZLEBOX_AUTHORING_GRANT_PUBLIC_KEY"
)

// ScopeContentWrite authorizes catalog imports.
const ScopeContentWrite = "content:write"

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"PUZZLEBOX_AUTHORING_GRANT_ISSUER"`
	Audience  string `env:"PUZZLEBOX_AUTHORING_GRANT_AUDIENCE"`
	PublicKey string `env:"PUZZLEBOX_AUTHORING_GRANT_PUBLIC_KEY"`
}

// GrantConfig defines how authoring grants are verified.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// GrantClaims captures validated authoring grant claims.
type GrantClaims struct {
	Issuer    string
	Subject   string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string
	Scopes    []string
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// LoadGrantConfigFromEnv reads authoring grant verification configuration.
// It returns ok=false when none of the grant variables are set, which
// means imports stay closed instead of falling back to an open catalog.
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, bool, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return GrantConfig{}, false, fmt.Errorf("parse authoring grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return GrantConfig{}, false, nil
	}
	if issuer == "" {
		return GrantConfig{}, false, fmt.Errorf("%s is required", EnvGrantIssuer)
	}
	if audience == "" {
		return GrantConfig{}, false, fmt.Errorf("%s is required", EnvGrantAudience)
	}
	if publicKey == "" {
		return GrantConfig{}, false, fmt.Errorf("%s is required", EnvGrantPublicKey)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return GrantConfig{}, false, fmt.Errorf("decode authoring grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return GrantConfig{}, false, fmt.Errorf("authoring grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, true, nil
}

// ValidateAuthoringGrant verifies an authoring grant token and requires
// the content:write scope.
func ValidateAuthoringGrant(grant string, cfg GrantConfig) (GrantClaims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return GrantClaims{}, apperrors.New(apperrors.CodeGrantInvalid, "authoring grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return GrantClaims{}, errors.New("authoring grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return GrantClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeGrantInvalid,
			"authoring grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeGrantInvalid,
			"authoring grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}

	if parsed.ID == "" {
		return GrantClaims{}, apperrors.New(apperrors.CodeGrantInvalid, "authoring grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return GrantClaims{}, apperrors.New(apperrors.CodeGrantInvalid, "authoring grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return GrantClaims{}, apperrors.New(apperrors.CodeGrantExpired, "authoring grant is expired")
	}
	if parsed.NotBefore != nil {
		nbf := parsed.NotBefore.Time.UTC()
		if now.Before(nbf) {
			return GrantClaims{}, apperrors.New(apperrors.CodeGrantInvalid, "authoring grant not active yet")
		}
	}

	scopes := splitScopes(parsed.Scope)
	if !scopeContains(scopes, ScopeContentWrite) {
		return GrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeGrantScopeMissing,
			"authoring grant lacks the content:write scope",
			map[string]string{"Scope": ScopeContentWrite},
		)
	}

	claims := GrantClaims{
		Issuer:    parsed.Issuer,
		Subject:   parsed.Subject,
		Audience:  []string(parsed.Audience),
		ExpiresAt: exp,
		JWTID:     parsed.ID,
		Scopes:    scopes,
	}
	if parsed.NotBefore != nil {
		claims.NotBefore = parsed.NotBefore.Time.UTC()
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeGrantInvalid, "authoring grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeGrantInvalid, "authoring grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeGrantInvalid, "authoring grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

// splitScopes parses a space-separated scope claim.
func splitScopes(scope string) []string {
	return strings.Fields(scope)
}

func scopeContains(scopes []string, value string) bool {
	for _, item := range scopes {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
