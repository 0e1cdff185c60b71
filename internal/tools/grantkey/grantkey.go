// Package grantkey generates authoring grant keypairs and mints signed
// grants accepted by catalog imports.
package grantkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/puzzlebox-games/puzzlebox/internal/platform/id"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
)

// EnvGrantPrivateKey names the signing key export. Only the minting
// side holds it; services verify with the public half.
const EnvGrantPrivateKey = "PUZZLEBOX_AUTHORING_GRANT_PRIVATE_KEY"

// Run generates an authoring grant key pair and writes exports.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate authoring grant key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", EnvGrantPrivateKey, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", domain.EnvGrantPublicKey, base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

// MintOptions configure one signed authoring grant.
type MintOptions struct {
	// PrivateKey is the base64 ed25519 signing key, raw or padded.
	PrivateKey string
	Issuer     string
	Audience   string
	// Subject names the author the grant is minted for.
	Subject string
	// Scope defaults to content:write.
	Scope string
	// TTL defaults to one hour.
	TTL time.Duration
	Now func() time.Time
}

type mintClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// Mint signs an authoring grant. The output passes catalog grant
// verification when the matching public key is configured.
func Mint(opts MintOptions) (string, error) {
	key, err := decodePrivateKey(opts.PrivateKey)
	if err != nil {
		return "", err
	}
	issuer := strings.TrimSpace(opts.Issuer)
	if issuer == "" {
		return "", errors.New("issuer is required")
	}
	audience := strings.TrimSpace(opts.Audience)
	if audience == "" {
		return "", errors.New("audience is required")
	}
	scope := strings.TrimSpace(opts.Scope)
	if scope == "" {
		scope = domain.ScopeContentWrite
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("mint grant id: %w", err)
	}

	issuedAt := now().UTC()
	claims := mintClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strings.TrimSpace(opts.Subject),
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        jti,
		},
		Scope: scope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign authoring grant: %w", err)
	}
	return signed, nil
}

func decodePrivateKey(value string) (ed25519.PrivateKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("private key is required")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("decode private key: %w", err)
		}
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key is %d bytes, want %d", len(decoded), ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(decoded), nil
}
