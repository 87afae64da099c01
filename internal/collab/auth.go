package collab

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/silexa/boardcore/internal/errs"
)

// AccessClaims is the short-lived token getRealtimeAccess issues,
// scoped to exactly one room the way SPEC_FULL.md §2 requires.
type AccessClaims struct {
	jwt.RegisteredClaims
	Room        string   `json:"room"`
	Permissions []string `json:"permissions"`
}

// KeySet holds the RSA keypair a hub signs and verifies access tokens
// with. Issuing identity tokens is explicitly out of scope (SPEC_FULL.md
// §4's non-goals, "we consume tokens, not mint identity"); this keypair
// only ever backs the realtime room grant, never a login flow.
type KeySet struct {
	Priv *rsa.PrivateKey
	Kid  string
}

// NewKeySet generates a fresh 2048-bit RSA keypair with the given key
// id, the same primitive the GitHub App bridge uses for its own
// request signing, applied here to room tokens instead.
func NewKeySet(kid string) (*KeySet, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "generate realtime signing key")
	}
	return &KeySet{Priv: priv, Kid: kid}, nil
}

// IssueAccess mints a room-scoped token for sub, valid for ttl.
func (k *KeySet) IssueAccess(sub, room string, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Room:        room,
		Permissions: permissions,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = k.Kid
	signed, err := token.SignedString(k.Priv)
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, err, "sign realtime access token")
	}
	return signed, nil
}

// VerifyAccess parses and validates a token minted by IssueAccess,
// checking that it carries room in its claim.
func (k *KeySet) VerifyAccess(tokenString, room string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return &k.Priv.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, errs.Wrap(errs.KindInvalidToken, err, "verify realtime access token")
	}
	if claims.Room != room {
		return nil, errs.New(errs.KindInvalidToken, "token not scoped to room %s", room)
	}
	return claims, nil
}

// JWK is a single RSA public key in JSON Web Key form.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet is the body getRealtimeJwks publishes.
type JWKSet struct {
	Keys []JWK `json:"keys"`
}

// JWKS renders the keyset's public half for external verifiers.
func (k *KeySet) JWKS() JWKSet {
	pub := k.Priv.PublicKey
	n := base64.RawURLEncoding.EncodeToString(pub.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes())
	return JWKSet{Keys: []JWK{{Kty: "RSA", Use: "sig", Alg: "RS256", Kid: k.Kid, N: n, E: e}}}
}
