// Package jwks encodes and decodes RSA JSON Web Key Sets.
package jwks

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrNoUsableKeys is returned by Decode when a set holds no RSA signing key.
var ErrNoUsableKeys = errors.New("no usable jwks keys")

type Key struct {
	Kid    string
	Public *rsa.PublicKey
}

type set struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Encode renders keys as an RS256 signing key set.
func Encode(keys []Key) ([]byte, error) {
	out := set{Keys: make([]jwk, 0, len(keys))}
	for _, k := range keys {
		if k.Public == nil {
			return nil, fmt.Errorf("jwks: nil public key for kid %q", k.Kid)
		}
		out.Keys = append(out.Keys, jwk{
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			Kid: k.Kid,
			N:   base64.RawURLEncoding.EncodeToString(k.Public.N.Bytes()),
			// e is a big-endian unsigned int.
			E: base64.RawURLEncoding.EncodeToString(big.NewInt(int64(k.Public.E)).Bytes()),
		})
	}
	return json.Marshal(out)
}

// Decode parses a key set into RSA public keys by kid. Non-RSA entries and entries without
// a kid are skipped.
func Decode(b []byte) (map[string]*rsa.PublicKey, error) {
	var s set
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("jwks: decode: %w", err)
	}
	out := make(map[string]*rsa.PublicKey, len(s.Keys))
	for _, k := range s.Keys {
		if k.Kty != "RSA" || k.Kid == "" || k.N == "" || k.E == "" {
			continue
		}
		nb, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			return nil, fmt.Errorf("jwks: kid %q modulus: %w", k.Kid, err)
		}
		eb, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			return nil, fmt.Errorf("jwks: kid %q exponent: %w", k.Kid, err)
		}
		e := new(big.Int).SetBytes(eb)
		if !e.IsInt64() || e.Int64() <= 0 || e.Int64() > int64(^uint(0)>>1) {
			return nil, fmt.Errorf("jwks: kid %q: invalid exponent", k.Kid)
		}
		out[k.Kid] = &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: int(e.Int64())}
	}
	if len(out) == 0 {
		return nil, ErrNoUsableKeys
	}
	return out, nil
}
