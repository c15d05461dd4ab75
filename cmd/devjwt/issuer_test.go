package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/auth/jwtverifier"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
)

func TestTokenExchange_VerifiesAgainstJWKS(t *testing.T) {
	t.Parallel()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("let-us-in"), bcrypt.MinCost)
	require.NoError(t, err)

	iss := &issuer{
		Issuer:       "devjwt-test",
		Audience:     "wedding-rsvp",
		Kid:          "kid-1",
		Subject:      "dev|host",
		TTL:          time.Minute,
		PasswordHash: hash,
		Key:          key,
		Now:          time.Now,
	}
	h, err := newHandler(iss, zerolog.Nop())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/token", "application/json", strings.NewReader(`{"password":"wrong"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/token", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/token", "application/json", strings.NewReader(`{"password":"let-us-in"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tr tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))

	v := jwtverifier.New(config.JWTConfig{
		Issuer:      iss.Issuer,
		Audience:    iss.Audience,
		JWKSURL:     srv.URL + "/.well-known/jwks.json",
		ClockSkew:   30 * time.Second,
		HTTPTimeout: 2 * time.Second,
	})
	sub, err := v.Verify(context.Background(), tr.Token)
	require.NoError(t, err)
	assert.Equal(t, "dev|host", sub)
}
