package main

import (
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/auth/jwks"
)

type issuer struct {
	Issuer       string
	Audience     string
	Kid          string
	Subject      string
	TTL          time.Duration
	PasswordHash []byte
	Key          *rsa.PrivateKey
	Now          func() time.Time
}

type tokenRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

func (i *issuer) mint() (string, int64, error) {
	now := i.Now().UTC()
	exp := now.Add(i.TTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    i.Issuer,
		Subject:   i.Subject,
		Audience:  jwt.ClaimStrings{i.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)), // small skew tolerance for local use
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = i.Kid
	s, err := t.SignedString(i.Key)
	if err != nil {
		return "", 0, err
	}
	return s, exp.Unix(), nil
}

func newHandler(i *issuer, log zerolog.Logger) (http.Handler, error) {
	jwksJSON, err := jwks.Encode([]jwks.Key{{Kid: i.Kid, Public: &i.Key.PublicKey}})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(hlog.NewHandler(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Common JWKS path used by many providers.
	r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(jwksJSON)
	})

	// Exchange the shared password for a token:
	//   POST /token {"password":"..."}
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil || req.Password == "" {
			http.Error(w, "missing password", http.StatusBadRequest)
			return
		}
		if err := bcrypt.CompareHashAndPassword(i.PasswordHash, []byte(req.Password)); err != nil {
			hlog.FromRequest(r).Warn().Msg("token request with wrong password")
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, exp, err := i.mint()
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("mint token")
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{Token: tok, Subject: i.Subject, ExpiresAt: exp})
	})

	return r, nil
}
