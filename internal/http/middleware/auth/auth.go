// Package auth authenticates requests carrying an HS256 bearer token.
package auth

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"service-delivery/internal/identity"
	"service-delivery/internal/logx"
)

// Claims are the token claims the service relies on. The subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errNoToken = errors.New("missing bearer token")

// Authenticator verifies tokens signed with a shared secret.
type Authenticator struct {
	secret []byte
	logger logx.Logger
}

// New creates an Authenticator.
func New(secret string, logger logx.Logger) *Authenticator {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// Parse validates raw and returns the caller it identifies.
func (a *Authenticator) Parse(raw string) (identity.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return identity.Identity{}, err
	}
	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return identity.Identity{}, fmt.Errorf("token has no subject")
	}
	return identity.Identity{UserID: sub, Role: claims.Role, Token: raw}, nil
}

// Issue signs a token for userID with role, valid for ttl.
func (a *Authenticator) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Middleware rejects requests without a valid token and stores the caller in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearer(r)
		if err == nil {
			var id identity.Identity
			if id, err = a.Parse(raw); err == nil {
				next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
				return
			}
		}
		a.logger.Debug("request rejected",
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"authentication required"}`)
	})
}

func bearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(token), nil
}
