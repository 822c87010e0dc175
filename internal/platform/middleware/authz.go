// Copyright (c) 2026 SecNews. All rights reserved.
// Author: thanh.phamvan@gmail.com

// Package middleware provides the HTTP middleware chain for the SecNews API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/thanhphv/secnews/internal/platform/apperr"
	"github.com/thanhphv/secnews/internal/platform/ctxutil"
	"github.com/thanhphv/secnews/internal/platform/respond"
	"github.com/thanhphv/secnews/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver re-validates token claims against the live user store.
//
// # Why resolve on every request?
//
// Tokens outlive account changes: a user can be deactivated, deleted, or
// demoted while still holding a valid token. Resolution returns the caller's
// CURRENT role and permission set; if the user is missing or no longer
// active, it returns an error and the token is treated as dead.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// RequireIdentity authenticates the request and rejects anonymous callers.
//
// # Flow
//  1. Require an 'Authorization: Bearer <token>' header — 401 if absent.
//  2. Verify the JWT; expired tokens get a distinct 401 message.
//  3. Resolve the claims against the live store — 401 if the user is gone
//     or deactivated.
//  4. Inject [*sec.Identity] into the request context for downstream use.
func RequireIdentity(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := resolveRequestIdentity(request, verifier, resolver)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// OptionalIdentity authenticates the request when credentials are present,
// but never rejects it.
//
// # Flow
//
// Any failure — missing header, malformed token, expired token, deactivated
// user — silently downgrades the caller to anonymous. Routes behind this
// middleware adapt their behavior (visibility, projections) to whoever the
// caller turns out to be.
func OptionalIdentity(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, err := resolveRequestIdentity(request, verifier, resolver)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests whose caller lacks one of the allowed roles.
//
// # Usage
//
// Must be registered in the router AFTER [RequireIdentity].
func RequireRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if err := sec.AuthorizeRole(identity, roles...); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermission blocks requests whose caller lacks the named permission.
// Admins pass unconditionally.
//
// # Usage
//
// Must be registered in the router AFTER [RequireIdentity].
func RequirePermission(permission sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if err := sec.AuthorizePermission(identity, permission); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// resolveRequestIdentity runs the shared authentication pipeline: header
// parsing, token verification, live store resolution.
func resolveRequestIdentity(request *http.Request, verifier TokenVerifier, resolver IdentityResolver) (*sec.Identity, error) {
	authHeader := request.Header.Get("Authorization")

	// ── 1. Header Presence ────────────────────────────────────────────────
	if authHeader == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	// ── 2. Format Validation ──────────────────────────────────────────────
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, apperr.Unauthorized("Invalid authorization format")
	}

	// ── 3. Token Verification ─────────────────────────────────────────────
	claims, err := verifier.VerifyToken(parts[1])
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Token has expired, please log in again")
		}
		return nil, apperr.Unauthorized("Invalid token")
	}

	// ── 4. Live Store Resolution ──────────────────────────────────────────
	identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer active")
	}

	return identity, nil
}
