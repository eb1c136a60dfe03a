/**
 * @description
 * This file contains custom middleware for the HTTP router. Middlewares are
 * used to process requests before they reach the final handler, perfect for
 * tasks like authentication or attaching correlation metadata to a request.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: Bearer token validation.
 * - github.com/google/uuid: Request correlation identifiers.
 */

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// operatorContextKey is a custom type for context keys to avoid collisions.
type operatorContextKey string

const (
	operatorIDKey operatorContextKey = "operatorID"
	requestIDKey  operatorContextKey = "requestID"
)

const requestIDHeader = "X-Request-ID"

// BearerAuthMiddleware validates HMAC-signed JWT bearer tokens. When the
// secret is empty the middleware is a passthrough, so local and test
// deployments run unauthenticated.
func BearerAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "Authorization header required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeAuthError(w, "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeAuthError(w, "Invalid token claims")
				return
			}
			operatorID, ok := claims["sub"].(string)
			if !ok || operatorID == "" {
				writeAuthError(w, "Operator ID not found in token")
				return
			}

			ctx := context.WithValue(r.Context(), operatorIDKey, operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperatorID retrieves the authenticated operator's ID from the request
// context. The boolean result is false when auth is disabled.
func GetOperatorID(ctx context.Context) (string, bool) {
	operatorID, ok := ctx.Value(operatorIDKey).(string)
	return operatorID, ok
}

// RequestCorrelation attaches a correlation id to every request, generating a
// fresh UUID when the client did not send one, and echoes it on the response.
func RequestCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the correlation id attached by RequestCorrelation.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    http.StatusUnauthorized,
		Error:     "Unauthorized",
		Message:   message,
	})
}
