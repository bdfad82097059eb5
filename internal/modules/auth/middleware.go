package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/comandahub/comanda-backend/internal/modules/permission"
	"github.com/comandahub/comanda-backend/internal/modules/store"
	"github.com/comandahub/comanda-backend/internal/modules/user"
)

// Authenticator validates the Bearer token and attaches a permission.Context
// to the request. On store-scoped routes (those with a {storeID} URL param)
// it also resolves the caller's role in that store; a caller with no
// membership gets an empty permission map, which denies everything.
func Authenticator(secret []byte, users user.Repository, stores store.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
					}
					return secret, nil
				})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}

			// The admin flag is read back from the database so revoking it
			// takes effect before the token expires.
			u, err := users.GetUserByID(r.Context(), userID.String())
			if err != nil {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}

			pc := permission.Context{
				UserID:        userID,
				PlatformAdmin: u.IsPlatformAdmin,
				Permissions:   permission.Map{},
			}

			if storeID := storeIDFromPath(r.URL.Path); storeID != "" && !pc.PlatformAdmin {
				role, err := stores.GetMemberRole(r.Context(), storeID, userID.String())
				switch {
				case err == nil:
					pc.Permissions = role.Permissions
				case errors.Is(err, sql.ErrNoRows):
					// No membership in this store: the empty map denies
					// everything.
				default:
					http.Error(w, "could not resolve permissions", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(permission.WithContext(r.Context(), pc)))
		})
	}
}

// storeIDFromPath extracts the store id from /stores/{storeID}/... paths.
// Router middleware runs before chi fills URL params, so the path is parsed
// directly.
func storeIDFromPath(path string) string {
	const prefix = "/stores/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if _, err := uuid.Parse(rest); err != nil {
		return ""
	}
	return rest
}
