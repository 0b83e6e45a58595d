package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards operator routes with a shared key checked against a bcrypt
// hash. The key may also come as ?key= for storage notification pushes that
// cannot set headers. An empty hash disables the routes.
func AdminKey(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash == "" {
				writeError(w, http.StatusForbidden, "ADMIN_DISABLED", "Admin routes are not configured", r)
				return
			}

			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				key = r.URL.Query().Get("key")
			}
			if key == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing admin key", r)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid admin key", r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HashAdminKey produces the value for ADMIN_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
