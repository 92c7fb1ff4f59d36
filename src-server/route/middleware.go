package route

import (
	"context"
	"net/http"
	"strings"

	"calbox/src-server/jwt"
	"calbox/src-server/utils"
)

type UserCtxKeyType string

const UserCtxKey UserCtxKeyType = "user"

// userPayload pulls the verified token payload back out of the request
// context.
func userPayload(r *http.Request) (*jwt.Payload, bool) {
	payload, ok := r.Context().Value(UserCtxKey).(*jwt.Payload)
	return payload, ok
}

// AuthMiddleware verifies the Authorization bearer token and injects its
// payload into the request context.
func AuthMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		token := func() string {
			authHeader := r.Header.Get("Authorization")
			if after, found := strings.CutPrefix(authHeader, "Bearer "); found {
				return strings.TrimSpace(after)
			}
			return ""
		}()
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Bearer token not found"))
			return
		}

		payload, err := jwt.Decode(token, as.Config.GetJWTSecret())
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Invalid token"))
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), UserCtxKey, payload)))
	}
}
