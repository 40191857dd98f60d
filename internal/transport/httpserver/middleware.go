package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/flpflJ/crypto-chat/pkg/errors"
	"github.com/flpflJ/crypto-chat/pkg/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware resolves the bearer token and stores the authenticated
// identity in the request context. Handlers must use that identity, never a
// client-supplied field, for every permission decision.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, errors.ErrInvalidCredential)
			return
		}

		username, err := utils.ParseJWTToken(token, h.cfg)
		if err != nil {
			h.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the identity resolved by AuthMiddleware.
func identityFrom(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}
