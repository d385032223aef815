package api

import (
	"context"
	"net/http"

	"github.com/thinkai/waitlist/internal/session"
)

type ctxKey struct{}

// RequireVisitor rejects requests that reach the API without a resolved
// visitor session.
func (api *Api) RequireVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := session.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "no visitor session")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func visitor(r *http.Request) *session.Visitor {
	v, _ := r.Context().Value(ctxKey{}).(*session.Visitor)
	return v
}
