package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// CookieName is the cookie carrying the signed visitor token.
const CookieName = "visitor"

type ctxKey struct{}

// CookieOptions controls the attributes of the visitor cookie.
type CookieOptions struct {
	Domain string
	Secure bool
}

// WithVisitor returns a copy of ctx carrying v.
func WithVisitor(ctx context.Context, v *Visitor) context.Context {
	return context.WithValue(ctx, ctxKey{}, v)
}

// FromContext returns the visitor stored by Middleware.
func FromContext(ctx context.Context) (*Visitor, bool) {
	v, ok := ctx.Value(ctxKey{}).(*Visitor)
	return v, ok && v != nil
}

// Middleware resolves the visitor for every request, setting a fresh cookie
// when a new visitor is started.
func (r *Registry) Middleware(opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var token string
			if c, err := req.Cookie(CookieName); err == nil {
				token = c.Value
			}

			v, err := r.Resolve(token)
			if err != nil {
				r.log.Error("resolve visitor", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if v.Issued {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    v.Token,
					Path:     "/",
					Domain:   opts.Domain,
					HttpOnly: true,
					Secure:   opts.Secure,
					MaxAge:   int(r.signer.ttl.Seconds()),
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, req.WithContext(WithVisitor(req.Context(), v)))
		})
	}
}
