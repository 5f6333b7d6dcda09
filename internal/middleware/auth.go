package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"maxelo/attendance/foundation/web"
	"maxelo/attendance/internal/auth"
)

// Authenticate requires a valid session, established either by the
// session cookie or an Authorization bearer header. When roles are given
// the session's granted view must match one of them.
func Authenticate(a *auth.Auth, role ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {
			token := ""

			if cookie, err := c.Cookie(auth.CookieName); err == nil {
				token = cookie
			}

			if token == "" {
				// Expecting: Bearer <token>
				authStr := c.Request.Header.Get("authorization")
				parts := strings.Split(authStr, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				return c.RespondError(web.NewRequestError(errors.New("please log in first"), http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(c.Ctx, token)
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			if ok := claims.Authorized(role...); !ok && (len(role) > 0) {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden))
			}

			// Add claims to the context so that they can be retrieved later.
			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}
