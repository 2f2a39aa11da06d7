package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// TokenFromQuery reads the token from the "token" query parameter. EventSource
// clients cannot set an Authorization header.
func TokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// AuthRequired rejects requests without a valid access token and stores the
// caller as an auth.Actor in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			employeeID, _ := claims["employee_id"].(string)
			role, _ := claims["role"].(string)
			actor := auth.Actor{EmployeeID: employeeID, Role: auth.Role(role)}
			if !actor.Role.IsValid() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFrom returns the caller stored by AuthRequired.
func ActorFrom(ctx context.Context) (auth.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(auth.Actor)
	return actor, ok
}

// WithActor stores actor in ctx.
func WithActor(ctx context.Context, actor auth.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// EmployeeRequired rejects tokens that do not name an employee.
func EmployeeRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFrom(r.Context())
		if !ok || actor.EmployeeID == "" {
			response.HandleError(w, auth.ErrMissingEmployeeClaim)
			return
		}
		next.ServeHTTP(w, r)
	})
}
