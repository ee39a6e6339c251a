package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"realty/config"
	"realty/infras/jwt"
	"realty/infras/otel"
	"realty/permissions"
	"realty/shared/constant"
	"realty/shared/failure"
	"realty/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type trustedKey struct{}

// Auth authenticates the caller, either by bearer token or by the internal API key.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// APIKey marks requests carrying the configured X-API-Key as trusted so the
// token and role checks after it let them through. A wrong key is rejected
// outright; no key at all falls through to token auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		scope.End()

		ctx := context.WithValue(request.Context(), trustedKey{}, true)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		if trusted(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		path := routeOf(request)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		if m.permission != nil {
			if permission, ok := m.permission.FindPermissions(path, request.Method); ok && permission.Skip {
				scope.End()
				next.ServeHTTP(writer, request)

				return
			}
		}

		claims, err := m.claims(ctx, request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) claims(ctx context.Context, header string) (*jwt.Claims, error) {
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header") // nolint:wrapcheck
	}

	tokenString, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format") // nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)

	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, failure.Unauthorized("Token has expired") // nolint:wrapcheck
	case errors.Is(err, jwt.ErrInvalidToken):
		return nil, failure.Unauthorized("Invalid token") // nolint:wrapcheck
	case errors.Is(err, jwt.ErrInvalidClaim):
		return nil, failure.Unauthorized("Invalid token claims") // nolint:wrapcheck
	case err != nil:
		return nil, failure.Unauthorized("Token validation failed") // nolint:wrapcheck
	}

	if claims.UserID == "" || claims.Email == "" {
		log.Error().Str("user_id", claims.UserID).Msg("JWT claims missing subject")

		return nil, failure.Unauthorized("Invalid token claims") // nolint:wrapcheck
	}

	return claims, nil
}

// RBAC needs Auth before it. Routes missing from the permission table are
// forbidden for everyone except trusted callers.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if trusted(ctx) || (m.permission != nil && m.permission.Skip) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		path := routeOf(request)

		var (
			permission permissions.Permission
			found      bool
			reason     string
		)

		if m.permission != nil {
			permission, found = m.permission.FindPermissions(path, request.Method)
		}

		switch {
		case m.permission == nil:
			reason = "permissions_unavailable"
		case !found:
			reason = "route_not_declared"
		case !permission.Allows(userRole):
			reason = "role_not_allowed"

			scope.SetAttribute("allowed_roles", permission.Roles)
		}

		if reason != "" {
			scope.SetAttributes(map[string]any{
				"user_role": userRole,
				"http.path": path,
				"reason":    reason,
			})
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

func trusted(ctx context.Context) bool {
	ok, _ := ctx.Value(trustedKey{}).(bool)

	return ok
}

// routeOf resolves the full route pattern. Guards run before the sub-router
// matches, so the pattern is looked up on the root mux.
func routeOf(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}
