package middleware

import (
	"net/http"
	"strings"

	"mamba-store/internal/service"

	"github.com/labstack/echo/v4"
)

// JWTAuth guards operator endpoints with a bearer token issued by the auth
// service. The verified subject email lands in the request context.
func JWTAuth(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			email, err := auth.VerifyToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_email", email)
			return next(c)
		}
	}
}
