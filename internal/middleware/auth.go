package middleware

import (
	"net/http"

	userRepo "github.com/swipenest/swipenest/internal/repository/user"
	"github.com/swipenest/swipenest/pkg/jwt"
	"github.com/labstack/echo"
)

// JWTMiddleware authenticates the request and stores the resolved user
// under "userProfile" for the handlers behind it.
func JWTMiddleware(users userRepo.IUserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := jwt.BearerClaims(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			}

			c.Set("claims", claims)
			c.Set("userProfile", user)

			return next(c)
		}
	}
}
