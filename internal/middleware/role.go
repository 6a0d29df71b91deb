package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// RequireRole enforces that the authenticated user holds one of the
// given roles.  It assumes JWTAuth already ran and stored the role in
// context; requests with a missing or disallowed role get 403.
func RequireRole(roles ...model.UserRole) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[string(r)] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !allowed[Role(c)] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
