// Package middleware provides shared request processing for handlers:
// authentication, role enforcement, response caching and rate limiting.
package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// Context keys populated by JWTAuth.
const (
    CtxUserID = "user_id"
    CtxEmail  = "email"
    CtxRole   = "role"
)

// AccessCookieName is the cookie the browser client authenticates
// with; non-browser clients fall back to a Bearer header.
const AccessCookieName = "access_token"

// ExtractAccessToken pulls the raw access token from the request:
// the access_token cookie takes precedence, then the Authorization
// header.  Returns "" when neither is present.
func ExtractAccessToken(c echo.Context) string {
    if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
        return cookie.Value
    }
    if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}

// JWTAuth returns middleware that validates the access token and
// injects the caller's identity into the request context.  Handlers
// read it back via UserID(c) and Role(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := ExtractAccessToken(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing access token"})
            }
            claims, err := utils.VerifyAccess(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            userID, err := utils.UserIDFromSubject(claims.Subject)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(CtxUserID, userID)
            c.Set(CtxEmail, claims.Email)
            c.Set(CtxRole, claims.Role)
            return next(c)
        }
    }
}

// UserID returns the authenticated user's ID from context, or false
// when the request was not authenticated.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// Role returns the authenticated user's role from context.
func Role(c echo.Context) string {
    role, _ := c.Get(CtxRole).(string)
    return role
}
