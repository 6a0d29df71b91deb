package handler

import (
    "context"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint64, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return 0, nil
    }
    return strconv.ParseUint(raw, 10, 64)
}

// reqCtx bounds a handler's DB work so a stuck database cannot pin
// request goroutines forever.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// isStaff reports whether the role may operate on other users' data.
func isStaff(role string) bool {
    switch model.UserRole(role) {
    case model.RoleAdmin, model.RoleWaiter, model.RoleChef:
        return true
    }
    return false
}
