// Package router wires HTTP routes to their handlers and access rules.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/handler"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// Deps bundles everything route registration needs.  AuthLimiter and
// Cache are pre-built middleware; either may be a no-op when Redis is
// not configured.
type Deps struct {
    JWTSecret     string
    AuthLimiter   echo.MiddlewareFunc
    Cache         echo.MiddlewareFunc
    Auth          *handler.AuthHandler
    Users         *handler.UserHandler
    Restaurants   *handler.RestaurantHandler
    Tables        *handler.TableHandler
    Products      *handler.ProductHandler
    Orders        *handler.OrderHandler
    Reservations  *handler.ReservationHandler
    Notifications *handler.NotificationHandler
}

// Register mounts every route of the API onto e.
func Register(e *echo.Echo, d Deps) {
    e.GET("/healthz", handler.Health)

    registerAuth(e, d)
    registerPublic(e, d)
    registerProtected(e, d)
}

// registerAuth mounts the session endpoints.  The whole group sits
// behind the per-IP rate limiter; logout and me additionally require a
// valid access token.
func registerAuth(e *echo.Echo, d Deps) {
    g := e.Group("/v1/auth", d.AuthLimiter)
    g.POST("/register", d.Auth.Register)
    g.POST("/register-admin", d.Auth.RegisterAdmin)
    g.POST("/login", d.Auth.Login)
    g.POST("/refresh", d.Auth.Refresh)
    g.POST("/validate", d.Auth.Validate)

    jwt := middleware.JWTAuth(d.JWTSecret)
    g.POST("/logout", d.Auth.Logout, jwt)
    g.GET("/me", d.Auth.Me, jwt)
}

// registerPublic mounts the guest-readable catalogue.  Listings go
// through the response cache.
func registerPublic(e *echo.Echo, d Deps) {
    e.GET("/v1/restaurants", d.Restaurants.List, d.Cache)
    e.GET("/v1/restaurants/:id", d.Restaurants.Get)
    e.GET("/v1/restaurants/:restaurant_id/tables", d.Tables.List, d.Cache)
    e.GET("/v1/tables/:id", d.Tables.Get)
    e.GET("/v1/products", d.Products.List, d.Cache)
    e.GET("/v1/products/:id", d.Products.Get)
}

// registerProtected mounts everything that needs a session.  Route
// groups narrow by role: admin manages the catalogue and accounts,
// waiters and chefs drive table and order state, customers act on
// their own orders and reservations.
func registerProtected(e *echo.Echo, d Deps) {
    v1 := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))

    v1.GET("/profile", d.Users.Profile)
    v1.PATCH("/profile", d.Users.UpdateProfile)

    admin := v1.Group("", middleware.RequireRole(model.RoleAdmin))
    admin.POST("/users", d.Users.Create)
    admin.GET("/users", d.Users.List)
    admin.GET("/users/:id", d.Users.Get)
    admin.PATCH("/users/:id", d.Users.Update)
    admin.DELETE("/users/:id", d.Users.Delete)

    admin.POST("/restaurants", d.Restaurants.Create)
    admin.PUT("/restaurants/:id", d.Restaurants.Update)
    admin.DELETE("/restaurants/:id", d.Restaurants.Delete)

    admin.POST("/restaurants/:restaurant_id/tables", d.Tables.Create)
    admin.PUT("/tables/:id", d.Tables.Update)
    admin.DELETE("/tables/:id", d.Tables.Delete)

    admin.POST("/products", d.Products.Create)
    admin.PUT("/products/:id", d.Products.Update)
    admin.DELETE("/products/:id", d.Products.Delete)

    admin.DELETE("/orders/:id", d.Orders.Delete)
    admin.DELETE("/reservations/:id", d.Reservations.Delete)
    admin.POST("/notifications", d.Notifications.Create)

    floor := middleware.RequireRole(model.RoleAdmin, model.RoleWaiter)
    v1.PATCH("/tables/:id/status", d.Tables.SetStatus, floor)

    kitchen := middleware.RequireRole(model.RoleAdmin, model.RoleWaiter, model.RoleChef)
    v1.PATCH("/orders/:id/status", d.Orders.SetStatus, kitchen)

    v1.POST("/orders", d.Orders.Create)
    v1.GET("/orders", d.Orders.List)
    v1.GET("/orders/:id", d.Orders.Get)
    v1.GET("/orders/:id/items", d.Orders.ListItems)
    v1.PATCH("/order-items/:id", d.Orders.UpdateItem)
    v1.DELETE("/order-items/:id", d.Orders.DeleteItem)

    v1.POST("/reservations", d.Reservations.Create)
    v1.GET("/reservations", d.Reservations.List)
    v1.GET("/reservations/:id", d.Reservations.Get)
    v1.PUT("/reservations/:id", d.Reservations.Update)
    v1.PATCH("/reservations/:id/status", d.Reservations.SetStatus)

    v1.GET("/notifications", d.Notifications.List)
    v1.PATCH("/notifications/:id/read", d.Notifications.MarkRead)
    v1.POST("/notifications/read-all", d.Notifications.MarkAllRead)
    v1.DELETE("/notifications/:id", d.Notifications.Delete)
}
