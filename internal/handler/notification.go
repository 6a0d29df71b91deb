package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
)

// NotificationHandler exposes a user's own notification feed.  Rows
// come from the order event consumer or from the admin create
// endpoint.
type NotificationHandler struct {
    Notifications *repository.NotificationRepo
    Users         *repository.UserRepo
}

func NewNotificationHandler(n *repository.NotificationRepo, users *repository.UserRepo) *NotificationHandler {
    return &NotificationHandler{Notifications: n, Users: users}
}

// Create handles POST /v1/notifications (admin).  Lets an admin push a
// manual notification to a user, e.g. about a reservation change.
func (h *NotificationHandler) Create(c echo.Context) error {
    var body struct {
        UserID  uint64 `json:"user_id"`
        Message string `json:"message"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.UserID == 0 || strings.TrimSpace(body.Message) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and message required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Users.GetByID(ctx, body.UserID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
    }

    id, err := h.Notifications.Create(ctx, body.UserID, body.Message)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create notification"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "user_id": body.UserID, "message": body.Message})
}

// List handles GET /v1/notifications?unread=true.
func (h *NotificationHandler) List(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Notifications.ListByUser(ctx, userID, c.QueryParam("unread") == "true")
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead handles PATCH /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    userID, _ := middleware.UserID(c)

    ctx, cancel := reqCtx(c)
    defer cancel()

    n, err := h.Notifications.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notification"})
    }
    if n.UserID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    if err := h.Notifications.MarkRead(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "read": true})
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Notifications.MarkAllRead(ctx, userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notifications"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "all notifications marked read"})
}

// Delete handles DELETE /v1/notifications/:id.
func (h *NotificationHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    userID, _ := middleware.UserID(c)

    ctx, cancel := reqCtx(c)
    defer cancel()

    n, err := h.Notifications.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notification"})
    }
    if n.UserID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    if err := h.Notifications.Delete(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete notification"})
    }
    return c.NoContent(http.StatusNoContent)
}
