package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// UserHandler exposes the admin user-management API.  All routes are
// mounted behind JWTAuth + RequireRole(admin).
type UserHandler struct {
    Users      *repository.UserRepo
    BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
    return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

// Create handles POST /v1/users (admin).  Unlike public registration
// this accepts any role, so it is how waiter and chef accounts are
// provisioned.
func (h *UserHandler) Create(c echo.Context) error {
    var body struct {
        Username string `json:"username"`
        Email    string `json:"email"`
        Password string `json:"password"`
        Role     string `json:"role"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    body.Username = strings.TrimSpace(body.Username)
    body.Email = strings.TrimSpace(body.Email)
    role := model.UserRole(body.Role)
    switch {
    case body.Username == "":
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
    case !strings.Contains(body.Email, "@"):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
    case len(body.Password) < 6:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
    case !role.Valid():
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }

    hash, err := utils.HashPassword(body.Password, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Users.Create(ctx, model.User{
        Username:     body.Username,
        Email:        body.Email,
        PasswordHash: hash,
        Role:         role,
        Status:       model.StatusActive,
    })
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
    }
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
    }
    return c.JSON(http.StatusCreated, u)
}

// List handles GET /v1/users with optional ?role= and ?status= filters.
func (h *UserHandler) List(c echo.Context) error {
    role := model.UserRole(c.QueryParam("role"))
    if role != "" && !role.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }
    status := model.UserStatus(c.QueryParam("status"))
    if status != "" && status != model.StatusActive && status != model.StatusInactive {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    users, err := h.Users.List(ctx, role, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
    }
    return c.JSON(http.StatusOK, u)
}

// Update handles PATCH /v1/users/:id.  Only provided fields change;
// a new password is re-hashed before it touches the repository.
func (h *UserHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Username *string `json:"username"`
        Email    *string `json:"email"`
        Password *string `json:"password"`
        Role     *string `json:"role"`
        Status   *string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    var upd repository.UserUpdate
    if body.Username != nil {
        name := strings.TrimSpace(*body.Username)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "username cannot be empty"})
        }
        upd.Username = &name
    }
    if body.Email != nil {
        email := strings.TrimSpace(*body.Email)
        if !strings.Contains(email, "@") {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
        }
        upd.Email = &email
    }
    if body.Password != nil {
        if len(*body.Password) < 6 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
        }
        hash, err := utils.HashPassword(*body.Password, h.BcryptCost)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
        }
        upd.PasswordHash = &hash
    }
    if body.Role != nil {
        role := model.UserRole(*body.Role)
        if !role.Valid() {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
        }
        upd.Role = &role
    }
    if body.Status != nil {
        status := model.UserStatus(*body.Status)
        if status != model.StatusActive && status != model.StatusInactive {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
        }
        upd.Status = &status
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Update(ctx, id, upd)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
    }
    return c.JSON(http.StatusOK, u)
}

// Profile handles GET /v1/profile: the caller's own account.
func (h *UserHandler) Profile(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
    }
    return c.JSON(http.StatusOK, u)
}

// UpdateProfile handles PATCH /v1/profile.  Users may change their own
// username, email and password but never their role or status.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        Username *string `json:"username"`
        Email    *string `json:"email"`
        Password *string `json:"password"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    var upd repository.UserUpdate
    if body.Username != nil {
        name := strings.TrimSpace(*body.Username)
        if name == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "username cannot be empty"})
        }
        upd.Username = &name
    }
    if body.Email != nil {
        email := strings.TrimSpace(*body.Email)
        if !strings.Contains(email, "@") {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
        }
        upd.Email = &email
    }
    if body.Password != nil {
        if len(*body.Password) < 6 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
        }
        hash, err := utils.HashPassword(*body.Password, h.BcryptCost)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
        }
        upd.PasswordHash = &hash
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    u, err := h.Users.Update(ctx, userID, upd)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
    }
    return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /v1/users/:id.  Admins cannot delete their own
// account; deactivate instead.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if callerID, ok := middleware.UserID(c); ok && callerID == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Users.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
    }
    return c.NoContent(http.StatusNoContent)
}
