package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/config"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/service"
)

// Cookie names used by the browser client.  Both cookies are HttpOnly
// so tokens never touch client-side script; the response body carries
// only public user fields.
const (
    accessCookie  = "access_token"
    refreshCookie = "refresh_token"
)

// AuthHandler bridges HTTP to the auth service and owns cookie
// handling for the session endpoints.
type AuthHandler struct {
    Cfg  config.Config
    Auth *service.AuthService
}

func NewAuthHandler(cfg config.Config, auth *service.AuthService) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
    Username string `json:"username"`
    Email    string `json:"email"`
    Password string `json:"password"`
    Role     string `json:"role"` // accepted but ignored; roles are assigned server-side
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}
type validateReq struct {
    Token string `json:"token"`
}

type sessionResp struct {
    User      model.PublicUser `json:"user"`
    TokenType string           `json:"token_type"`
    ExpiresIn int64            `json:"expires_in"`
}

func sessionBody(sess service.Session) sessionResp {
    return sessionResp{User: sess.User, TokenType: "Bearer", ExpiresIn: sess.ExpiresIn}
}

// Register creates a customer account and opens a session.  Any
// caller-supplied role is discarded; admin accounts go through
// RegisterAdmin.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateRegister(&req); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Auth.Register(ctx, req.Username, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
    if err != nil {
        if errors.Is(err, service.ErrEmailTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
    }
    h.setAuthCookies(c, sess)
    return c.JSON(http.StatusCreated, sessionBody(sess))
}

// RegisterAdmin creates an admin account.  While no admin exists the
// endpoint is open so the first admin can be bootstrapped; afterwards
// only an authenticated admin may call it.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateRegister(&req); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exists, err := h.Auth.AdminExists(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if exists {
        caller, err := h.Auth.ValidateToken(ctx, middleware.ExtractAccessToken(c))
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        if caller.Role != model.RoleAdmin {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }

    sess, err := h.Auth.RegisterAdmin(ctx, req.Username, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
    if err != nil {
        if errors.Is(err, service.ErrEmailTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
    }
    h.setAuthCookies(c, sess)
    return c.JSON(http.StatusCreated, sessionBody(sess))
}

// Login verifies credentials and opens a session.  The 401 message is
// identical for unknown email and wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Auth.Login(ctx, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
    if err != nil {
        if errors.Is(err, service.ErrUnauthorized) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
    }
    h.setAuthCookies(c, sess)
    return c.JSON(http.StatusOK, sessionBody(sess))
}

// Refresh rotates the presented refresh token and replaces both
// cookies.  The token is read from the refresh cookie first so browser
// clients send an empty body; non-browser clients put it in the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
    raw := ""
    if cookie, err := c.Cookie(refreshCookie); err == nil {
        raw = cookie.Value
    }
    if raw == "" {
        var req refreshReq
        _ = c.Bind(&req)
        raw = strings.TrimSpace(req.RefreshToken)
    }
    if raw == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Auth.Refresh(ctx, raw)
    if err != nil {
        if errors.Is(err, service.ErrUnauthorized) {
            h.clearAuthCookies(c)
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
    }
    h.setAuthCookies(c, sess)
    return c.JSON(http.StatusOK, sessionBody(sess))
}

// Logout revokes every refresh token of the current user and clears
// the cookies.  Safe to call repeatedly; a second logout is a no-op.
// Requires a valid access token (JWTAuth middleware).
func (h *AuthHandler) Logout(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Auth.Logout(ctx, userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    h.clearAuthCookies(c)
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Validate checks an access token supplied in the body and returns the
// token's user.  Used by other services and by the frontend to probe
// session state.
func (h *AuthHandler) Validate(c echo.Context) error {
    var req validateReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Auth.ValidateToken(ctx, strings.TrimSpace(req.Token))
    if err != nil {
        if errors.Is(err, service.ErrUnauthorized) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"valid": true, "user": u.Public()})
}

// Me returns the authenticated caller's identity (protected).
func (h *AuthHandler) Me(c echo.Context) error {
    userID, _ := middleware.UserID(c)
    return c.JSON(http.StatusOK, echo.Map{
        "user_id": userID,
        "email":   c.Get(middleware.CtxEmail),
        "role":    middleware.Role(c),
    })
}

func validateRegister(req *registerReq) string {
    req.Username = strings.TrimSpace(req.Username)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    switch {
    case req.Username == "":
        return "username required"
    case req.Email == "" || !strings.Contains(req.Email, "@"):
        return "valid email required"
    case len(req.Password) < 6:
        return "password must be at least 6 characters"
    }
    return ""
}

func (h *AuthHandler) setAuthCookies(c echo.Context, sess service.Session) {
    c.SetCookie(h.authCookie(accessCookie, sess.AccessToken, sess.AccessExpires, int(h.Auth.AccessTTL()/time.Second)))
    c.SetCookie(h.authCookie(refreshCookie, sess.RefreshToken, sess.RefreshExpires, int(h.Auth.RefreshTTL()/time.Second)))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
    expired := time.Unix(0, 0).UTC()
    c.SetCookie(h.authCookie(accessCookie, "", expired, -1))
    c.SetCookie(h.authCookie(refreshCookie, "", expired, -1))
}

func (h *AuthHandler) authCookie(name, value string, expires time.Time, maxAge int) *http.Cookie {
    return &http.Cookie{
        Name:     name,
        Value:    value,
        Path:     "/",
        Expires:  expires,
        MaxAge:   maxAge,
        HttpOnly: true,
        Secure:   h.Cfg.IsProd(),
        SameSite: http.SameSiteStrictMode,
    }
}
