package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strconv"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/config"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/service"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// Minimal in-memory stores backing a real AuthService; the handler
// tests exercise the full HTTP surface including cookies.

type memUsers struct {
    nextID uint64
    byID   map[uint64]model.User
}

func (m *memUsers) Create(_ context.Context, u model.User) (uint64, error) {
    for _, other := range m.byID {
        if other.Email == u.Email {
            return 0, repository.ErrEmailExists
        }
    }
    m.nextID++
    u.ID = m.nextID
    m.byID[u.ID] = u
    return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
    for _, u := range m.byID {
        if u.Email == email {
            return u, nil
        }
    }
    return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
    u, ok := m.byID[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return u, nil
}

func (m *memUsers) AdminExists(_ context.Context) (bool, error) {
    for _, u := range m.byID {
        if u.Role == model.RoleAdmin {
            return true, nil
        }
    }
    return false, nil
}

type memTokens struct {
    nextID int
    rows   map[string]*model.RefreshToken
}

func (m *memTokens) Save(_ context.Context, userID uint64, raw, ip, ua string, expiresAt time.Time) (model.RefreshToken, error) {
    hash, err := utils.HashRefreshRaw(raw, bcrypt.MinCost)
    if err != nil {
        return model.RefreshToken{}, err
    }
    m.nextID++
    rec := model.RefreshToken{
        ID:        "tok-" + strconv.Itoa(m.nextID),
        UserID:    userID,
        TokenHash: hash,
        ExpiresAt: expiresAt,
        IPAddress: ip,
        UserAgent: ua,
    }
    m.rows[rec.ID] = &rec
    return rec, nil
}

func (m *memTokens) FindMatch(_ context.Context, userID uint64, raw string) (model.RefreshToken, error) {
    for _, rec := range m.rows {
        if rec.UserID == userID && !rec.Revoked && utils.MatchRefreshRaw(rec.TokenHash, raw) {
            return *rec, nil
        }
    }
    return model.RefreshToken{}, repository.ErrNoActiveToken
}

func (m *memTokens) Revoke(_ context.Context, id string) (bool, error) {
    rec, ok := m.rows[id]
    if !ok || rec.Revoked {
        return false, nil
    }
    rec.Revoked = true
    return true, nil
}

func (m *memTokens) RevokeAll(_ context.Context, userID uint64) error {
    for _, rec := range m.rows {
        if rec.UserID == userID {
            rec.Revoked = true
        }
    }
    return nil
}

func newAuthTestHandler() *AuthHandler {
    cfg := config.Config{
        Env:        "test",
        JWTSecret:  "handler-test-secret",
        AccessTTL:  time.Minute,
        RefreshTTL: time.Hour,
        BcryptCost: bcrypt.MinCost,
    }
    svc := service.NewAuthService(
        &memUsers{byID: map[uint64]model.User{}},
        &memTokens{rows: map[string]*model.RefreshToken{}},
        cfg,
    )
    return NewAuthHandler(cfg, svc)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    for _, ck := range cookies {
        req.AddCookie(ck)
    }
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec
}

func findCookie(res *http.Response, name string) *http.Cookie {
    for _, ck := range res.Cookies() {
        if ck.Name == name {
            return ck
        }
    }
    return nil
}

func TestRegisterSetsHttpOnlyCookies(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)

    res := rec.Result()
    for _, name := range []string{"access_token", "refresh_token"} {
        ck := findCookie(res, name)
        require.NotNil(t, ck, "missing %s cookie", name)
        assert.True(t, ck.HttpOnly)
        assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
        assert.Equal(t, "/", ck.Path)
        assert.NotEmpty(t, ck.Value)
    }

    // Tokens travel only in cookies, never in the body.
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.NotContains(t, body, "access_token")
    assert.NotContains(t, body, "refresh_token")
    assert.Equal(t, "Bearer", body["token_type"])
    user := body["user"].(map[string]any)
    assert.Equal(t, "customer", user["role"])
    assert.NotContains(t, user, "password_hash")
}

func TestLoginWrongPassword(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)

    rec = doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
        `{"email":"maria@example.com","password":"nope"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Unknown email yields the identical response.
    rec2 := doJSON(t, h.Login, http.MethodPost, "/v1/auth/login",
        `{"email":"ghost@example.com","password":"nope"}`)
    assert.Equal(t, rec.Body.String(), rec2.Body.String())
}

func TestRefreshFromCookieRotates(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    first := findCookie(rec.Result(), "refresh_token")
    require.NotNil(t, first)

    rec = doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh", "{}", first)
    require.Equal(t, http.StatusOK, rec.Code)
    second := findCookie(rec.Result(), "refresh_token")
    require.NotNil(t, second)
    assert.NotEqual(t, first.Value, second.Value)

    // Replaying the rotated-out cookie fails and clears the session.
    rec = doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh", "{}", first)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    cleared := findCookie(rec.Result(), "refresh_token")
    require.NotNil(t, cleared)
    assert.Empty(t, cleared.Value)
}

func TestRefreshFromBody(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    refresh := findCookie(rec.Result(), "refresh_token")
    require.NotNil(t, refresh)

    rec = doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh",
        `{"refresh_token":"`+refresh.Value+`"}`)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshWithoutToken(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh", "{}")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    access := findCookie(rec.Result(), "access_token")
    refresh := findCookie(rec.Result(), "refresh_token")
    require.NotNil(t, access)
    require.NotNil(t, refresh)

    // Logout runs behind JWTAuth in the router; chain it here the same way.
    protected := middleware.JWTAuth(h.Cfg.JWTSecret)(h.Logout)
    rec = doJSON(t, protected, http.MethodPost, "/v1/auth/logout", "", access)
    require.Equal(t, http.StatusOK, rec.Code)

    for _, name := range []string{"access_token", "refresh_token"} {
        ck := findCookie(rec.Result(), name)
        require.NotNil(t, ck, "missing cleared %s cookie", name)
        assert.Empty(t, ck.Value)
        assert.True(t, ck.Expires.Before(time.Now()))
    }

    // The refresh token no longer works.
    rec = doJSON(t, h.Refresh, http.MethodPost, "/v1/auth/refresh", "{}", refresh)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
    h := newAuthTestHandler()

    rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register",
        `{"username":"maria","email":"maria@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    access := findCookie(rec.Result(), "access_token")
    require.NotNil(t, access)

    rec = doJSON(t, h.Validate, http.MethodPost, "/v1/auth/validate",
        `{"token":"`+access.Value+`"}`)
    require.Equal(t, http.StatusOK, rec.Code)
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, true, body["valid"])

    rec = doJSON(t, h.Validate, http.MethodPost, "/v1/auth/validate", `{"token":"garbage"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAdminBootstrapThenGated(t *testing.T) {
    h := newAuthTestHandler()

    // No admin exists yet: bootstrap is open.
    rec := doJSON(t, h.RegisterAdmin, http.MethodPost, "/v1/auth/register-admin",
        `{"username":"boss","email":"boss@example.com","password":"pw123456"}`)
    require.Equal(t, http.StatusCreated, rec.Code)
    adminAccess := findCookie(rec.Result(), "access_token")
    require.NotNil(t, adminAccess)

    // Unauthenticated second attempt is rejected.
    rec = doJSON(t, h.RegisterAdmin, http.MethodPost, "/v1/auth/register-admin",
        `{"username":"mallory","email":"mallory@example.com","password":"pw123456"}`)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // An existing admin may create further admins.
    rec = doJSON(t, h.RegisterAdmin, http.MethodPost, "/v1/auth/register-admin",
        `{"username":"deputy","email":"deputy@example.com","password":"pw123456"}`, adminAccess)
    assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
    h := newAuthTestHandler()

    tests := []string{
        `{"email":"a@b.c","password":"pw123456"}`,            // missing username
        `{"username":"x","email":"not-an-email","password":"pw123456"}`, // bad email
        `{"username":"x","email":"a@b.c","password":"short"}`,           // short password
    }
    for _, body := range tests {
        rec := doJSON(t, h.Register, http.MethodPost, "/v1/auth/register", body)
        assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
    }
}
