package service

import (
    "context"
    "strconv"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/config"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// ----- in-memory fakes -----

type fakeUsers struct {
    mu     sync.Mutex
    nextID uint64
    byID   map[uint64]model.User
}

func newFakeUsers() *fakeUsers {
    return &fakeUsers{byID: map[uint64]model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u model.User) (uint64, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, other := range f.byID {
        if other.Email == u.Email {
            return 0, repository.ErrEmailExists
        }
    }
    f.nextID++
    u.ID = f.nextID
    f.byID[u.ID] = u
    return u.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, u := range f.byID {
        if u.Email == email {
            return u, nil
        }
    }
    return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    u, ok := f.byID[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return u, nil
}

func (f *fakeUsers) AdminExists(_ context.Context) (bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, u := range f.byID {
        if u.Role == model.RoleAdmin {
            return true, nil
        }
    }
    return false, nil
}

func (f *fakeUsers) setStatus(id uint64, status model.UserStatus) {
    f.mu.Lock()
    defer f.mu.Unlock()
    u := f.byID[id]
    u.Status = status
    f.byID[id] = u
}

type fakeTokens struct {
    mu     sync.Mutex
    nextID int
    rows   map[string]*model.RefreshToken
}

func newFakeTokens() *fakeTokens {
    return &fakeTokens{rows: map[string]*model.RefreshToken{}}
}

func (f *fakeTokens) Save(_ context.Context, userID uint64, raw, ip, userAgent string, expiresAt time.Time) (model.RefreshToken, error) {
    hash, err := utils.HashRefreshRaw(raw, bcrypt.MinCost)
    if err != nil {
        return model.RefreshToken{}, err
    }
    f.mu.Lock()
    defer f.mu.Unlock()
    f.nextID++
    rec := model.RefreshToken{
        ID:        "tok-" + strconv.Itoa(f.nextID),
        UserID:    userID,
        TokenHash: hash,
        ExpiresAt: expiresAt.UTC(),
        IPAddress: ip,
        UserAgent: userAgent,
    }
    f.rows[rec.ID] = &rec
    return rec, nil
}

func (f *fakeTokens) FindMatch(_ context.Context, userID uint64, raw string) (model.RefreshToken, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, rec := range f.rows {
        if rec.UserID != userID || rec.Revoked {
            continue
        }
        if utils.MatchRefreshRaw(rec.TokenHash, raw) {
            return *rec, nil
        }
    }
    return model.RefreshToken{}, repository.ErrNoActiveToken
}

func (f *fakeTokens) Revoke(_ context.Context, id string) (bool, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    rec, ok := f.rows[id]
    if !ok || rec.Revoked {
        return false, nil
    }
    rec.Revoked = true
    return true, nil
}

func (f *fakeTokens) RevokeAll(_ context.Context, userID uint64) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, rec := range f.rows {
        if rec.UserID == userID {
            rec.Revoked = true
        }
    }
    return nil
}

func (f *fakeTokens) liveCount(userID uint64) int {
    f.mu.Lock()
    defer f.mu.Unlock()
    n := 0
    for _, rec := range f.rows {
        if rec.UserID == userID && !rec.Revoked {
            n++
        }
    }
    return n
}

func (f *fakeTokens) expireAll(userID uint64) {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, rec := range f.rows {
        if rec.UserID == userID {
            rec.ExpiresAt = time.Now().UTC().Add(-time.Minute)
        }
    }
}

func newTestService() (*AuthService, *fakeUsers, *fakeTokens) {
    users := newFakeUsers()
    tokens := newFakeTokens()
    svc := NewAuthService(users, tokens, config.Config{
        JWTSecret:  "test-secret",
        AccessTTL:  time.Minute,
        RefreshTTL: time.Hour,
        BcryptCost: bcrypt.MinCost,
    })
    return svc, users, tokens
}

// ----- tests -----

func TestRegisterIssuesCustomerSession(t *testing.T) {
    svc, _, tokens := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "10.0.0.1", "test-agent")
    require.NoError(t, err)

    assert.Equal(t, model.RoleCustomer, sess.User.Role)
    assert.Equal(t, "maria@example.com", sess.User.Email)
    assert.NotEmpty(t, sess.AccessToken)
    assert.NotEmpty(t, sess.RefreshToken)
    assert.Equal(t, int64(60), sess.ExpiresIn)
    assert.Equal(t, 1, tokens.liveCount(sess.User.ID))
}

func TestRegisterDuplicateEmail(t *testing.T) {
    svc, _, _ := newTestService()
    ctx := context.Background()

    _, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    _, err = svc.Register(ctx, "other", "maria@example.com", "pw123456", "", "")
    assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterAdmin(t *testing.T) {
    svc, _, _ := newTestService()
    ctx := context.Background()

    exists, err := svc.AdminExists(ctx)
    require.NoError(t, err)
    assert.False(t, exists)

    sess, err := svc.RegisterAdmin(ctx, "boss", "boss@example.com", "pw123456", "", "")
    require.NoError(t, err)
    assert.Equal(t, model.RoleAdmin, sess.User.Role)

    exists, err = svc.AdminExists(ctx)
    require.NoError(t, err)
    assert.True(t, exists)
}

func TestLogin(t *testing.T) {
    svc, users, _ := newTestService()
    ctx := context.Background()

    reg, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    sess, err := svc.Login(ctx, "maria@example.com", "pw123456", "10.0.0.1", "test-agent")
    require.NoError(t, err)
    assert.Equal(t, reg.User.ID, sess.User.ID)

    _, err = svc.Login(ctx, "maria@example.com", "wrong-pass", "", "")
    assert.ErrorIs(t, err, ErrUnauthorized)

    _, err = svc.Login(ctx, "nobody@example.com", "pw123456", "", "")
    assert.ErrorIs(t, err, ErrUnauthorized)

    users.setStatus(reg.User.ID, model.StatusInactive)
    _, err = svc.Login(ctx, "maria@example.com", "pw123456", "", "")
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
    svc, _, _ := newTestService()
    ctx := context.Background()

    first, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    second, err := svc.Refresh(ctx, first.RefreshToken)
    require.NoError(t, err)
    assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
    assert.Equal(t, first.User.ID, second.User.ID)

    // The presented token was revoked by rotation; replaying it fails.
    _, err = svc.Refresh(ctx, first.RefreshToken)
    assert.ErrorIs(t, err, ErrUnauthorized)

    // The rotated token keeps working.
    _, err = svc.Refresh(ctx, second.RefreshToken)
    assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
    svc, _, _ := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    _, err = svc.Refresh(ctx, sess.AccessToken)
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshGarbageToken(t *testing.T) {
    svc, _, _ := newTestService()

    _, err := svc.Refresh(context.Background(), "not-a-token")
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshInactiveUser(t *testing.T) {
    svc, users, _ := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    users.setStatus(sess.User.ID, model.StatusInactive)
    _, err = svc.Refresh(ctx, sess.RefreshToken)
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshLedgerExpiry(t *testing.T) {
    svc, _, tokens := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    // The JWT is still valid but the ledger row has been expired by an
    // operator; the token must stop working immediately.
    tokens.expireAll(sess.User.ID)
    _, err = svc.Refresh(ctx, sess.RefreshToken)
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutRevokesEverything(t *testing.T) {
    svc, _, tokens := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)
    _, err = svc.Login(ctx, "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)
    require.Equal(t, 2, tokens.liveCount(sess.User.ID))

    require.NoError(t, svc.Logout(ctx, sess.User.ID))
    assert.Equal(t, 0, tokens.liveCount(sess.User.ID))

    _, err = svc.Refresh(ctx, sess.RefreshToken)
    assert.ErrorIs(t, err, ErrUnauthorized)

    // Logout with nothing left to revoke is a successful no-op.
    assert.NoError(t, svc.Logout(ctx, sess.User.ID))
}

func TestValidateToken(t *testing.T) {
    svc, users, _ := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "", "")
    require.NoError(t, err)

    u, err := svc.ValidateToken(ctx, sess.AccessToken)
    require.NoError(t, err)
    assert.Equal(t, sess.User.ID, u.ID)
    assert.Equal(t, model.RoleCustomer, u.Role)

    _, err = svc.ValidateToken(ctx, "garbage")
    assert.ErrorIs(t, err, ErrUnauthorized)

    // A refresh token is not an access token.
    _, err = svc.ValidateToken(ctx, sess.RefreshToken)
    assert.ErrorIs(t, err, ErrUnauthorized)

    users.setStatus(sess.User.ID, model.StatusInactive)
    _, err = svc.ValidateToken(ctx, sess.AccessToken)
    assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshAuditMetadataCarriesForward(t *testing.T) {
    svc, _, tokens := newTestService()
    ctx := context.Background()

    sess, err := svc.Register(ctx, "maria", "maria@example.com", "pw123456", "203.0.113.9", "mobile-app/2.1")
    require.NoError(t, err)

    next, err := svc.Refresh(ctx, sess.RefreshToken)
    require.NoError(t, err)

    rec, err := tokens.FindMatch(ctx, next.User.ID, next.RefreshToken)
    require.NoError(t, err)
    assert.Equal(t, "203.0.113.9", rec.IPAddress)
    assert.Equal(t, "mobile-app/2.1", rec.UserAgent)
}
