// Package service holds the business logic that sits between HTTP
// handlers and repositories.
package service

import (
    "context"
    "errors"
    "time"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/config"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// Errors surfaced by AuthService.  Handlers translate them to HTTP
// statuses.  ErrUnauthorized deliberately covers unknown email, wrong
// password, invalid/expired/revoked tokens and inactive accounts so
// responses cannot be used to enumerate users.
var (
    ErrUnauthorized = errors.New("unauthorized")
    ErrEmailTaken   = errors.New("email already registered")
)

// UserStore is the slice of the user repository AuthService needs.
type UserStore interface {
    Create(ctx context.Context, u model.User) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    AdminExists(ctx context.Context) (bool, error)
}

// TokenStore is the refresh token ledger as seen by AuthService.
type TokenStore interface {
    Save(ctx context.Context, userID uint64, raw, ip, userAgent string, expiresAt time.Time) (model.RefreshToken, error)
    FindMatch(ctx context.Context, userID uint64, raw string) (model.RefreshToken, error)
    Revoke(ctx context.Context, id string) (bool, error)
    RevokeAll(ctx context.Context, userID uint64) error
}

// AuthService orchestrates login, registration, logout, refresh and
// token validation.  All configuration is injected; there is no
// package-level state.
type AuthService struct {
    users      UserStore
    tokens     TokenStore
    secret     string
    accessTTL  time.Duration
    refreshTTL time.Duration
    bcryptCost int
}

func NewAuthService(users UserStore, tokens TokenStore, cfg config.Config) *AuthService {
    return &AuthService{
        users:      users,
        tokens:     tokens,
        secret:     cfg.JWTSecret,
        accessTTL:  cfg.AccessTTL,
        refreshTTL: cfg.RefreshTTL,
        bcryptCost: cfg.BcryptCost,
    }
}

// Session is the result of a successful login, registration or
// refresh: a fresh token pair plus the public view of the user.
type Session struct {
    User           model.PublicUser
    AccessToken    string
    AccessExpires  time.Time
    RefreshToken   string
    RefreshExpires time.Time
    ExpiresIn      int64 // access token lifetime in seconds
}

// Login verifies credentials and issues a new session.  Absent users,
// password mismatches and inactive accounts all fail with
// ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (Session, error) {
    u, err := s.users.GetByEmail(ctx, email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return Session{}, ErrUnauthorized
        }
        return Session{}, err
    }
    if !utils.VerifyPassword(u.PasswordHash, password) {
        return Session{}, ErrUnauthorized
    }
    if u.Status != model.StatusActive {
        return Session{}, ErrUnauthorized
    }
    return s.issueSession(ctx, u, ip, userAgent)
}

// Register creates a customer account and logs it in.  The role is
// forced to customer no matter what the caller sent; admins are only
// created through RegisterAdmin.
func (s *AuthService) Register(ctx context.Context, username, email, password, ip, userAgent string) (Session, error) {
    return s.register(ctx, username, email, password, ip, userAgent, model.RoleCustomer)
}

// RegisterAdmin creates an admin account and logs it in.  The handler
// is responsible for authorizing the call (existing admin, or the
// bootstrap case when no admin exists yet).
func (s *AuthService) RegisterAdmin(ctx context.Context, username, email, password, ip, userAgent string) (Session, error) {
    return s.register(ctx, username, email, password, ip, userAgent, model.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, username, email, password, ip, userAgent string, role model.UserRole) (Session, error) {
    hash, err := utils.HashPassword(password, s.bcryptCost)
    if err != nil {
        return Session{}, err
    }
    u := model.User{
        Username:     username,
        Email:        email,
        PasswordHash: hash,
        Role:         role,
        Status:       model.StatusActive,
    }
    id, err := s.users.Create(ctx, u)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return Session{}, ErrEmailTaken
        }
        return Session{}, err
    }
    u.ID = id
    return s.issueSession(ctx, u, ip, userAgent)
}

// Refresh exchanges a valid refresh token for a new session, rotating
// the presented token.  Rotation is mandatory: the matched ledger row
// is revoked with a compare-and-swap before the new pair is issued, so
// when two requests race over the same token exactly one wins and the
// other fails closed.  A previously rotated or revoked token never
// matches again.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
    claims, err := utils.VerifyRefresh(s.secret, raw)
    if err != nil {
        return Session{}, ErrUnauthorized
    }
    userID, err := utils.UserIDFromSubject(claims.Subject)
    if err != nil {
        return Session{}, ErrUnauthorized
    }
    u, err := s.users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return Session{}, ErrUnauthorized
        }
        return Session{}, err
    }
    if u.Status != model.StatusActive {
        return Session{}, ErrUnauthorized
    }
    rec, err := s.tokens.FindMatch(ctx, u.ID, raw)
    if err != nil {
        if errors.Is(err, repository.ErrNoActiveToken) {
            return Session{}, ErrUnauthorized
        }
        return Session{}, err
    }
    // The ledger expiry is checked on top of the JWT expiry: an
    // operator can shorten a row's expires_at without reissuing
    // anything, and the row must then stop working immediately.
    if time.Now().UTC().After(rec.ExpiresAt) {
        return Session{}, ErrUnauthorized
    }
    won, err := s.tokens.Revoke(ctx, rec.ID)
    if err != nil {
        return Session{}, err
    }
    if !won {
        return Session{}, ErrUnauthorized
    }
    // Audit metadata travels with the lineage across rotations.
    return s.issueSession(ctx, u, rec.IPAddress, rec.UserAgent)
}

// Logout revokes every live refresh token of the user.  Idempotent:
// calling it with nothing left to revoke is a successful no-op.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
    return s.tokens.RevokeAll(ctx, userID)
}

// ValidateToken verifies an access token and loads its user.  Invalid
// or expired tokens, unknown subjects and inactive accounts fail with
// ErrUnauthorized.
func (s *AuthService) ValidateToken(ctx context.Context, raw string) (model.User, error) {
    claims, err := utils.VerifyAccess(s.secret, raw)
    if err != nil {
        return model.User{}, ErrUnauthorized
    }
    userID, err := utils.UserIDFromSubject(claims.Subject)
    if err != nil {
        return model.User{}, ErrUnauthorized
    }
    u, err := s.users.GetByID(ctx, userID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return model.User{}, ErrUnauthorized
        }
        return model.User{}, err
    }
    if u.Status != model.StatusActive {
        return model.User{}, ErrUnauthorized
    }
    return u, nil
}

// AdminExists reports whether an admin account has been created yet.
// Gates the unauthenticated bootstrap path of RegisterAdmin.
func (s *AuthService) AdminExists(ctx context.Context) (bool, error) {
    return s.users.AdminExists(ctx)
}

// AccessTTL exposes the configured access token lifetime for cookie
// max-age computation.
func (s *AuthService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL exposes the configured refresh token lifetime.
func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *AuthService) issueSession(ctx context.Context, u model.User, ip, userAgent string) (Session, error) {
    access, err := utils.NewAccessToken(s.secret, u, s.accessTTL)
    if err != nil {
        return Session{}, err
    }
    refresh, err := utils.NewRefreshToken(s.secret, u.ID, s.refreshTTL)
    if err != nil {
        return Session{}, err
    }
    if _, err := s.tokens.Save(ctx, u.ID, refresh.Token, ip, userAgent, refresh.Exp); err != nil {
        return Session{}, err
    }
    return Session{
        User:           u.Public(),
        AccessToken:    access.Token,
        AccessExpires:  access.Exp,
        RefreshToken:   refresh.Token,
        RefreshExpires: refresh.Exp,
        ExpiresIn:      int64(s.accessTTL / time.Second),
    }, nil
}
