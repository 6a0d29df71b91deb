package utils // package utils provides token issuing, verification and hashing helpers

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
    "github.com/google/uuid"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
)

// Sentinel errors returned by the verify functions.  Callers fold
// both into a generic unauthorized response; the distinction exists
// for logging and tests.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// refreshType is the value of the "typ" claim that marks a token as a
// refresh token.  Access tokens carry no "typ" claim; a refresh token
// presented where an access token is expected (or vice versa) fails
// verification.
const refreshType = "refresh"

// AccessClaims is the typed payload of an access token: the subject
// (user ID), email and role, plus the registered iat/exp claims.
type AccessClaims struct {
    Email string `json:"email"`
    Role  string `json:"role"`
    jwt.RegisteredClaims
}

// RefreshClaims is the typed payload of a refresh token.  It carries
// only the subject and the discriminating "typ" claim.
type RefreshClaims struct {
    TokenType string `json:"typ"`
    jwt.RegisteredClaims
}

// SignedToken bundles a serialized JWT with its expiration time.
type SignedToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 access token for a user.
// The claim shape is deterministic: {sub, email, role, iat, exp}.
func NewAccessToken(secret string, u model.User, ttl time.Duration) (SignedToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := AccessClaims{
        Email: u.Email,
        Role:  string(u.Role),
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(u.ID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SignedToken{}, err
    }
    return SignedToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh token embedding
// {sub, typ:"refresh", iat, exp}.  The raw string goes back to the
// client; only a hash of it is persisted in the ledger.
func NewRefreshToken(secret string, userID uint64, ttl time.Duration) (SignedToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := RefreshClaims{
        TokenType: refreshType,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
            // jti makes every token unique even when two are minted in
            // the same second; without it rotation could reissue a
            // byte-identical token.
            ID: uuid.NewString(),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SignedToken{}, err
    }
    return SignedToken{Token: signed, Exp: exp}, nil
}

// VerifyAccess validates signature and expiry of an access token and
// returns its typed claims.  Refresh tokens are rejected because they
// lack the email/role claims required here.
func VerifyAccess(secret, raw string) (AccessClaims, error) {
    var claims AccessClaims
    if err := parseInto(secret, raw, &claims); err != nil {
        return AccessClaims{}, err
    }
    if claims.Subject == "" || claims.Role == "" {
        return AccessClaims{}, ErrTokenInvalid
    }
    return claims, nil
}

// VerifyRefresh validates signature and expiry of a refresh token and
// asserts the "typ" discriminator, so access tokens cannot be replayed
// against the refresh endpoint.
func VerifyRefresh(secret, raw string) (RefreshClaims, error) {
    var claims RefreshClaims
    if err := parseInto(secret, raw, &claims); err != nil {
        return RefreshClaims{}, err
    }
    if claims.Subject == "" || claims.TokenType != refreshType {
        return RefreshClaims{}, ErrTokenInvalid
    }
    return claims, nil
}

// UserIDFromSubject converts a "sub" claim back into a user ID.
func UserIDFromSubject(sub string) (uint64, error) {
    id, err := strconv.ParseUint(sub, 10, 64)
    if err != nil || id == 0 {
        return 0, ErrTokenInvalid
    }
    return id, nil
}

func parseInto(secret, raw string, claims jwt.Claims) error {
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return ErrTokenExpired
        }
        return ErrTokenInvalid
    }
    if !tok.Valid {
        return ErrTokenInvalid
    }
    return nil
}
