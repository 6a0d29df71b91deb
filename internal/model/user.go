package model

import "time"

// UserRole enumerates the roles a user can hold.  The role drives
// route-level authorization: admins manage the whole system, waiters
// and chefs operate on orders, customers create reservations and
// orders for themselves.
type UserRole string

const (
    RoleAdmin    UserRole = "admin"
    RoleCustomer UserRole = "customer"
    RoleWaiter   UserRole = "waiter"
    RoleChef     UserRole = "chef"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
    switch r {
    case RoleAdmin, RoleCustomer, RoleWaiter, RoleChef:
        return true
    }
    return false
}

// UserStatus marks an account as usable or blocked.  Inactive users
// keep their rows but cannot authenticate or refresh sessions.
type UserStatus string

const (
    StatusActive   UserStatus = "active"
    StatusInactive UserStatus = "inactive"
)

// User mirrors the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – display name, not unique.
//  Email        – unique, stored lower-cased.
//  PasswordHash – bcrypt hashed password; plaintext is never persisted.
//  Role         – one of admin/customer/waiter/chef.
//  Status       – active or inactive.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64     `json:"id"`
    Username     string     `json:"username"`
    Email        string     `json:"email"`
    PasswordHash string     `json:"-"`
    Role         UserRole   `json:"role"`
    Status       UserStatus `json:"status"`
    CreatedAt    time.Time  `json:"created_at"`
    UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicUser is the subset of User that is safe to return to clients.
type PublicUser struct {
    ID       uint64   `json:"id"`
    Username string   `json:"username"`
    Email    string   `json:"email"`
    Role     UserRole `json:"role"`
}

// Public strips credentials and internal state from a User.
func (u User) Public() PublicUser {
    return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
