package model

import "time"

// Notification is a message addressed to a single user, e.g. "your
// order is ready".  Rows are written by handlers and by the order
// event consumer.
type Notification struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Message   string    `json:"message"`
    Read      bool      `json:"read"`
    CreatedAt time.Time `json:"created_at"`
}
