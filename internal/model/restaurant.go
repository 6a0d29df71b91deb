package model

import "time"

// Restaurant is a venue managed by an owning user.
type Restaurant struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    Address     string    `json:"address"`
    Phone       string    `json:"phone"`
    Description string    `json:"description,omitempty"`
    OwnerID     uint64    `json:"owner_id"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}
