package model

import "time"

// Order statuses, in lifecycle order.  Cancelled is reachable from
// any non-terminal state.
const (
    OrderPending   = "pending"
    OrderPreparing = "preparing"
    OrderReady     = "ready"
    OrderDelivered = "delivered"
    OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
    switch s {
    case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
        return true
    }
    return false
}

// Order is a food order placed at a table.  Items are stored in
// order_items with a price snapshot taken at creation time.
type Order struct {
    ID           uint64      `json:"id"`
    RestaurantID uint64      `json:"restaurant_id"`
    TableID      uint64      `json:"table_id"`
    UserID       uint64      `json:"user_id"`
    Status       string      `json:"status"`
    TotalCents   uint32      `json:"total_cents"`
    CreatedAt    time.Time   `json:"created_at"`
    UpdatedAt    time.Time   `json:"updated_at"`
    Items        []OrderItem `json:"items,omitempty"` // loaded on detail queries
}
