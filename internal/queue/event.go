// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// OrderQueueName is the durable queue order events are announced on.
const OrderQueueName = "order.created"

// OrderCreatedEvent is published when an order has been persisted.
// It carries enough information for downstream consumers to notify
// the customer and the kitchen without querying the primary database.
type OrderCreatedEvent struct {
    OrderID      uint64 `json:"order_id"`
    UserID       uint64 `json:"user_id"`
    RestaurantID uint64 `json:"restaurant_id"`
    TableID      uint64 `json:"table_id"`
    Status       string `json:"status"`
    ItemCount    int    `json:"item_count"`
    TotalCents   uint32 `json:"total_cents"`
    CreatedAt    string `json:"created_at"`
}
