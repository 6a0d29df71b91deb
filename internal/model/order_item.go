package model

// OrderItem is one product line of an order.  PriceCents is the unit
// price at the time the order was created, so later menu changes do
// not alter past orders.
type OrderItem struct {
    ID         uint64 `json:"id"`
    OrderID    uint64 `json:"order_id"`
    ProductID  uint64 `json:"product_id"`
    Quantity   uint32 `json:"quantity"`
    PriceCents uint32 `json:"price_cents"` // unit price snapshot
}
