package model

// Product is a menu item.  Price is stored in cents to avoid float
// rounding in totals.
type Product struct {
    ID           uint64 `json:"id"`
    RestaurantID uint64 `json:"restaurant_id"`
    Name         string `json:"name"`
    Description  string `json:"description,omitempty"`
    Category     string `json:"category,omitempty"`
    PriceCents   uint32 `json:"price_cents"`
    Stock        uint32 `json:"stock"`
    Available    bool   `json:"available"`
}
