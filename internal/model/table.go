package model

// Table statuses.  A table is available until a reservation or an
// order claims it.
const (
    TableAvailable = "available"
    TableOccupied  = "occupied"
    TableReserved  = "reserved"
)

// Table is a physical table inside a restaurant.
type Table struct {
    ID           uint64 `json:"id"`
    RestaurantID uint64 `json:"restaurant_id"`
    Number       uint32 `json:"number"` // unique per restaurant
    Capacity     uint32 `json:"capacity"`
    Status       string `json:"status"`
}
