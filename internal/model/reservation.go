package model

import "time"

// Reservation statuses.  Pending until staff confirms; completed when
// the party has been seated, cancelled by either side.
const (
    ReservationPending   = "pending"
    ReservationConfirmed = "confirmed"
    ReservationCancelled = "cancelled"
    ReservationCompleted = "completed"
)

// ValidReservationStatus reports whether s is a known reservation status.
func ValidReservationStatus(s string) bool {
    switch s {
    case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
        return true
    }
    return false
}

// Reservation is a customer's booking of a table for a point in time.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant being booked.
//  TableID      – table being booked.
//  UserID       – customer who made the reservation.
//  ReservedAt   – start of the booking, stored in UTC.
//  Guests       – party size.
//  Status       – pending/confirmed/cancelled/completed.
//  Notes        – free-form customer notes (may be empty).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
    ID           uint64    `json:"id"`
    RestaurantID uint64    `json:"restaurant_id"`
    TableID      uint64    `json:"table_id"`
    UserID       uint64    `json:"user_id"`
    ReservedAt   time.Time `json:"reserved_at"`
    Guests       uint32    `json:"guests"`
    Status       string    `json:"status"`
    Notes        string    `json:"notes,omitempty"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}
