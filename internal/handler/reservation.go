package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
)

// ReservationHandler exposes table bookings.  Customers manage their
// own reservations; staff confirm, complete or cancel any of them.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo
    Tables       *repository.TableRepo
}

func NewReservationHandler(reservations *repository.ReservationRepo, tables *repository.TableRepo) *ReservationHandler {
    return &ReservationHandler{Reservations: reservations, Tables: tables}
}

type reservationReq struct {
    RestaurantID uint64 `json:"restaurant_id"`
    TableID      uint64 `json:"table_id"`
    ReservedAt   string `json:"reserved_at"` // RFC3339
    Guests       uint32 `json:"guests"`
    Notes        string `json:"notes"`
}

// Create handles POST /v1/reservations.  The booking starts pending;
// a bigger party than the table seats is rejected up front.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.RestaurantID == 0 || req.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id and table_id are required"})
    }
    if req.Guests == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be positive"})
    }
    reservedAt, err := time.Parse(time.RFC3339, req.ReservedAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reserved_at, want RFC3339"})
    }
    if reservedAt.Before(time.Now()) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reserved_at must be in the future"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    table, err := h.Tables.GetByID(ctx, req.TableID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify table"})
    }
    if table.RestaurantID != req.RestaurantID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table does not belong to restaurant"})
    }
    if req.Guests > table.Capacity {
        return c.JSON(http.StatusConflict, echo.Map{"error": "party exceeds table capacity", "capacity": table.Capacity})
    }

    rv := model.Reservation{
        RestaurantID: req.RestaurantID,
        TableID:      req.TableID,
        UserID:       userID,
        ReservedAt:   reservedAt.UTC(),
        Guests:       req.Guests,
        Status:       model.ReservationPending,
        Notes:        req.Notes,
    }
    id, err := h.Reservations.Create(ctx, rv)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    fresh, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        rv.ID = id
        return c.JSON(http.StatusCreated, rv)
    }
    return c.JSON(http.StatusCreated, fresh)
}

// List handles GET /v1/reservations.  Customers get their own; staff
// may filter by ?user_id= and ?restaurant_id=.
func (h *ReservationHandler) List(c echo.Context) error {
    callerID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    userID := callerID
    restaurantID := uint64(0)
    if isStaff(middleware.Role(c)) {
        var err error
        if userID, err = queryID(c, "user_id"); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
        }
        if restaurantID, err = queryID(c, "restaurant_id"); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant_id"})
        }
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Reservations.List(ctx, userID, restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rv, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if callerID, _ := middleware.UserID(c); rv.UserID != callerID && !isStaff(middleware.Role(c)) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, rv)
}

// Update handles PUT /v1/reservations/:id.  Only pending reservations
// may be rescheduled, and only by their owner or staff.
func (h *ReservationHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Guests == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be positive"})
    }
    reservedAt, err := time.Parse(time.RFC3339, req.ReservedAt)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reserved_at, want RFC3339"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rv, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if callerID, _ := middleware.UserID(c); rv.UserID != callerID && !isStaff(middleware.Role(c)) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if rv.Status != model.ReservationPending {
        return c.JSON(http.StatusConflict, echo.Map{"error": "only pending reservations can be changed"})
    }

    rv.ReservedAt = reservedAt.UTC()
    rv.Guests = req.Guests
    rv.Notes = req.Notes
    if err := h.Reservations.Update(ctx, rv); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
    }
    fresh, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    return c.JSON(http.StatusOK, fresh)
}

// SetStatus handles PATCH /v1/reservations/:id/status.  Customers may
// only cancel their own booking; other transitions are staff actions.
func (h *ReservationHandler) SetStatus(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !model.ValidReservationStatus(body.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rv, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    if !isStaff(middleware.Role(c)) {
        callerID, _ := middleware.UserID(c)
        if rv.UserID != callerID || body.Status != model.ReservationCancelled {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }

    if err := h.Reservations.SetStatus(ctx, id, body.Status); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": body.Status})
}

// Delete handles DELETE /v1/reservations/:id (admin only, enforced in
// the router).
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Reservations.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
    }
    return c.NoContent(http.StatusNoContent)
}
