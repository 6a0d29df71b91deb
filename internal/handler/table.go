package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
)

// TableHandler exposes table CRUD nested under restaurants.  Listing
// is public; writes are admin-only, status changes also allow waiters.
type TableHandler struct {
    Tables      *repository.TableRepo
    Restaurants *repository.RestaurantRepo
}

func NewTableHandler(tables *repository.TableRepo, restaurants *repository.RestaurantRepo) *TableHandler {
    return &TableHandler{Tables: tables, Restaurants: restaurants}
}

// Create handles POST /v1/restaurants/:restaurant_id/tables.
func (h *TableHandler) Create(c echo.Context) error {
    restaurantID, err := pathID(c, "restaurant_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant_id"})
    }
    var body struct {
        Number   uint32 `json:"number"`
        Capacity uint32 `json:"capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.Number == 0 || body.Capacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity are required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Restaurants.GetByID(ctx, restaurantID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify restaurant"})
    }

    t := model.Table{
        RestaurantID: restaurantID,
        Number:       body.Number,
        Capacity:     body.Capacity,
        Status:       model.TableAvailable,
    }
    id, err := h.Tables.Create(ctx, t)
    if err != nil {
        if errors.Is(err, repository.ErrTableNumberTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already taken"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create table"})
    }
    t.ID = id
    return c.JSON(http.StatusCreated, t)
}

// List handles GET /v1/restaurants/:restaurant_id/tables.
func (h *TableHandler) List(c echo.Context) error {
    restaurantID, err := pathID(c, "restaurant_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant_id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Tables.ListByRestaurant(ctx, restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    t, err := h.Tables.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load table"})
    }
    return c.JSON(http.StatusOK, t)
}

// Update handles PUT /v1/tables/:id (number and capacity only).
func (h *TableHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Number   uint32 `json:"number"`
        Capacity uint32 `json:"capacity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.Number == 0 || body.Capacity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and capacity are required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    err = h.Tables.Update(ctx, model.Table{ID: id, Number: body.Number, Capacity: body.Capacity})
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        case errors.Is(err, repository.ErrTableNumberTaken):
            return c.JSON(http.StatusConflict, echo.Map{"error": "table number already taken"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
    }
    t, err := h.Tables.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load table"})
    }
    return c.JSON(http.StatusOK, t)
}

// SetStatus handles PATCH /v1/tables/:id/status.
func (h *TableHandler) SetStatus(c echo.Context) error {
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
    switch body.Status {
    case model.TableAvailable, model.TableOccupied, model.TableReserved:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Tables.SetStatus(ctx, id, body.Status); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": body.Status})
}

// Delete handles DELETE /v1/tables/:id.
func (h *TableHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Tables.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete table"})
    }
    return c.NoContent(http.StatusNoContent)
}
