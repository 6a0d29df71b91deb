package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/queue"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/service"
)

// OrderHandler exposes order placement and the kitchen workflow.
// Customers see only their own orders; staff see everything.  A
// successful creation announces the order on the broker so the
// consumer can notify the customer; broker failures never fail the
// request.
type OrderHandler struct {
    Orders   *repository.OrderRepo
    Products *repository.ProductRepo
    Tables   *repository.TableRepo
}

func NewOrderHandler(orders *repository.OrderRepo, products *repository.ProductRepo, tables *repository.TableRepo) *OrderHandler {
    return &OrderHandler{Orders: orders, Products: products, Tables: tables}
}

type orderItemReq struct {
    ProductID uint64 `json:"product_id"`
    Quantity  uint32 `json:"quantity"`
}

type orderReq struct {
    RestaurantID uint64         `json:"restaurant_id"`
    TableID      uint64         `json:"table_id"`
    Items        []orderItemReq `json:"items"`
}

// Create handles POST /v1/orders.  Unit prices are snapshotted from
// the current menu; unavailable products are rejected.
func (h *OrderHandler) Create(c echo.Context) error {
    userID, ok := middleware.UserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req orderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.RestaurantID == 0 || req.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id and table_id are required"})
    }
    if len(req.Items) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "order needs at least one item"})
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

    items := make([]model.OrderItem, 0, len(req.Items))
    for _, it := range req.Items {
        if it.Quantity == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "item quantity must be positive"})
        }
        p, err := h.Products.GetByID(ctx, it.ProductID)
        if err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
        }
        if !p.Available || p.RestaurantID != req.RestaurantID {
            return c.JSON(http.StatusConflict, echo.Map{"error": "product not available", "product_id": p.ID})
        }
        items = append(items, model.OrderItem{
            ProductID:  p.ID,
            Quantity:   it.Quantity,
            PriceCents: p.PriceCents,
        })
    }

    order, err := h.Orders.Create(ctx, model.Order{
        RestaurantID: req.RestaurantID,
        TableID:      req.TableID,
        UserID:       userID,
        Status:       model.OrderPending,
    }, items)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
    }

    // Announce asynchronously; the order stands even if the broker is
    // unreachable.
    event := queue.OrderCreatedEvent{
        OrderID:      order.ID,
        UserID:       order.UserID,
        RestaurantID: order.RestaurantID,
        TableID:      order.TableID,
        Status:       order.Status,
        ItemCount:    len(order.Items),
        TotalCents:   order.TotalCents,
        CreatedAt:    time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer pubCancel()
        _ = service.PublishOrderCreated(pubCtx, event)
    }()

    return c.JSON(http.StatusCreated, order)
}

// List handles GET /v1/orders.  Customers get their own orders; staff
// may filter by ?user_id= and ?restaurant_id=.
func (h *OrderHandler) List(c echo.Context) error {
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

    items, err := h.Orders.List(ctx, userID, restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/orders/:id.  Customers may only read their own.
func (h *OrderHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    order, err := h.Orders.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
    }
    if callerID, _ := middleware.UserID(c); order.UserID != callerID && !isStaff(middleware.Role(c)) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, order)
}

// SetStatus handles PATCH /v1/orders/:id/status (staff only, enforced
// in the router).
func (h *OrderHandler) SetStatus(c echo.Context) error {
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
    if !model.ValidOrderStatus(body.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Orders.SetStatus(ctx, id, body.Status); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": body.Status})
}

// Delete handles DELETE /v1/orders/:id (admin only, enforced in the
// router).
func (h *OrderHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Orders.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete order"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListItems handles GET /v1/orders/:id/items.
func (h *OrderHandler) ListItems(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    order, err := h.Orders.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
    }
    if callerID, _ := middleware.UserID(c); order.UserID != callerID && !isStaff(middleware.Role(c)) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": order.Items})
}

// UpdateItem handles PATCH /v1/order-items/:id.  Only the quantity may
// change; the order total is recomputed atomically.  Items of orders
// past pending are frozen.
func (h *OrderHandler) UpdateItem(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Quantity uint32 `json:"quantity"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.Quantity == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    order, ok := h.itemOrder(ctx, c, id)
    if !ok {
        return nil // response already written
    }
    if order.Status != model.OrderPending {
        return c.JSON(http.StatusConflict, echo.Map{"error": "order is no longer editable"})
    }

    if err := h.Orders.UpdateItem(ctx, id, body.Quantity); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update item"})
    }
    it, err := h.Orders.GetItem(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load item"})
    }
    return c.JSON(http.StatusOK, it)
}

// DeleteItem handles DELETE /v1/order-items/:id.
func (h *OrderHandler) DeleteItem(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    order, ok := h.itemOrder(ctx, c, id)
    if !ok {
        return nil
    }
    if order.Status != model.OrderPending {
        return c.JSON(http.StatusConflict, echo.Map{"error": "order is no longer editable"})
    }

    if err := h.Orders.DeleteItem(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete item"})
    }
    return c.NoContent(http.StatusNoContent)
}

// itemOrder loads the order owning an item and enforces ownership.
// Returns ok=false after writing the error response itself.
func (h *OrderHandler) itemOrder(ctx context.Context, c echo.Context, itemID uint64) (model.Order, bool) {
    it, err := h.Orders.GetItem(ctx, itemID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "order item not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load item"})
        }
        return model.Order{}, false
    }
    order, err := h.Orders.GetByID(ctx, it.OrderID)
    if err != nil {
        _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
        return model.Order{}, false
    }
    if callerID, _ := middleware.UserID(c); order.UserID != callerID && !isStaff(middleware.Role(c)) {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return model.Order{}, false
    }
    return order, true
}
