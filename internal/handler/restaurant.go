package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/middleware"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
)

// RestaurantHandler exposes restaurant CRUD.  Reads are public, writes
// are admin-only (enforced in the router).
type RestaurantHandler struct {
    Restaurants *repository.RestaurantRepo
}

func NewRestaurantHandler(r *repository.RestaurantRepo) *RestaurantHandler {
    return &RestaurantHandler{Restaurants: r}
}

type restaurantReq struct {
    Name        string `json:"name"`
    Address     string `json:"address"`
    Phone       string `json:"phone"`
    Description string `json:"description"`
}

func (r *restaurantReq) validate() string {
    r.Name = strings.TrimSpace(r.Name)
    r.Address = strings.TrimSpace(r.Address)
    r.Phone = strings.TrimSpace(r.Phone)
    switch {
    case r.Name == "":
        return "name is required"
    case r.Address == "":
        return "address is required"
    }
    return ""
}

// Create handles POST /v1/restaurants.  The authenticated admin
// becomes the owner.
func (h *RestaurantHandler) Create(c echo.Context) error {
    var req restaurantReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ownerID, _ := middleware.UserID(c)

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Restaurants.Create(ctx, model.Restaurant{
        Name:        req.Name,
        Address:     req.Address,
        Phone:       req.Phone,
        Description: req.Description,
        OwnerID:     ownerID,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create restaurant"})
    }
    rest, err := h.Restaurants.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurant"})
    }
    return c.JSON(http.StatusCreated, rest)
}

// List handles GET /v1/restaurants.
func (h *RestaurantHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Restaurants.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurants"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/restaurants/:id.
func (h *RestaurantHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    rest, err := h.Restaurants.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurant"})
    }
    return c.JSON(http.StatusOK, rest)
}

// Update handles PUT /v1/restaurants/:id.
func (h *RestaurantHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req restaurantReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := req.validate(); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    err = h.Restaurants.Update(ctx, model.Restaurant{
        ID:          id,
        Name:        req.Name,
        Address:     req.Address,
        Phone:       req.Phone,
        Description: req.Description,
    })
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update restaurant"})
    }
    rest, err := h.Restaurants.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load restaurant"})
    }
    return c.JSON(http.StatusOK, rest)
}

// Delete handles DELETE /v1/restaurants/:id.
func (h *RestaurantHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Restaurants.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete restaurant"})
    }
    return c.NoContent(http.StatusNoContent)
}
