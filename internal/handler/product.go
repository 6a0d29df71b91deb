package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/model"
    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/repository"
)

// ProductHandler exposes the menu CRUD.  Reads are public (and cached
// behind the Redis middleware); writes are admin-only.
type ProductHandler struct {
    Products    *repository.ProductRepo
    Restaurants *repository.RestaurantRepo
}

func NewProductHandler(products *repository.ProductRepo, restaurants *repository.RestaurantRepo) *ProductHandler {
    return &ProductHandler{Products: products, Restaurants: restaurants}
}

type productReq struct {
    RestaurantID uint64 `json:"restaurant_id"`
    Name         string `json:"name"`
    Description  string `json:"description"`
    Category     string `json:"category"`
    PriceCents   uint32 `json:"price_cents"`
    Stock        uint32 `json:"stock"`
    Available    *bool  `json:"available"`
}

// Create handles POST /v1/products.
func (h *ProductHandler) Create(c echo.Context) error {
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if req.RestaurantID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if _, err := h.Restaurants.GetByID(ctx, req.RestaurantID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify restaurant"})
    }

    available := true
    if req.Available != nil {
        available = *req.Available
    }
    p := model.Product{
        RestaurantID: req.RestaurantID,
        Name:         req.Name,
        Description:  req.Description,
        Category:     strings.TrimSpace(req.Category),
        PriceCents:   req.PriceCents,
        Stock:        req.Stock,
        Available:    available,
    }
    id, err := h.Products.Create(ctx, p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
    }
    p.ID = id
    return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/products with ?category= and ?available=true
// filters.
func (h *ProductHandler) List(c echo.Context) error {
    onlyAvailable := c.QueryParam("available") == "true"

    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Products.List(ctx, strings.TrimSpace(c.QueryParam("category")), onlyAvailable)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load products"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/products/:id.
func (h *ProductHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
    }
    return c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    available := true
    if req.Available != nil {
        available = *req.Available
    }
    err = h.Products.Update(ctx, model.Product{
        ID:          id,
        Name:        req.Name,
        Description: req.Description,
        Category:    strings.TrimSpace(req.Category),
        PriceCents:  req.PriceCents,
        Stock:       req.Stock,
        Available:   available,
    })
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
    }
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
    }
    return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/products/:id.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Products.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
    }
    return c.NoContent(http.StatusNoContent)
}
