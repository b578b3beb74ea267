package transport

import (
	"net/http"
	"time"

	"safegear/internal/cart"
	"safegear/internal/domain"
	"safegear/internal/middleware"
	"safegear/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisitorIDHeader carries the opaque, client-chosen identifier that scopes a
// visitor's cart
const VisitorIDHeader = "X-Visitor-ID"

// timeFormat is how timestamps are rendered on the wire
const timeFormat = time.RFC3339

// AddItemRequest is the payload for adding a product to the cart
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the payload for changing a line's quantity. Zero and
// negative quantities remove the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartView is the cart representation returned after every read or mutation
type CartView struct {
	ID         string            `json:"id"`
	Items      []domain.CartLine `json:"items"`
	TotalPrice float64           `json:"total_price"`
	IsEmpty    bool              `json:"is_empty"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	carts      *cart.Manager
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cart.Manager, products repository.ProductRepository, categories repository.CategoryRepository, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:      carts,
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

// GetCart returns the visitor's current cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.aggregator(w, r)
	if !ok {
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cartView(agg.Snapshot()))
}

// AddItem resolves the product and merges it into the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.aggregator(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.FindByID(r.Context(), productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to load product for cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	categoryName := ""
	if category, err := h.categories.FindByID(r.Context(), product.CategoryID); err == nil {
		categoryName = category.Name
	}

	agg.AddItem(r.Context(), domain.CartLine{
		ProductID:      product.ID.String(),
		Name:           product.Name,
		Slug:           product.Slug,
		SKU:            product.SKU,
		Category:       categoryName,
		ImageURL:       product.ImageURL,
		Certifications: product.Certifications,
		Specs:          product.Specs,
		UnitPrice:      product.Price,
		OldPrice:       product.OldPrice,
		Quantity:       req.Quantity,
		InStock:        product.InStock(),
		StockCount:     product.Stock,
	})

	middleware.RespondWithJSON(w, http.StatusOK, cartView(agg.Snapshot()))
}

// UpdateQuantity changes a line's quantity; quantities below 1 remove the line
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.aggregator(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity)

	middleware.RespondWithJSON(w, http.StatusOK, cartView(agg.Snapshot()))
}

// RemoveItem drops a line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.aggregator(w, r)
	if !ok {
		return
	}

	agg.RemoveItem(r.Context(), chi.URLParam(r, "productID"))

	middleware.RespondWithJSON(w, http.StatusOK, cartView(agg.Snapshot()))
}

// ClearCart resets the visitor's cart to a fresh empty instance
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	agg, ok := h.aggregator(w, r)
	if !ok {
		return
	}

	agg.Clear(r.Context())

	middleware.RespondWithJSON(w, http.StatusOK, cartView(agg.Snapshot()))
}

// aggregator restores the visitor's cart or rejects the request when the
// visitor header is missing
func (h *CartHandler) aggregator(w http.ResponseWriter, r *http.Request) (*cart.Aggregator, bool) {
	visitorID := r.Header.Get(VisitorIDHeader)
	if visitorID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing "+VisitorIDHeader+" header")
		return nil, false
	}

	return h.carts.ForVisitor(r.Context(), visitorID), true
}

func cartView(c domain.Cart) CartView {
	return CartView{
		ID:         c.ID,
		Items:      c.Items,
		TotalPrice: c.TotalPrice(),
		IsEmpty:    c.IsEmpty(),
		CreatedAt:  c.CreatedAt.Format(timeFormat),
		UpdatedAt:  c.UpdatedAt.Format(timeFormat),
	}
}
