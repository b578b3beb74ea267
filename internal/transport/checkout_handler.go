package transport

import (
	"net/http"

	"safegear/internal/cart"
	"safegear/internal/checkout"
	"safegear/internal/domain"
	"safegear/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest is the order-submission payload
type CheckoutRequest struct {
	Customer struct {
		FullName string `json:"full_name" validate:"required"`
		Phone    string `json:"phone" validate:"required"`
		Location string `json:"location" validate:"required"`
		City     string `json:"city" validate:"required"`
	} `json:"customer"`
	Payment struct {
		Method    string `json:"method" validate:"required,oneof=mpesa cod"`
		MpesaCode string `json:"mpesa_code" validate:"required_if=Method mpesa"`
	} `json:"payment"`
}

// CheckoutResponse reports the outcome of an order submission
type CheckoutResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckoutHandler handles order placement
type CheckoutHandler struct {
	carts    *cart.Manager
	checkout *checkout.Service
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(carts *cart.Manager, checkoutService *checkout.Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkoutService,
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout route
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.PlaceOrder)
}

// PlaceOrder snapshots the visitor's cart into an order. On failure the cart
// is left intact so the visitor can retry.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	visitorID := r.Header.Get(VisitorIDHeader)
	if visitorID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing "+VisitorIDHeader+" header")
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	agg := h.carts.ForVisitor(r.Context(), visitorID)

	customer := domain.Customer{
		FullName: req.Customer.FullName,
		Phone:    req.Customer.Phone,
		Location: req.Customer.Location,
		City:     req.Customer.City,
	}
	payment := domain.Payment{
		Method:    domain.PaymentMethod(req.Payment.Method),
		MpesaCode: req.Payment.MpesaCode,
	}

	order, err := h.checkout.PlaceOrder(r.Context(), agg, customer, payment)
	if err != nil {
		switch err {
		case checkout.ErrEmptyCart:
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case checkout.ErrMissingMpesaCode:
			middleware.RespondWithError(w, http.StatusBadRequest, "mpesa transaction code is required")
		default:
			h.logger.Error("Order submission failed", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusBadGateway, CheckoutResponse{
				Success: false,
				Error:   "order submission failed, please try again",
			})
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Success: true,
		OrderID: order.ID.String(),
	})
}
