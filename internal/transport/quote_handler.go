package transport

import (
	"errors"
	"net/http"

	"safegear/internal/domain"
	"safegear/internal/middleware"
	"safegear/internal/repository"
	"safegear/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteRequestPayload is the storefront payload for submitting a quote request
type QuoteRequestPayload struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

// QuoteRespondRequest is the admin payload for answering a quote request
type QuoteRespondRequest struct {
	Response string `json:"response" validate:"required"`
}

// UpdateQuoteStatusRequest is the admin payload for moving a quote through the
// review workflow
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteView decorates a quote request with its human-readable status label
type QuoteView struct {
	*domain.QuoteRequest
	StatusLabel string `json:"status_label"`
}

// QuoteListResponse is a paginated admin quote board page
type QuoteListResponse struct {
	Quotes   []QuoteView `json:"quotes"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// QuoteHandler handles HTTP requests for the quote request workflow
type QuoteHandler struct {
	quoteService service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// RegisterRoutes registers storefront and admin quote routes
func (h *QuoteHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Post("/api/quotes", h.Submit)

	r.Route("/api/admin/quotes", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/", h.List)
		r.Post("/{id}/response", h.Respond)
		r.Patch("/{id}/status", h.UpdateStatus)
	})
}

// Submit records a new quote request from the storefront
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequestPayload
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Submit(r.Context(), service.QuoteInput{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Message:     req.Message,
	})
	if err != nil {
		h.logger.Error("Failed to submit quote request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit quote request")
		return
	}

	h.logger.Info("Quote request submitted", zap.String("quote_id", quote.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, quoteView(quote))
}

// List returns quote requests for the admin board, optionally filtered by status
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	var status *domain.QuoteStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.QuoteStatus(raw)
		if !s.Valid() {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown quote status")
			return
		}
		status = &s
	}

	quotes, total, err := h.quoteService.List(r.Context(), status, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list quote requests", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list quote requests")
		return
	}

	views := make([]QuoteView, 0, len(quotes))
	for _, quote := range quotes {
		views = append(views, quoteView(quote))
	}

	middleware.RespondWithJSON(w, http.StatusOK, QuoteListResponse{
		Quotes:   views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Respond attaches an admin response to a quote request
func (h *QuoteHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var req QuoteRespondRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Respond(r.Context(), id, req.Response)
	if err != nil {
		h.respondQuoteError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, quoteView(quote))
}

// UpdateStatus moves a quote request to a new workflow status
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var req UpdateQuoteStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), id, domain.QuoteStatus(req.Status))
	if err != nil {
		h.respondQuoteError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, quoteView(quote))
}

func (h *QuoteHandler) respondQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrQuoteNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "quote request not found")
	case errors.Is(err, service.ErrInvalidQuoteStatus):
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown quote status")
	default:
		h.logger.Error("Quote request operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "quote request operation failed")
	}
}

func quoteView(quote *domain.QuoteRequest) QuoteView {
	return QuoteView{
		QuoteRequest: quote,
		StatusLabel:  quote.Status.Label(),
	}
}
