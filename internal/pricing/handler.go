package pricing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/margem-app/margem/internal/platform/httpx"
)

// ServicePort abstracts the recalculation service for the HTTP layer.
type ServicePort interface {
	Recalculate(ctx context.Context, input RecalcInput) (Summary, error)
	LastSummary(ctx context.Context, userID uuid.UUID) (Summary, error)
}

// Handler exposes the recalculation endpoints.
type Handler struct {
	logger    *slog.Logger
	service   ServicePort
	validator *validator.Validate
	rateLimit int
}

// NewHandler constructs a Handler instance. rateLimit caps recalculation
// requests per client per minute; zero disables the limiter.
func NewHandler(logger *slog.Logger, service ServicePort, rateLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		rateLimit: rateLimit,
	}
}

// MountRoutes registers pricing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.Limit(h.rateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}
		r.Post("/recalculate", h.recalculate)
	})
	r.Get("/recalculate/last", h.lastSummary)
}

type recalcRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	IngredientID string `json:"ingredient_id" validate:"omitempty,uuid"`
}

type recalcResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Updated  int              `json:"updated"`
	Failures []ProductFailure `json:"failures,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// messages surfaced to the product UI, which is Brazilian Portuguese.
const (
	msgRecalculated = "Produtos recalculados com sucesso"
	msgPartial      = "Alguns produtos não puderam ser recalculados"
	msgNoProducts   = "Nenhum produto para recalcular"
	msgUserRequired = "user_id é obrigatório"
)

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request) {
	var req recalcRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: "corpo da requisição inválido"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: msgUserRequired})
		return
	}

	input := RecalcInput{UserID: uuid.MustParse(req.UserID)}
	if req.IngredientID != "" {
		input.IngredientID = uuid.MustParse(req.IngredientID)
	}

	summary, err := h.service.Recalculate(r.Context(), input)
	if err != nil {
		h.logger.Error("recalculate", slog.String("user_id", req.UserID), slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "falha ao recalcular produtos"})
		return
	}

	resp := recalcResponse{Success: true, Updated: summary.Updated, Failures: summary.Failures}
	switch {
	case summary.Updated == 0 && len(summary.Failures) == 0:
		resp.Message = msgNoProducts
	case len(summary.Failures) > 0:
		resp.Message = msgPartial
	default:
		resp.Message = msgRecalculated
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) lastSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, errorResponse{Error: msgUserRequired})
		return
	}

	summary, err := h.service.LastSummary(r.Context(), userID)
	if errors.Is(err, ErrSummaryNotFound) {
		httpx.JSON(w, http.StatusNotFound, errorResponse{Error: "nenhuma recalculação registrada"})
		return
	}
	if err != nil {
		h.logger.Error("load last summary", slog.String("user_id", userID.String()), slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, errorResponse{Error: "falha ao consultar recalculação"})
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
