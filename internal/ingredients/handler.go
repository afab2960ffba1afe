package ingredients

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/margem-app/margem/internal/platform/httpx"
	"github.com/margem-app/margem/internal/shared"
)

// Handler exposes ingredient CRUD endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers ingredient routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.show)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type ingredientForm struct {
	UserID          string  `json:"user_id" validate:"required,uuid"`
	Name            string  `json:"name" validate:"required"`
	Type            string  `json:"type" validate:"required,oneof=purchased manufactured"`
	PackageCost     float64 `json:"package_cost" validate:"gte=0"`
	PackageQuantity float64 `json:"package_quantity" validate:"gte=0"`
	Unit            string  `json:"unit"`
	YieldPercentage float64 `json:"yield_percentage" validate:"gte=0,lte=100"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id query parameter is required")
		return
	}
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list ingredients", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ingredients": list})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	ing, err := h.service.Get(r.Context(), userID, id)
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "ingredient not found")
		return
	}
	if err != nil {
		h.logger.Error("get ingredient", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, ing)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), h.toModel(form, uuid.Nil))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid ingredient id")
		return
	}
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), h.toModel(form, id))
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "ingredient not found")
		return
	}
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	err := h.service.Delete(r.Context(), userID, id)
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "ingredient not found")
		return
	}
	if err != nil {
		h.logger.Error("delete ingredient", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ingredientForm, bool) {
	var form ingredientForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return form, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return form, false
	}
	return form, true
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (userID, id uuid.UUID, ok bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid ingredient id")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id query parameter is required")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *Handler) toModel(form ingredientForm, id uuid.UUID) Ingredient {
	userID, _ := uuid.Parse(form.UserID)
	return Ingredient{
		ID:              id,
		UserID:          userID,
		Name:            form.Name,
		Type:            Type(form.Type),
		PackageCost:     form.PackageCost,
		PackageQuantity: form.PackageQuantity,
		Unit:            form.Unit,
		YieldPercentage: form.YieldPercentage,
	}
}
