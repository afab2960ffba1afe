package products

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

// Handler exposes product CRUD endpoints.
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.show)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
}

type ingredientLineForm struct {
	IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
}

type componentLineForm struct {
	ComponentID string  `json:"component_id" validate:"required,uuid"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
}

type productForm struct {
	UserID            string               `json:"user_id" validate:"required,uuid"`
	Name              string               `json:"name" validate:"required"`
	Type              string               `json:"type" validate:"required,oneof=resold manufactured"`
	PurchaseCost      float64              `json:"purchase_cost" validate:"gte=0"`
	RecipeYield       float64              `json:"recipe_yield" validate:"gte=0"`
	SalePrice         float64              `json:"sale_price" validate:"gte=0"`
	AvgMonthlyRevenue float64              `json:"avg_monthly_revenue" validate:"gte=0"`
	Ingredients       []ingredientLineForm `json:"ingredients" validate:"dive"`
	Components        []componentLineForm  `json:"components" validate:"dive"`
	TaxPolicies       map[string]string    `json:"tax_policies" validate:"dive,oneof=enabled disabled"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id query parameter is required")
		return
	}
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": list})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.scope(w, r)
	if !ok {
		return
	}
	product, err := h.service.Get(r.Context(), userID, id)
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
		return
	}
	if err != nil {
		h.logger.Error("get product", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	model, err := h.toModel(form, uuid.Nil)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), model)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	form, ok := h.decode(w, r)
	if !ok {
		return
	}
	model, err := h.toModel(form, id)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	updated, err := h.service.Update(r.Context(), model)
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
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
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
		return
	}
	if err != nil {
		h.logger.Error("delete product", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	var form productForm
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
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return uuid.Nil, uuid.Nil, false
	}
	userID, err = uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id query parameter is required")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *Handler) toModel(form productForm, id uuid.UUID) (Product, error) {
	userID, _ := uuid.Parse(form.UserID)
	product := Product{
		ID:                id,
		UserID:            userID,
		Name:              form.Name,
		Type:              Type(form.Type),
		PurchaseCost:      form.PurchaseCost,
		RecipeYield:       form.RecipeYield,
		SalePrice:         form.SalePrice,
		AvgMonthlyRevenue: form.AvgMonthlyRevenue,
	}
	for _, line := range form.Ingredients {
		ingredientID, err := uuid.Parse(line.IngredientID)
		if err != nil {
			return Product{}, errors.New("invalid ingredient reference")
		}
		product.Ingredients = append(product.Ingredients, IngredientLine{
			IngredientID: ingredientID,
			Quantity:     line.Quantity,
		})
	}
	for _, line := range form.Components {
		componentID, err := uuid.Parse(line.ComponentID)
		if err != nil {
			return Product{}, errors.New("invalid component reference")
		}
		product.Components = append(product.Components, ComponentLine{
			ComponentID: componentID,
			Quantity:    line.Quantity,
		})
	}
	if len(form.TaxPolicies) > 0 {
		product.TaxPolicies = make(map[uuid.UUID]TaxStatus, len(form.TaxPolicies))
		for key, status := range form.TaxPolicies {
			taxID, err := uuid.Parse(key)
			if err != nil {
				return Product{}, errors.New("invalid tax reference")
			}
			product.TaxPolicies[taxID] = TaxStatus(status)
		}
	}
	return product, nil
}
