package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ecomflow/catalog-service/internal/catalog/application"
	"github.com/ecomflow/catalog-service/internal/catalog/domain"
	"github.com/ecomflow/catalog-service/pkg/correlation"
	"github.com/ecomflow/catalog-service/pkg/logging"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("catalog-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequireCorrelation)
	r.Get("/api/product/{id}", h.getProduct)
	r.Get("/api/product/{id}/sales", h.getProductSales)
	r.Post("/api/product/check-stock", h.checkStock)

	return r
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "the product id must be an integer")
		return
	}
	product, err := h.service.FindProductByID(ctx, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse(product))
}

func (h *Handler) getProductSales(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProductSales")
	defer span.End()

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "the product id must be an integer")
		return
	}
	sales, err := h.service.FindProductSales(ctx, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp := productSalesResponse{
		productBody: productResponse(sales.Product),
		SalesIDs:    sales.SalesIDs,
	}
	writeJSON(w, http.StatusOK, resp)
}

type checkStockRequest struct {
	Products []domain.ProductQuantity `json:"products"`
}

func (h *Handler) checkStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CheckProductStock")
	defer span.End()

	log := h.log
	if corr, err := correlation.From(ctx); err == nil {
		log = logging.WithCorrelation(h.log, corr)
	}

	var req checkStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	log.Info("checking product stock", "products", len(req.Products))

	if err := h.service.CheckStock(ctx, req.Products); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	log.Info("product stock is ok")
	writeJSON(w, http.StatusOK, map[string]any{"status": http.StatusOK, "message": "the stock is ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation domain.ValidationError
	var notFound domain.NotFoundError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	default:
		h.log.Error("request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type productBody struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	QuantityAvailable int    `json:"quantityAvailable"`
	CategoryID        int    `json:"categoryId"`
	SupplierID        int    `json:"supplierId"`
}

type productSalesResponse struct {
	productBody
	SalesIDs []string `json:"salesIds"`
}

func productResponse(p domain.Product) productBody {
	return productBody{
		ID:                p.ID,
		Name:              p.Name,
		QuantityAvailable: p.QuantityAvailable,
		CategoryID:        p.CategoryID,
		SupplierID:        p.SupplierID,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
