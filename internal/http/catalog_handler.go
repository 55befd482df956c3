package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

type CatalogHandler struct {
	repo   catalog.Repository
	logger *zap.Logger
}

func NewCatalogHandler(repo catalog.Repository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{repo: repo, logger: logger}
}

type storesResponse struct {
	Segments []string        `json:"segments"`
	Segment  string          `json:"segment"`
	Stores   []catalog.Store `json:"stores"`
}

// ListStores answers GET /api/stores?segment=&q=.
func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stores, err := h.repo.ListStores(ctx)
	if err != nil {
		h.logger.Error("list stores", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load stores")
		return
	}

	segment := queryOr(r, "segment", catalog.AllStores)
	writeJSON(w, http.StatusOK, storesResponse{
		Segments: catalog.StoreFilter.Categories(stores),
		Segment:  segment,
		Stores:   catalog.StoreFilter.Apply(stores, segment, r.URL.Query().Get("q")),
	})
}

type productsResponse struct {
	Store      string            `json:"store"`
	Categories []string          `json:"categories"`
	Category   string            `json:"category"`
	Products   []catalog.Product `json:"products"`
}

// ListProducts answers GET /api/stores/{storeName}/products?category=&q=.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	storeName := chi.URLParam(r, "storeName")
	if storeName == "" {
		writeError(w, r, http.StatusBadRequest, "missing storeName")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.repo.ListProducts(ctx, storeName)
	if err != nil {
		h.logger.Error("list products", zap.String("store", storeName), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load products")
		return
	}

	category := queryOr(r, "category", catalog.AllProducts)
	writeJSON(w, http.StatusOK, productsResponse{
		Store:      storeName,
		Categories: catalog.ProductFilter.Categories(products),
		Category:   category,
		Products:   catalog.ProductFilter.Apply(products, category, r.URL.Query().Get("q")),
	})
}

func queryOr(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}
