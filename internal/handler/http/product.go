package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/product-catalog/internal/domain"
	"github.com/utafrali/product-catalog/internal/service"
	"github.com/utafrali/product-catalog/pkg/httputil"
	"github.com/utafrali/product-catalog/pkg/pagination"
	"github.com/utafrali/product-catalog/pkg/validator"
)

// Envelope messages.
const (
	MsgAddSuccess     = "Add product success!"
	MsgUpdateSuccess  = "Update product success!"
	MsgDeleteSuccess  = "Delete product success!"
	MsgCount          = "Product count!"
	MsgNoProductFound = "No products found "
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	limits  pagination.Limits
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, limits pagination.Limits, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		limits:  limits,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CategoryRequest names a category inside a product body.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AddProductRequest is the JSON request body for adding a product.
type AddProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Brand       string           `json:"brand" validate:"required,max=255"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0,lte=9999999999.99"`
	Inventory   int              `json:"inventory" validate:"gte=0"`
	Description string           `json:"description" validate:"max=2000"`
	Category    *CategoryRequest `json:"category" validate:"required"`
}

func (req *AddProductRequest) toInput() *service.AddProductInput {
	return &service.AddProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Price:        req.Price,
		Inventory:    req.Inventory,
		Description:  req.Description,
		CategoryName: req.Category.Name,
	}
}

// UpdateProductRequest is the JSON request body for updating a product. An
// omitted category keeps the current one.
type UpdateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Brand       string           `json:"brand" validate:"required,max=255"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0,lte=9999999999.99"`
	Inventory   int              `json:"inventory" validate:"gte=0"`
	Description string           `json:"description" validate:"max=2000"`
	Category    *CategoryRequest `json:"category"`
}

func (req *UpdateProductRequest) toInput() *service.UpdateProductInput {
	input := &service.UpdateProductInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Description: req.Description,
	}
	if req.Category != nil {
		name := req.Category.Name
		input.CategoryName = &name
	}
	return input
}

// --- Handlers ---

// ListProducts handles GET /products?page=&size=&sortBy=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r, h.limits)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	page, err := h.service.GetAllProducts(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	items := pagination.NewPage(domain.NewProductListItems(page.Items), params, page.TotalElements)
	httputil.WritePage(w, httputil.MessageSuccess, items)
}

// GetProduct handles GET /products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, httputil.MessageSuccess, domain.NewProductDetail(*product))
}

// AddProduct handles POST /products
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	product, err := h.service.AddProduct(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, MsgAddSuccess, domain.NewProductDetail(*product))
}

// UpdateProduct handles PUT /products/{productId}/update
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), req.toInput(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, MsgUpdateSuccess, domain.NewProductUpdateResult(*product))
}

// DeleteProduct handles DELETE /products/{productId}/delete
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, r, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	if err := h.service.DeleteProductByID(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, MsgDeleteSuccess, id)
}

// GetProductsByBrandAndName handles GET /products/by/brand-and-name?brandName=&productName=
func (h *ProductHandler) GetProductsByBrandAndName(w http.ResponseWriter, r *http.Request) {
	q, err := httputil.RequireQuery(r, "brandName", "productName")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.GetProductsByBrandAndName(r.Context(), q[0], q[1])
	h.writeProducts(w, r, products, err)
}

// GetProductsByCategoryAndBrand handles GET /products/by/category-and-brand?category=&brand=
func (h *ProductHandler) GetProductsByCategoryAndBrand(w http.ResponseWriter, r *http.Request) {
	q, err := httputil.RequireQuery(r, "category", "brand")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.GetProductsByCategoryAndBrand(r.Context(), q[0], q[1])
	h.writeProducts(w, r, products, err)
}

// GetProductsByName handles GET /products/name/{name}
func (h *ProductHandler) GetProductsByName(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProductsByName(r.Context(), pathParam(r, "name"))
	h.writeProducts(w, r, products, err)
}

// GetProductsByBrand handles GET /products/product/by-brand?brand=
func (h *ProductHandler) GetProductsByBrand(w http.ResponseWriter, r *http.Request) {
	q, err := httputil.RequireQuery(r, "brand")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.service.GetProductsByBrand(r.Context(), q[0])
	h.writeProducts(w, r, products, err)
}

// GetProductsByCategory handles GET /products/product/{category}/all/products
func (h *ProductHandler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProductsByCategory(r.Context(), pathParam(r, "category"))
	h.writeProducts(w, r, products, err)
}

// CountProductsByBrandAndName handles GET /products/product/count/by-brand/and-name?brand=&name=
func (h *ProductHandler) CountProductsByBrandAndName(w http.ResponseWriter, r *http.Request) {
	q, err := httputil.RequireQuery(r, "brand", "name")
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	count, err := h.service.CountProductsByBrandAndName(r.Context(), q[0], q[1])
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteOK(w, MsgCount, count)
}

// writeProducts renders a filter result. An empty result is a 404 with a
// null payload.
func (h *ProductHandler) writeProducts(w http.ResponseWriter, r *http.Request, products []domain.Product, err error) {
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if len(products) == 0 {
		httputil.WriteNotFound(w, MsgNoProductFound)
		return
	}
	httputil.WriteOK(w, httputil.MessageSuccess, domain.NewProductListItems(products))
}

// pathParam returns a decoded chi URL parameter. chi reads from RawPath when
// the request carries escaped slashes.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
