package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary	Список товаров с категориями
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	ProductListEnvelope
//	@Failure	500	{object}	ErrorResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// getProduct
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductEnvelope
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Категория должна существовать, иначе 400
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string					false	"Ключ идемпотентности"
//	@Param			product			body		CreateProductRequest	true	"Товар"
//	@Success		201				{object}	ProductEnvelope
//	@Failure		400				{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, r.URL.Path, err)
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary	Частичное обновление товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"ID товара"
//	@Param		product	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success	200		{object}	ProductEnvelope
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s: %v", http.StatusBadRequest, r.URL.Path, err)
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, &usecase.UpdateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	MessageResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "Product deleted successfully")
}

// getProductsByCategory
//
//	@Summary		Товары категории
//	@Description	Несуществующая категория — 404
//	@Tags			products
//	@Produce		json
//	@Param			categoryId	path		int	true	"ID категории"
//	@Success		200			{object}	ProductListEnvelope
//	@Failure		404			{object}	ErrorResponse
//	@Router			/products/category/{categoryId} [get]
func (p *ProductHandler) getProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryId")
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.GetProductsByCategory(r.Context(), categoryID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}
