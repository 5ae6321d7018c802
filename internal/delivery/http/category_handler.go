package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type CategoryHandler struct {
	categoryUsecase usecase.CategoryUC
	logger          logger.Logger
}

func NewCategoryHandler(categoryUsecase usecase.CategoryUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryUsecase: categoryUsecase, logger: logger}
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		categories
//	@Produce	json
//	@Success	200	{object}	CategoryListEnvelope
//	@Failure	500	{object}	ErrorResponse
//	@Router		/categories [get]
func (c *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categoryUsecase.ListCategories(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponses(categories))
}

// getCategory
//
//	@Summary	Категория по идентификатору
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		int	true	"ID категории"
//	@Success	200	{object}	CategoryEnvelope
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/categories/{id} [get]
func (c *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	category, err := c.categoryUsecase.GetCategory(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// createCategory
//
//	@Summary	Создание категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		Idempotency-Key	header		string			false	"Ключ идемпотентности"
//	@Param		category		body		CategoryRequest	true	"Категория"
//	@Success	201				{object}	CategoryEnvelope
//	@Failure	400				{object}	ErrorResponse
//	@Failure	409				{object}	ErrorResponse
//	@Router		/categories [post]
func (c *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s: %v", http.StatusBadRequest, r.URL.Path, err)
		WriteError(w, err)
		return
	}

	category, err := c.categoryUsecase.CreateCategory(r.Context(), usecase.NewCreateCategoryReq(req.Name))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

// updateCategory
//
//	@Summary	Переименование категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id			path		int				true	"ID категории"
//	@Param		category	body		CategoryRequest	true	"Новое имя"
//	@Success	200			{object}	CategoryEnvelope
//	@Failure	400			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/categories/{id} [put]
func (c *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s: %v", http.StatusBadRequest, r.URL.Path, err)
		WriteError(w, err)
		return
	}

	category, err := c.categoryUsecase.UpdateCategory(r.Context(), id, usecase.NewUpdateCategoryReq(req.Name))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Категорию, в которой есть товары, удалить нельзя (409)
//	@Tags			categories
//	@Produce		json
//	@Param			id	path		int	true	"ID категории"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/categories/{id} [delete]
func (c *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.categoryUsecase.DeleteCategory(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	WriteMessage(w, http.StatusOK, "Category deleted successfully")
}
