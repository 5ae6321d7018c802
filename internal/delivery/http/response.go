package http

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Response — единый конверт ответа API.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse описывает неуспешный ответ для swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Category not found"`
}

// MessageResponse описывает ответ без данных для swagger.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Category deleted successfully"`
}

type HealthResponse struct {
	Success   bool      `json:"success" example:"true"`
	Message   string    `json:"message" example:"API is running"`
	Timestamp time.Time `json:"timestamp"`
}

type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// REQUESTS

type CategoryRequest struct {
	Name string `json:"name" example:"Electronics"`
}

// CreateProductRequest — тело POST /api/products. Цена принимается числом или строкой.
type CreateProductRequest struct {
	Name        string           `json:"name" example:"Laptop"`
	Description *string          `json:"description,omitempty" example:"High-performance laptop"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"999.99"`
	Stock       *int             `json:"stock,omitempty" example:"10"`
	CategoryID  *int64           `json:"category_id" example:"1"`
}

// UpdateProductRequest — тело PUT /api/products/{id}. Отсутствующие поля не меняются.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" example:"Laptop Pro"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"string" example:"1299.00"`
	Stock       *int             `json:"stock,omitempty" example:"5"`
	CategoryID  *int64           `json:"category_id,omitempty" example:"2"`
}

// RESPONSES

type CategoryResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Electronics"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryRefResponse struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Electronics"`
}

type ProductResponse struct {
	ID          int64                `json:"id" example:"1"`
	Name        string               `json:"name" example:"Laptop"`
	Description *string              `json:"description"`
	Price       string               `json:"price" example:"1000.00"`
	Stock       int                  `json:"stock" example:"10"`
	CategoryID  int64                `json:"category_id" example:"1"`
	Category    *CategoryRefResponse `json:"category"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// CategoryEnvelope и остальные *Envelope нужны только для описания ответов в swagger.
type CategoryEnvelope struct {
	Success bool             `json:"success" example:"true"`
	Data    CategoryResponse `json:"data"`
}

type CategoryListEnvelope struct {
	Success bool               `json:"success" example:"true"`
	Data    []CategoryResponse `json:"data"`
}

type ProductEnvelope struct {
	Success bool            `json:"success" example:"true"`
	Data    ProductResponse `json:"data"`
}

type ProductListEnvelope struct {
	Success bool              `json:"success" example:"true"`
	Data    []ProductResponse `json:"data"`
}

// MAPPERS

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return out
}

func toProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(domain.PriceScale),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		resp.Category = &CategoryRefResponse{ID: p.Category.ID, Name: p.Category.Name}
	}
	return resp
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return out
}
