package domain

// EventType — тип события изменения каталога.
type EventType string

const (
	CategoryCreated EventType = "category.created"
	CategoryUpdated EventType = "category.updated"
	CategoryDeleted EventType = "category.deleted"
	ProductCreated  EventType = "product.created"
	ProductUpdated  EventType = "product.updated"
	ProductDeleted  EventType = "product.deleted"
)

// AggregateType — сущность, к которой относится событие.
type AggregateType string

const (
	AggregateCategory AggregateType = "category"
	AggregateProduct  AggregateType = "product"
)

// CatalogEvent описывает изменение каталога, которое публикуется во внешние системы.
type CatalogEvent struct {
	Type          EventType
	AggregateType AggregateType
	AggregateID   int64
	Data          map[string]any
}

func NewCategoryEvent(eventType EventType, c *Category) *CatalogEvent {
	return &CatalogEvent{
		Type:          eventType,
		AggregateType: AggregateCategory,
		AggregateID:   c.ID,
		Data: map[string]any{
			"id":   c.ID,
			"name": c.Name,
		},
	}
}

func NewProductEvent(eventType EventType, p *Product) *CatalogEvent {
	data := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price.StringFixed(PriceScale),
		"stock":       p.Stock,
		"category_id": p.CategoryID,
	}
	if p.Description != nil {
		data["description"] = *p.Description
	}

	return &CatalogEvent{
		Type:          eventType,
		AggregateType: AggregateProduct,
		AggregateID:   p.ID,
		Data:          data,
	}
}
