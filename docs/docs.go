// Package docs регистрирует swagger-спецификацию API для /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Проверка доступности API",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Список категорий",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CategoryListEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Создание категории",
                "parameters": [
                    {"type": "string", "description": "Ключ идемпотентности", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Категория", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CategoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.CategoryEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Категория по идентификатору",
                "parameters": [{"type": "integer", "description": "ID категории", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CategoryEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Переименование категории",
                "parameters": [
                    {"type": "integer", "description": "ID категории", "name": "id", "in": "path", "required": true},
                    {"description": "Новое имя", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CategoryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CategoryEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Категорию, в которой есть товары, удалить нельзя (409)",
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Удаление категории",
                "parameters": [{"type": "integer", "description": "ID категории", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Список товаров с категориями",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductListEnvelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Категория должна существовать, иначе 400",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Создание товара",
                "parameters": [
                    {"type": "string", "description": "Ключ идемпотентности", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Товар", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CreateProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ProductEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/category/{categoryId}": {
            "get": {
                "description": "Для несуществующей категории возвращается 404",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Товары категории",
                "parameters": [{"type": "integer", "description": "ID категории", "name": "categoryId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductListEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Товар по идентификатору",
                "parameters": [{"type": "integer", "description": "ID товара", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Частичное обновление товара",
                "parameters": [
                    {"type": "integer", "description": "ID товара", "name": "id", "in": "path", "required": true},
                    {"description": "Изменяемые поля", "name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.UpdateProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Удаление товара",
                "parameters": [{"type": "integer", "description": "ID товара", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.CategoryRequest": {
            "type": "object",
            "properties": {"name": {"type": "string", "example": "Electronics"}}
        },
        "http.CategoryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Electronics"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "http.CategoryRefResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Electronics"}
            }
        },
        "http.CategoryEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/http.CategoryResponse"}
            }
        },
        "http.CategoryListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/http.CategoryResponse"}}
            }
        },
        "http.CreateProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Laptop"},
                "description": {"type": "string", "example": "High-performance laptop"},
                "price": {"type": "string", "example": "999.99"},
                "stock": {"type": "integer", "example": 10},
                "category_id": {"type": "integer", "example": 1}
            }
        },
        "http.UpdateProductRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Laptop Pro"},
                "description": {"type": "string"},
                "price": {"type": "string", "example": "1299.00"},
                "stock": {"type": "integer", "example": 5},
                "category_id": {"type": "integer", "example": 2}
            }
        },
        "http.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "name": {"type": "string", "example": "Laptop"},
                "description": {"type": "string"},
                "price": {"type": "string", "example": "1000.00"},
                "stock": {"type": "integer", "example": 10},
                "category_id": {"type": "integer", "example": 1},
                "category": {"$ref": "#/definitions/http.CategoryRefResponse"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "http.ProductEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/http.ProductResponse"}
            }
        },
        "http.ProductListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/http.ProductResponse"}}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "Category not found"}
            }
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "Category deleted successfully"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string", "example": "API is running"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Inventory Management API",
	Description:      "Categories and products with referential integrity.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
