package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest cuerpo para crear un producto. Stock por defecto 0.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int64          `json:"stock"`
}

// UpdateProductRequest cuerpo para actualizar un producto. Campos nil no se tocan.
// Stock no se actualiza por aquí: solo vía entregas o ajuste de stock.
type UpdateProductRequest struct {
	Code        *string          `json:"code"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
}

// AdjustStockRequest cuerpo para ajustar stock (positivo suma, negativo resta).
type AdjustStockRequest struct {
	Adjustment int64 `json:"adjustment"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
