package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryItemInput línea solicitada en una entrega.
type DeliveryItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// CreateDeliveryRequest cuerpo para crear una entrega.
type CreateDeliveryRequest struct {
	ClientID int64               `json:"clientId"`
	Items    []DeliveryItemInput `json:"items"`
	Notes    string              `json:"notes"`
}

// ProductRefResponse proyección mínima de producto en ítems de entrega.
type ProductRefResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DeliveryItemResponse línea de entrega con snapshot de precio.
type DeliveryItemResponse struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"productId"`
	Quantity  int64               `json:"quantity"`
	UnitPrice decimal.Decimal     `json:"unitPrice"`
	Subtotal  decimal.Decimal     `json:"subtotal"`
	Product   *ProductRefResponse `json:"product,omitempty"`
}

// DeliveryResponse entrega completa con ítems.
type DeliveryResponse struct {
	ID          int64                  `json:"id"`
	ClientID    int64                  `json:"clientId"`
	Reference   string                 `json:"reference"`
	TotalAmount decimal.Decimal        `json:"totalAmount"`
	Notes       string                 `json:"notes,omitempty"`
	Items       []DeliveryItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}
