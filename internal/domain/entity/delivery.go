package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery representa la cabecera de una entrega a un cliente.
// Inmutable después de creada: no hay flujo de actualización ni cancelación.
// TotalAmount siempre es la suma de los subtotales de sus ítems.
type Delivery struct {
	ID          int64
	ClientID    int64
	Reference   string // código UUID para trazabilidad externa
	TotalAmount decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeliveryItem representa una línea de una entrega. Pertenece exclusivamente
// a su Delivery. UnitPrice es el precio del producto al momento de la
// transacción y Subtotal = UnitPrice * Quantity.
type DeliveryItem struct {
	ID         int64
	DeliveryID int64
	ProductID  int64
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	Product    *ProductRef // proyección para lectura; nil en escritura
}

// ProductRef es la proyección mínima de producto que acompaña a un ítem
// en las respuestas de lectura.
type ProductRef struct {
	ID   int64
	Code string
	Name string
}
