package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Code es único.
// Stock es la cantidad disponible; nunca puede quedar negativa y solo se
// muta dentro de la disciplina de bloqueo del motor de entregas.
type Product struct {
	ID          int64
	Code        string
	Name        string
	Description string
	Category    string
	Brand       string
	Price       decimal.Decimal // precio de venta vigente
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
