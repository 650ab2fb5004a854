package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
)

// DeliveryRepository puerto de persistencia para Delivery y sus ítems.
// GetItems devuelve los ítems con la proyección de producto (id, code, name).
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	CreateItem(ctx context.Context, item *entity.DeliveryItem) error
	UpdateTotal(ctx context.Context, deliveryID int64, total decimal.Decimal) error
	GetByID(ctx context.Context, id int64) (*entity.Delivery, error)
	GetItems(ctx context.Context, deliveryID int64) ([]*entity.DeliveryItem, error)
	ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]*entity.Delivery, int64, error)
}
