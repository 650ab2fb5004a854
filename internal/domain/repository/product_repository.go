package repository

import (
	"context"

	"github.com/tu-usuario/retail-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product.
// GetForUpdate solo tiene sentido dentro de una transacción: bloquea la fila
// (SELECT FOR UPDATE) para que chequeo y decremento de stock sean atómicos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id int64, stock int64) error
	Delete(ctx context.Context, id int64) error
}
