package repository

import (
	"context"

	"github.com/tu-usuario/retail-api/internal/domain/entity"
)

// ClientRepository puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	GetByEmail(ctx context.Context, email string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, int64, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id int64) error
}
