package delivery

import (
	"context"

	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de entregas: cabecera, ítems y decrementos
// de stock se confirman juntos o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// NoteGenerator genera la representación PDF de una entrega (remisión).
type NoteGenerator interface {
	GenerateDeliveryNote(ctx context.Context, delivery *entity.Delivery, client *entity.Client, items []*entity.DeliveryItem) ([]byte, error)
}
