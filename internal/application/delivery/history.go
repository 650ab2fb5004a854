package delivery

import (
	"context"

	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
)

// GetByID obtiene una entrega con sus ítems y proyección de producto.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.DeliveryResponse, error) {
	deliv, err := uc.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deliv == nil {
		return nil, domain.NotFound("entrega %d no encontrada", id)
	}
	items, err := uc.deliveryRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDeliveryResponse(deliv, items), nil
}

// GetClientHistory lista las entregas previas de un cliente, más recientes primero,
// con ítems anidados. Lectura sin bloqueo; page/limit ya vienen ajustados.
func (uc *UseCase) GetClientHistory(ctx context.Context, clientID int64, page dto.PageRequest) ([]dto.DeliveryResponse, int64, error) {
	client, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, 0, err
	}
	if client == nil {
		return nil, 0, domain.NotFound("cliente %d no encontrado", clientID)
	}

	deliveries, total, err := uc.deliveryRepo.ListByClient(ctx, clientID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, deliv := range deliveries {
		items, err := uc.deliveryRepo.GetItems(ctx, deliv.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *toDeliveryResponse(deliv, items))
	}
	return out, total, nil
}
