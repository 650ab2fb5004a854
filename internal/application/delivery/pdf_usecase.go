package delivery

import (
	"context"

	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// PDFUseCase genera la remisión PDF de una entrega.
type PDFUseCase struct {
	deliveryRepo repository.DeliveryRepository
	clientRepo   repository.ClientRepository
	generator    NoteGenerator
}

// NewPDFUseCase construye el caso de uso de PDF.
func NewPDFUseCase(deliveryRepo repository.DeliveryRepository, clientRepo repository.ClientRepository, generator NoteGenerator) *PDFUseCase {
	return &PDFUseCase{deliveryRepo: deliveryRepo, clientRepo: clientRepo, generator: generator}
}

// GenerateNote arma los datos de la entrega y delega en el generador.
func (uc *PDFUseCase) GenerateNote(ctx context.Context, deliveryID int64) ([]byte, error) {
	deliv, err := uc.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if deliv == nil {
		return nil, domain.NotFound("entrega %d no encontrada", deliveryID)
	}
	client, err := uc.clientRepo.GetByID(ctx, deliv.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente %d no encontrado", deliv.ClientID)
	}
	items, err := uc.deliveryRepo.GetItems(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateDeliveryNote(ctx, deliv, client, items)
}
