package delivery

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// UseCase crea entregas de forma transaccional y resuelve las consultas de lectura.
// La creación bloquea las filas de producto (SELECT FOR UPDATE) antes de leer su
// stock, en orden ascendente de ID para evitar deadlocks entre entregas
// concurrentes con productos en común. La política ante contención es bloquear
// hasta que la transacción ganadora confirme o revierta.
type UseCase struct {
	txRunner     TxRunner
	clientRepo   repository.ClientRepository
	deliveryRepo repository.DeliveryRepository
}

// NewUseCase construye el caso de uso de entregas.
func NewUseCase(txRunner TxRunner, clientRepo repository.ClientRepository, deliveryRepo repository.DeliveryRepository) *UseCase {
	return &UseCase{txRunner: txRunner, clientRepo: clientRepo, deliveryRepo: deliveryRepo}
}

// Create crea la entrega, descuenta stock y calcula totales en una sola transacción.
// Cualquier violación (cliente o producto inexistente, cantidad no positiva,
// stock insuficiente) aborta sin dejar estado parcial. Sin reintentos: el fallo
// es terminal para el intento y el caller decide.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.InvalidInput("la entrega debe incluir al menos un ítem")
	}

	var created *entity.Delivery
	var createdItems []*entity.DeliveryItem

	err := uc.txRunner.Run(ctx, func(
		clientRepo repository.ClientRepository,
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		client, err := clientRepo.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("cliente %d no encontrado", in.ClientID)
		}

		// Bloqueo de todas las filas de producto referenciadas, en orden
		// ascendente de ID, antes de leer stock.
		ids := distinctProductIDs(in.Items)
		locked := make(map[int64]*entity.Product, len(ids))
		for _, id := range ids {
			product, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NotFound("producto %d no encontrado", id)
			}
			locked[id] = product
		}

		// Validación completa contra el snapshot bloqueado, antes de mutar.
		// Líneas repetidas del mismo producto consumen un saldo corrido.
		remaining := make(map[int64]int64, len(ids))
		for id, product := range locked {
			remaining[id] = product.Stock
		}
		for _, item := range in.Items {
			if item.Quantity <= 0 {
				return domain.InvalidInput("cantidad inválida para el producto %d", item.ProductID)
			}
			product := locked[item.ProductID]
			if remaining[item.ProductID] < item.Quantity {
				return domain.InsufficientStock("stock insuficiente para el producto %s", product.Name)
			}
			remaining[item.ProductID] -= item.Quantity
		}

		now := time.Now()
		deliv := &entity.Delivery{
			ClientID:    in.ClientID,
			Reference:   uuid.New().String(),
			TotalAmount: decimal.Zero, // placeholder; se recalcula al final
			Notes:       in.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := deliveryRepo.Create(ctx, deliv); err != nil {
			return err
		}

		// Ítems con snapshot de precio y decremento de stock, misma transacción.
		total := decimal.Zero
		for _, item := range in.Items {
			product := locked[item.ProductID]
			subtotal := product.Price.Mul(decimal.NewFromInt(item.Quantity))
			total = total.Add(subtotal)
			if err := deliveryRepo.CreateItem(ctx, &entity.DeliveryItem{
				DeliveryID: deliv.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  product.Price,
				Subtotal:   subtotal,
			}); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := productRepo.UpdateStock(ctx, id, remaining[id]); err != nil {
				return err
			}
		}
		if err := deliveryRepo.UpdateTotal(ctx, deliv.ID, total); err != nil {
			return err
		}
		deliv.TotalAmount = total

		// Recarga de ítems con proyección de producto, dentro de la misma tx.
		createdItems, err = deliveryRepo.GetItems(ctx, deliv.ID)
		if err != nil {
			return err
		}
		created = deliv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toDeliveryResponse(created, createdItems), nil
}

// distinctProductIDs devuelve los IDs de producto sin repetir, ascendentes.
func distinctProductIDs(items []dto.DeliveryItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func toDeliveryResponse(d *entity.Delivery, items []*entity.DeliveryItem) *dto.DeliveryResponse {
	resp := &dto.DeliveryResponse{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Reference:   d.Reference,
		TotalAmount: d.TotalAmount,
		Notes:       d.Notes,
		Items:       make([]dto.DeliveryItemResponse, 0, len(items)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, item := range items {
		ir := dto.DeliveryItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			ir.Product = &dto.ProductRefResponse{
				ID:   item.Product.ID,
				Code: item.Product.Code,
				Name: item.Product.Name,
			}
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
