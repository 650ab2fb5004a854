package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implementación de DeliveryRepository sobre PostgreSQL (usable con pool o tx).
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

// Create persiste la cabecera de una entrega. El ID lo asigna la secuencia.
func (r *DeliveryRepo) Create(ctx context.Context, delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (client_id, reference, total_amount, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		delivery.ClientID, delivery.Reference, delivery.TotalAmount, delivery.Notes,
		delivery.CreatedAt, delivery.UpdatedAt,
	).Scan(&delivery.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("el cliente %d no existe o fue eliminado", delivery.ClientID)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de entrega.
func (r *DeliveryRepo) CreateItem(ctx context.Context, item *entity.DeliveryItem) error {
	query := `
		INSERT INTO delivery_items (delivery_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.DeliveryID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert delivery item: %w", err)
	}
	return nil
}

// UpdateTotal fija el total de la entrega tras crear los ítems.
func (r *DeliveryRepo) UpdateTotal(ctx context.Context, deliveryID int64, total decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE deliveries SET total_amount = $2, updated_at = now() WHERE id = $1`,
		deliveryID, total,
	)
	if err != nil {
		return fmt.Errorf("update delivery total: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una entrega. Retorna nil, nil si no existe.
func (r *DeliveryRepo) GetByID(ctx context.Context, id int64) (*entity.Delivery, error) {
	query := `
		SELECT id, client_id, reference, total_amount, notes, created_at, updated_at
		FROM deliveries WHERE id = $1`
	var d entity.Delivery
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ClientID, &d.Reference, &d.TotalAmount, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// GetItems devuelve los ítems de una entrega con la proyección de producto (id, code, name).
func (r *DeliveryRepo) GetItems(ctx context.Context, deliveryID int64) ([]*entity.DeliveryItem, error) {
	query := `
		SELECT i.id, i.delivery_id, i.product_id, i.quantity, i.unit_price, i.subtotal,
		       p.id, p.code, p.name
		FROM delivery_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.delivery_id = $1
		ORDER BY i.id`
	rows, err := r.q.Query(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery items: %w", err)
	}
	defer rows.Close()
	var items []*entity.DeliveryItem
	for rows.Next() {
		var item entity.DeliveryItem
		var ref entity.ProductRef
		if err := rows.Scan(
			&item.ID, &item.DeliveryID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal,
			&ref.ID, &ref.Code, &ref.Name,
		); err != nil {
			return nil, fmt.Errorf("scan delivery item: %w", err)
		}
		item.Product = &ref
		items = append(items, &item)
	}
	return items, rows.Err()
}

// ListByClient lista entregas de un cliente, más recientes primero, con total.
func (r *DeliveryRepo) ListByClient(ctx context.Context, clientID int64, limit, offset int) ([]*entity.Delivery, int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM deliveries WHERE client_id = $1`, clientID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deliveries: %w", err)
	}
	query := `
		SELECT id, client_id, reference, total_amount, notes, created_at, updated_at
		FROM deliveries WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Reference, &d.TotalAmount, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	return list, total, rows.Err()
}
