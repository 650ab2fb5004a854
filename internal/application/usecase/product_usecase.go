package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// StockTxRunner ejecuta una función con un ProductRepository atado a una transacción.
// AdjustStock comparte columna de stock con el motor de entregas, así que pasa
// por la misma disciplina de bloqueo (SELECT FOR UPDATE dentro de una tx).
type StockTxRunner interface {
	RunStock(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// ProductUseCase CRUD de productos + ajuste directo de stock.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	txRunner    StockTxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, txRunner StockTxRunner) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, txRunner: txRunner}
}

// Create crea un producto con código único. Stock por defecto 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" || in.Category == "" {
		return nil, domain.InvalidInput("code, name y category son requeridos")
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.InvalidInput("el precio no puede ser negativo")
	}
	existing, err := uc.productRepo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el código %s ya existe", in.Code)
	}
	stock := int64(0)
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.InvalidInput("el stock inicial no puede ser negativo")
		}
		stock = *in.Stock
	}
	now := time.Now()
	product := &entity.Product{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Brand:       in.Brand,
		Price:       in.Price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto %d no encontrado", id)
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto por código.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto con código %s no encontrado", code)
	}
	return toProductResponse(product), nil
}

// List lista productos con filtro opcional por categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, category string, page dto.PageRequest) ([]dto.ProductResponse, int64, error) {
	products, total, err := uc.productRepo.List(ctx, category, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, total, nil
}

// Update actualiza los campos presentes; si cambia el código, re-verifica unicidad.
// El stock no se actualiza por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto %d no encontrado", id)
	}
	if in.Code != nil && *in.Code != product.Code {
		existing, err := uc.productRepo.GetByCode(ctx, *in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("el código %s ya existe", *in.Code)
		}
		product.Code = *in.Code
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.InvalidInput("el precio no puede ser negativo")
		}
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto %d no encontrado", id)
	}
	return uc.productRepo.Delete(ctx, id)
}

// AdjustStock ajusta el stock de un producto bajo bloqueo de fila.
// El resultado se recorta en cero: el stock nunca queda negativo.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id int64, adjustment int64) (*dto.ProductResponse, error) {
	var adjusted *entity.Product
	err := uc.txRunner.RunStock(ctx, func(productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto %d no encontrado", id)
		}
		newStock := product.Stock + adjustment
		if newStock < 0 {
			newStock = 0
		}
		if err := productRepo.UpdateStock(ctx, id, newStock); err != nil {
			return err
		}
		product.Stock = newStock
		adjusted = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(adjusted), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
