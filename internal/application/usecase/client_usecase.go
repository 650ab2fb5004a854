package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// ClientUseCase CRUD de clientes. El email único se pre-chequea y además lo
// respalda el constraint único del store (la carrera entre chequeo y escritura
// se resuelve mapeando la violación 23505 a Conflict, no confiando en el chequeo).
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create crea un cliente con email único.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.InvalidInput("name y email son requeridos")
	}
	existing, err := uc.clientRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("el email %s ya está registrado", in.Email)
	}
	now := time.Now()
	client := &entity.Client{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente %d no encontrado", id)
	}
	return toClientResponse(client), nil
}

// List lista clientes con paginación.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ClientResponse, int64, error) {
	clients, total, err := uc.clientRepo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, total, nil
}

// Update actualiza los campos presentes; si cambia el email, re-verifica unicidad.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente %d no encontrado", id)
	}
	if in.Email != nil && *in.Email != client.Email {
		existing, err := uc.clientRepo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("el email %s ya está registrado", *in.Email)
		}
		client.Email = *in.Email
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente. Si tiene entregas asociadas el store rechaza el
// borrado por FK y el error llega como Conflict.
func (uc *ClientUseCase) Delete(ctx context.Context, id int64) error {
	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.NotFound("cliente %d no encontrado", id)
	}
	return uc.clientRepo.Delete(ctx, id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
