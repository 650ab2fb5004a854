package delivery_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdelivery "github.com/tu-usuario/retail-api/internal/application/delivery"
	"github.com/tu-usuario/retail-api/internal/application/dto"
	"github.com/tu-usuario/retail-api/internal/domain"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
	"github.com/tu-usuario/retail-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore emula el estado de la base de datos. txMu serializa transacciones
// completas, que es el comportamiento observable del bloqueo de filas cuando
// dos entregas compiten por los mismos productos.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	clients    map[int64]*entity.Client
	products   map[int64]*entity.Product
	deliveries map[int64]*entity.Delivery
	orderedIDs []int64 // IDs de entrega en orden de inserción
	items      map[int64][]*entity.DeliveryItem

	nextDeliveryID int64
	nextItemID     int64

	lockOrder []int64 // IDs pasados a GetForUpdate, en orden de llamada
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients:    make(map[int64]*entity.Client),
		products:   make(map[int64]*entity.Product),
		deliveries: make(map[int64]*entity.Delivery),
		items:      make(map[int64][]*entity.DeliveryItem),
	}
}

type storeSnapshot struct {
	products   map[int64]*entity.Product
	deliveries map[int64]*entity.Delivery
	orderedIDs []int64
	items      map[int64][]*entity.DeliveryItem
	nextDelID  int64
	nextItemID int64
}

func (s *fakeStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		products:   make(map[int64]*entity.Product, len(s.products)),
		deliveries: make(map[int64]*entity.Delivery, len(s.deliveries)),
		orderedIDs: append([]int64(nil), s.orderedIDs...),
		items:      make(map[int64][]*entity.DeliveryItem, len(s.items)),
		nextDelID:  s.nextDeliveryID,
		nextItemID: s.nextItemID,
	}
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, d := range s.deliveries {
		cp := *d
		snap.deliveries[id] = &cp
	}
	for id, list := range s.items {
		cpList := make([]*entity.DeliveryItem, len(list))
		for i, it := range list {
			cp := *it
			cpList[i] = &cp
		}
		snap.items[id] = cpList
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.deliveries = snap.deliveries
	s.orderedIDs = snap.orderedIDs
	s.items = snap.items
	s.nextDeliveryID = snap.nextDelID
	s.nextItemID = snap.nextItemID
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake sobre el store
// ──────────────────────────────────────────────────────────────────────────────

type fakeClientRepo struct{ s *fakeStore }

func (r *fakeClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = c
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClientRepo) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) List(_ context.Context, _, _ int) ([]*entity.Client, int64, error) {
	return nil, 0, nil
}
func (r *fakeClientRepo) Update(_ context.Context, _ *entity.Client) error { return nil }
func (r *fakeClientRepo) Delete(_ context.Context, _ int64) error          { return nil }

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lockOrder = append(r.s.lockOrder, id)
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Product, int64, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) Update(_ context.Context, _ *entity.Product) error { return nil }

func (r *fakeProductRepo) UpdateStock(_ context.Context, id int64, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[id].Stock = stock
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, _ int64) error { return nil }

type fakeDeliveryRepo struct{ s *fakeStore }

func (r *fakeDeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextDeliveryID++
	d.ID = r.s.nextDeliveryID
	cp := *d
	r.s.deliveries[d.ID] = &cp
	r.s.orderedIDs = append(r.s.orderedIDs, d.ID)
	return nil
}

func (r *fakeDeliveryRepo) CreateItem(_ context.Context, item *entity.DeliveryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	cp := *item
	r.s.items[item.DeliveryID] = append(r.s.items[item.DeliveryID], &cp)
	return nil
}

func (r *fakeDeliveryRepo) UpdateTotal(_ context.Context, deliveryID int64, total decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deliveries[deliveryID].TotalAmount = total
	return nil
}

func (r *fakeDeliveryRepo) GetByID(_ context.Context, id int64) (*entity.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deliveries[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeliveryRepo) GetItems(_ context.Context, deliveryID int64) ([]*entity.DeliveryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.DeliveryItem, 0, len(r.s.items[deliveryID]))
	for _, it := range r.s.items[deliveryID] {
		cp := *it
		if p, ok := r.s.products[it.ProductID]; ok {
			cp.Product = &entity.ProductRef{ID: p.ID, Code: p.Code, Name: p.Name}
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) ListByClient(_ context.Context, clientID int64, limit, offset int) ([]*entity.Delivery, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Más recientes primero: orden inverso de inserción.
	var all []*entity.Delivery
	for i := len(r.s.orderedIDs) - 1; i >= 0; i-- {
		d := r.s.deliveries[r.s.orderedIDs[i]]
		if d.ClientID == clientID {
			cp := *d
			all = append(all, &cp)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// fakeTxRunner emula la transacción: serializa con txMu y ante error restaura
// el snapshot previo (rollback).
type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&fakeClientRepo{r.s}, &fakeProductRepo{r.s}, &fakeDeliveryRepo{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func newFixture() (*fakeStore, *appdelivery.UseCase) {
	store := newFakeStore()
	store.clients[1] = &entity.Client{ID: 1, Name: "Comercial Andina", Email: "compras@andina.co"}
	store.products[10] = &entity.Product{
		ID: 10, Code: "LAP-001", Name: "Laptop 14\"", Category: "tecnologia",
		Price: decimal.NewFromInt(25000), Stock: 5,
	}
	store.products[20] = &entity.Product{
		ID: 20, Code: "MOU-002", Name: "Mouse inalámbrico", Category: "tecnologia",
		Price: decimal.NewFromInt(10000), Stock: 3,
	}
	store.products[30] = &entity.Product{
		ID: 30, Code: "TEC-003", Name: "Teclado mecánico", Category: "tecnologia",
		Price: decimal.NewFromInt(15000), Stock: 8,
	}
	uc := appdelivery.NewUseCase(&fakeTxRunner{store}, &fakeClientRepo{store}, &fakeDeliveryRepo{store})
	return store, uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EntregaExitosa(t *testing.T) {
	store, uc := newFixture()

	out, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 20, Quantity: 1},
		},
		Notes: "entrega urgente",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	// Total = 2*25000 + 1*10000 = 60000
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(60000)),
		"total esperado 60000, obtenido %s", out.TotalAmount)
	assert.NotEmpty(t, out.Reference, "la referencia UUID debe generarse")
	require.Len(t, out.Items, 2)

	// Snapshot de precio y subtotal por línea
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.NewFromInt(25000)))
	assert.True(t, out.Items[0].Subtotal.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, out.Items[0].Product)
	assert.Equal(t, "LAP-001", out.Items[0].Product.Code)

	// Stock decrementado
	assert.Equal(t, int64(3), store.products[10].Stock)
	assert.Equal(t, int64(2), store.products[20].Stock)
}

func TestCreate_LineasRepetidasConsumenSaldoCorrido(t *testing.T) {
	store, uc := newFixture()

	// Dos líneas del mismo producto (stock 5): 2 + 2 caben, saldo final 1.
	out, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 10, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.products[10].Stock)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(100000)))
}

func TestCreate_LineasRepetidasSuperanStock(t *testing.T) {
	store, uc := newFixture()

	// 3 + 3 sobre stock 5: cada línea cabe por separado pero no en conjunto.
	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 10, Quantity: 3},
			{ProductID: 10, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInsufficientStock))
	assert.Equal(t, int64(5), store.products[10].Stock, "el stock no debe cambiar")
}

func TestCreate_StockInsuficienteRevierteTodo(t *testing.T) {
	store, uc := newFixture()

	// El producto 10 alcanza pero el 20 no: nada debe persistir.
	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 20, Quantity: 99},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Mouse inalámbrico",
		"el mensaje debe nombrar el producto ofensor")

	assert.Equal(t, int64(5), store.products[10].Stock)
	assert.Equal(t, int64(3), store.products[20].Stock)
	assert.Empty(t, store.deliveries, "no debe quedar cabecera de entrega")
	assert.Empty(t, store.items, "no deben quedar ítems")
}

func TestCreate_ClienteInexistente(t *testing.T) {
	_, uc := newFixture()

	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 999,
		Items:    []dto.DeliveryItemInput{{ProductID: 10, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestCreate_ProductoInexistente(t *testing.T) {
	store, uc := newFixture()

	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 10, Quantity: 1},
			{ProductID: 777, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, int64(5), store.products[10].Stock)
}

func TestCreate_SinItems(t *testing.T) {
	_, uc := newFixture()

	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{ClientID: 1})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestCreate_CantidadNoPositiva(t *testing.T) {
	store, uc := newFixture()

	for _, qty := range []int64{0, -3} {
		_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
			ClientID: 1,
			Items:    []dto.DeliveryItemInput{{ProductID: 10, Quantity: qty}},
		})
		require.Error(t, err, "cantidad %d debe rechazarse", qty)
		assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
	}
	assert.Equal(t, int64(5), store.products[10].Stock)
	assert.Empty(t, store.deliveries)
}

func TestCreate_BloqueaProductosEnOrdenAscendente(t *testing.T) {
	store, uc := newFixture()

	// Ítems en desorden: el bloqueo debe ser 10, 20, 30 sin repetidos.
	_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items: []dto.DeliveryItemInput{
			{ProductID: 30, Quantity: 1},
			{ProductID: 10, Quantity: 1},
			{ProductID: 20, Quantity: 1},
			{ProductID: 30, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, store.lockOrder)
}

func TestCreate_ConcurrenteUnSoloGanador(t *testing.T) {
	store, uc := newFixture()
	store.products[10].Stock = 1

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Create(context.Background(), dto.CreateDeliveryRequest{
				ClientID: 1,
				Items:    []dto.DeliveryItemInput{{ProductID: 10, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, domain.IsKind(err, domain.KindInsufficientStock))
		}
	}
	assert.Equal(t, 1, wins, "con stock 1 solo una entrega concurrente debe ganar")
	assert.Equal(t, int64(0), store.products[10].Stock)
	assert.Len(t, store.deliveries, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_ConItems(t *testing.T) {
	_, uc := newFixture()

	created, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items:    []dto.DeliveryItemInput{{ProductID: 30, Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Reference, got.Reference)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "TEC-003", got.Items[0].Product.Code)
}

func TestGetByID_NoExiste(t *testing.T) {
	_, uc := newFixture()

	_, err := uc.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGetClientHistory_MasRecientesPrimero(t *testing.T) {
	_, uc := newFixture()

	first, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items:    []dto.DeliveryItemInput{{ProductID: 10, Quantity: 1}},
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
		ClientID: 1,
		Items:    []dto.DeliveryItemInput{{ProductID: 20, Quantity: 1}},
	})
	require.NoError(t, err)

	page := dto.PageRequest{}
	page.Clamp()
	out, total, err := uc.GetClientHistory(context.Background(), 1, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, out, 2)
	assert.Equal(t, second.ID, out[0].ID, "la más reciente va primero")
	assert.Equal(t, first.ID, out[1].ID)
	require.Len(t, out[0].Items, 1, "el historial anida los ítems")
}

func TestGetClientHistory_ClienteInexistente(t *testing.T) {
	_, uc := newFixture()

	page := dto.PageRequest{}
	page.Clamp()
	_, _, err := uc.GetClientHistory(context.Background(), 404, page)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestGetClientHistory_Paginacion(t *testing.T) {
	_, uc := newFixture()

	for i := 0; i < 3; i++ {
		_, err := uc.Create(context.Background(), dto.CreateDeliveryRequest{
			ClientID: 1,
			Items:    []dto.DeliveryItemInput{{ProductID: 30, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page := dto.PageRequest{Page: 2, Limit: 2}
	out, total, err := uc.GetClientHistory(context.Background(), 1, page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, out, 1, "la página 2 con límite 2 tiene un solo elemento")
}
