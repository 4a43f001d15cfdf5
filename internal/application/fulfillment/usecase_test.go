package fulfillment_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appfulfillment "github.com/jhoicas/Requisiciones-api/internal/application/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/domain"
	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional: el TxRunner toma una foto del
// estado antes de ejecutar y la restaura si fn falla, igual que un rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	reqs      map[string]*entity.Requisition
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
	movKeys   map[string]bool // refType|requestItemID
	audits    []*entity.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		reqs:     map[string]*entity.Requisition{},
		products: map[string]*entity.Product{},
		movKeys:  map[string]bool{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, r := range s.reqs {
		rr := *r
		rr.Items = nil
		for _, it := range r.Items {
			cp := *it
			rr.Items = append(rr.Items, &cp)
		}
		c.reqs[id] = &rr
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.movements = append([]*entity.InventoryMovement{}, s.movements...)
	for k := range s.movKeys {
		c.movKeys[k] = true
	}
	c.audits = append([]*entity.AuditLog{}, s.audits...)
	return c
}

type memReqRepo struct{ s *memStore }

func (r *memReqRepo) Create(req *entity.Requisition) error {
	cp := *req
	cp.Items = nil
	for _, it := range req.Items {
		ic := *it
		cp.Items = append(cp.Items, &ic)
	}
	r.s.reqs[req.ID] = &cp
	return nil
}

func (r *memReqRepo) GetByID(id string) (*entity.Requisition, error) {
	req, ok := r.s.reqs[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	cp.Items = nil
	for _, it := range req.Items {
		ic := *it
		cp.Items = append(cp.Items, &ic)
	}
	return &cp, nil
}

func (r *memReqRepo) GetByIDForUpdate(id string) (*entity.Requisition, error) {
	return r.GetByID(id)
}

func (r *memReqRepo) UpdateHeader(req *entity.Requisition) error {
	stored, ok := r.s.reqs[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = req.Status
	stored.AssignedTo = req.AssignedTo
	stored.Note = req.Note
	stored.UpdatedAt = req.UpdatedAt
	return nil
}

func (r *memReqRepo) UpdateItem(item *entity.RequisitionItem) error {
	req, ok := r.s.reqs[item.RequisitionID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, it := range req.Items {
		if it.ID == item.ID {
			it.DeliveredQty = item.DeliveredQty
			it.Status = item.Status
			it.UpdatedAt = item.UpdatedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memReqRepo) ListByUnit(unitID, status string, limit, offset int) ([]*entity.Requisition, error) {
	var list []*entity.Requisition
	for _, req := range r.s.reqs {
		if req.UnitID == unitID && (status == "" || req.Status == status) {
			list = append(list, req)
		}
	}
	return list, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByUnitAndSKU(unitID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.UnitID == unitID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *memProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	if p, ok := r.s.products[productID]; ok {
		p.Cost = cost
	}
	return nil
}

func (r *memProductRepo) ListByUnit(unitID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) GetManyForUpdate(ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *memProductRepo) AdjustStock(productID string, delta int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += delta
	return nil
}

type memMovementRepo struct{ s *memStore }

func movKey(refType, requestItemID string) string {
	return fmt.Sprintf("%s|%s", refType, requestItemID)
}

func (r *memMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) CreateIfAbsent(m *entity.InventoryMovement) (bool, error) {
	key := movKey(m.RefType, m.RequestItemID)
	if r.s.movKeys[key] {
		return false, nil
	}
	r.s.movKeys[key] = true
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return true, nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			list = append(list, m)
		}
	}
	return list, nil
}

func (r *memMovementRepo) ListByRef(refType, refID string) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.RefType == refType && m.RefID == refID {
			list = append(list, m)
		}
	}
	return list, nil
}

type memAuditRepo struct{ s *memStore }

func (r *memAuditRepo) Create(e *entity.AuditLog) error {
	cp := *e
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

// memTxRunner restaura la foto previa si fn devuelve error (rollback).
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.RequisitionRepository,
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	snap := t.s.clone()
	err := fn(&memReqRepo{t.s}, &memProductRepo{t.s}, &memMovementRepo{t.s}, &memAuditRepo{t.s})
	if err != nil {
		*t.s = *snap
	}
	return err
}

type allowAllScope struct{}

func (allowAllScope) CanAccess(actorID, unitID string) (bool, error) { return true, nil }

type denyAllScope struct{}

func (denyAllScope) CanAccess(actorID, unitID string) (bool, error) { return false, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	unitID  = "unit-1"
	actorID = "user-bodeguero"
)

type fixture struct {
	store *memStore
	uc    *appfulfillment.UseCase
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store: store,
		uc:    appfulfillment.NewUseCase(&memTxRunner{store}, allowAllScope{}),
	}
}

func (f *fixture) addProduct(id, sku string, stock int64) {
	f.store.products[id] = &entity.Product{
		ID: id, UnitID: unitID, SKU: sku, Name: sku,
		Cost: decimal.NewFromInt(5), Stock: stock, IsActive: true,
	}
}

func (f *fixture) addRequisition(id, status string, items ...*entity.RequisitionItem) {
	f.store.reqs[id] = &entity.Requisition{
		ID: id, UnitID: unitID, Status: status, CreatedBy: "user-solicitante", Items: items,
	}
}

func item(id, reqID, productID string, requested, delivered int64, status string) *entity.RequisitionItem {
	return &entity.RequisitionItem{
		ID: id, RequisitionID: reqID, ProductID: productID,
		RequestedQty: requested, DeliveredQty: delivered, Status: status,
	}
}

func deliver(itemID string, q int64) dto.FulfillItemUpdate {
	return dto.FulfillItemUpdate{ItemID: itemID, DeliveredQty: &q}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios del motor de cumplimiento
// ──────────────────────────────────────────────────────────────────────────────

// Entrega parcial: 4 de 10. El ítem queda partial, el stock baja 4 y se asienta
// exactamente un movimiento.
func TestApplyFulfillment_EntregaParcial(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 4)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionInProgress, resp.Status)
	assert.Equal(t, int64(4), resp.Items[0].DeliveredQty)
	assert.Equal(t, entity.ItemPartial, resp.Items[0].Status)
	assert.Equal(t, int64(96), f.store.products["p1"].Stock)
	require.Len(t, f.store.movements, 1)
	assert.Equal(t, int64(4), f.store.movements[0].Qty)
	assert.Equal(t, entity.MovementTypeOut, f.store.movements[0].Type)
	assert.Equal(t, entity.MovementRefRequest, f.store.movements[0].RefType)
	assert.Equal(t, "i1", f.store.movements[0].RequestItemID)
	require.Len(t, f.store.audits, 1)
	assert.Equal(t, entity.AuditActionFulfill, f.store.audits[0].Action)
}

// Reaplicar la misma entrega: sin movimiento nuevo, stock intacto, estado igual.
func TestApplyFulfillment_ReaplicarEsIdempotente(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	body := dto.FulfillRequisitionRequest{Items: []dto.FulfillItemUpdate{deliver("i1", 4)}}
	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", body)
	require.NoError(t, err)
	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", body)
	require.NoError(t, err)

	assert.Equal(t, int64(4), resp.Items[0].DeliveredQty)
	assert.Equal(t, entity.ItemPartial, resp.Items[0].Status)
	assert.Equal(t, int64(96), f.store.products["p1"].Stock, "el stock no debe bajar dos veces")
	assert.Len(t, f.store.movements, 1, "a lo sumo un asiento por ítem")
}

// Completar: entrega el resto, el ítem queda delivered y la requisición completed.
func TestApplyFulfillment_Completar(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 96)
	f.addRequisition("r1", entity.RequisitionInProgress, item("i1", "r1", "p1", 10, 4, entity.ItemPartial))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCompleted,
		Items:  []dto.FulfillItemUpdate{deliver("i1", 10)},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionCompleted, resp.Status)
	assert.Equal(t, entity.ItemDelivered, resp.Items[0].Status)
	assert.Equal(t, int64(90), f.store.products["p1"].Stock, "solo baja el remanente de 6")
}

// Completar sin dar objetivos: el flag de completar implica entrega total por ítem.
func TestApplyFulfillment_CompletarSinObjetivosEntregaTodo(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 50)
	f.addRequisition("r1", entity.RequisitionInProgress, item("i1", "r1", "p1", 10, 4, entity.ItemPartial))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCompleted, resp.Status)
	assert.Equal(t, int64(10), resp.Items[0].DeliveredQty)
	assert.Equal(t, int64(44), f.store.products["p1"].Stock)
}

// Stock insuficiente: nada cambia, ni siquiera para productos que sí alcanzaban.
func TestApplyFulfillment_StockInsuficienteTodoONada(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addProduct("p2", "SKU-2", 5)
	f.addRequisition("r1", entity.RequisitionPending,
		item("i1", "r1", "p1", 10, 0, entity.ItemPending),
		item("i2", "r1", "p2", 10, 0, entity.ItemPending),
	)

	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 4), deliver("i2", 8)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var sErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "p2", sErr.ProductID)
	assert.Equal(t, int64(3), sErr.Shortfall())

	// Todo o nada: tampoco p1.
	assert.Equal(t, int64(100), f.store.products["p1"].Stock)
	assert.Equal(t, int64(5), f.store.products["p2"].Stock)
	assert.Equal(t, int64(0), f.store.reqs["r1"].Items[0].DeliveredQty)
	assert.Equal(t, int64(0), f.store.reqs["r1"].Items[1].DeliveredQty)
	assert.Empty(t, f.store.movements)
	assert.Empty(t, f.store.audits)
}

// Dos ítems del mismo producto se validan por la suma de sus deltas.
func TestApplyFulfillment_SuficienciaAgregadaPorProducto(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 9)
	f.addRequisition("r1", entity.RequisitionPending,
		item("i1", "r1", "p1", 6, 0, entity.ItemPending),
		item("i2", "r1", "p1", 6, 0, entity.ItemPending),
	)

	// 6 + 6 = 12 > 9 aunque cada ítem por separado alcance.
	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 6), deliver("i2", 6)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(9), f.store.products["p1"].Stock)
}

// Requisición terminal: inmutable, nada cambia.
func TestApplyFulfillment_TerminalEsInmutable(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionCancelled, item("i1", "r1", "p1", 10, 0, entity.ItemCancelled))

	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 4)},
	})
	assert.ErrorIs(t, err, domain.ErrImmutable)
	assert.Equal(t, int64(100), f.store.products["p1"].Stock)
	assert.Empty(t, f.store.movements)

	f.addRequisition("r2", entity.RequisitionCompleted, item("i2", "r2", "p1", 10, 10, entity.ItemDelivered))
	_, err = f.uc.ApplyFulfillment(context.Background(), actorID, "r2", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrImmutable)
}

// Completar con un ítem corto falla con IncompleteDelivery y no muta nada.
func TestApplyFulfillment_CompletarConEntregaIncompleta(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addProduct("p2", "SKU-2", 100)
	f.addRequisition("r1", entity.RequisitionInProgress,
		item("i1", "r1", "p1", 10, 10, entity.ItemDelivered),
		item("i2", "r1", "p2", 5, 2, entity.ItemPartial),
	)

	// i2 queda con objetivo 3 < 5: no se puede completar.
	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCompleted,
		Items:  []dto.FulfillItemUpdate{deliver("i2", 3)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteDelivery)
	assert.Equal(t, int64(100), f.store.products["p2"].Stock)
	assert.Equal(t, int64(2), f.store.reqs["r1"].Items[1].DeliveredQty)
	assert.Equal(t, entity.RequisitionInProgress, f.store.reqs["r1"].Status)
}

// Un ítem cancelado no bloquea completar el resto.
func TestApplyFulfillment_CompletarConItemCancelado(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addProduct("p2", "SKU-2", 100)
	f.addRequisition("r1", entity.RequisitionInProgress,
		item("i1", "r1", "p1", 10, 10, entity.ItemDelivered),
		item("i2", "r1", "p2", 5, 0, entity.ItemPending),
	)

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCompleted,
		Items:  []dto.FulfillItemUpdate{{ItemID: "i2", Status: entity.ItemCancelled}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCompleted, resp.Status)
	assert.Equal(t, entity.ItemCancelled, resp.Items[1].Status)
	assert.Equal(t, int64(100), f.store.products["p2"].Stock, "ítem cancelado no mueve stock")
}

// Transición explícita ilegal.
func TestApplyFulfillment_TransicionInvalida(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCompleted,
		Items:  []dto.FulfillItemUpdate{deliver("i1", 10)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int64(100), f.store.products["p1"].Stock)
	assert.Equal(t, entity.RequisitionPending, f.store.reqs["r1"].Status)
}

// Cancelación explícita desde pending.
func TestApplyFulfillment_Cancelar(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Status: entity.RequisitionCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCancelled, resp.Status)
	assert.Equal(t, int64(100), f.store.products["p1"].Stock)
	assert.Empty(t, f.store.movements)
}

// Estado derivado: todos los ítems entregados sin estado explícito → completed.
func TestApplyFulfillment_EstadoDerivadoCompleto(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionInProgress, item("i1", "r1", "p1", 10, 4, entity.ItemPartial))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 10)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCompleted, resp.Status)
}

// Asiento preexistente (reintento tras fallo parcial): el stock no se descuenta de nuevo.
func TestApplyFulfillment_AsientoExistenteNoDescuentaStock(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 96) // el intento anterior ya descontó 4
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))
	f.store.movKeys[movKey(entity.MovementRefRequest, "i1")] = true

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Items[0].DeliveredQty, "el estado del ítem sí se repara")
	assert.Equal(t, int64(96), f.store.products["p1"].Stock, "sin doble descuento")
}

// Direccionamiento por product_id cuando el producto aparece en un solo ítem.
func TestApplyFulfillment_DireccionarPorProducto(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	q := int64(4)
	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{{ProductID: "p1", DeliveredQty: &q}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Items[0].DeliveredQty)
}

func TestApplyFulfillment_EntradasInvalidas(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending,
		item("i1", "r1", "p1", 10, 0, entity.ItemPending),
		item("i2", "r1", "p1", 5, 0, entity.ItemPending),
	)
	q := int64(4)
	neg := int64(-1)

	tests := []struct {
		name string
		body dto.FulfillRequisitionRequest
	}{
		{"item_id y product_id a la vez", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ItemID: "i1", ProductID: "p1", DeliveredQty: &q}}}},
		{"sin item_id ni product_id", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{DeliveredQty: &q}}}},
		{"cantidad negativa", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ItemID: "i1", DeliveredQty: &neg}}}},
		{"ítem desconocido", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ItemID: "zzz", DeliveredQty: &q}}}},
		{"product_id ambiguo (dos ítems del mismo producto)", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ProductID: "p1", DeliveredQty: &q}}}},
		{"ítem repetido en el body", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{deliver("i1", 2), deliver("i1", 3)}}},
		{"estado de requisición desconocido", dto.FulfillRequisitionRequest{Status: "archived"}},
		{"estado de ítem desconocido", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ItemID: "i1", Status: "lost"}}}},
		{"actualización vacía para un ítem", dto.FulfillRequisitionRequest{
			Items: []dto.FulfillItemUpdate{{ItemID: "i1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", tt.body)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, int64(100), f.store.products["p1"].Stock)
		})
	}
}

func TestApplyFulfillment_NoExiste(t *testing.T) {
	f := newFixture()
	_, err := f.uc.ApplyFulfillment(context.Background(), actorID, "nope", dto.FulfillRequisitionRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyFulfillment_FueraDeAlcance(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))
	uc := appfulfillment.NewUseCase(&memTxRunner{f.store}, denyAllScope{})

	_, err := uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 4)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(100), f.store.products["p1"].Stock)
}

// Asignación y nota se persisten en la cabecera.
func TestApplyFulfillment_AsignarYNota(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	note := "entrega parcial, resto la próxima semana"
	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		AssignToMe: true,
		Note:       &note,
		Items:      []dto.FulfillItemUpdate{deliver("i1", 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, actorID, resp.AssignedTo)
	assert.Equal(t, note, resp.Note)
	assert.Equal(t, actorID, f.store.reqs["r1"].AssignedTo)
}

// Cota superior: un objetivo mayor a lo solicitado se entrega acotado.
func TestApplyFulfillment_ObjetivoSeAcotaALoSolicitado(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addRequisition("r1", entity.RequisitionPending, item("i1", "r1", "p1", 10, 0, entity.ItemPending))

	resp, err := f.uc.ApplyFulfillment(context.Background(), actorID, "r1", dto.FulfillRequisitionRequest{
		Items: []dto.FulfillItemUpdate{deliver("i1", 25)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.Items[0].DeliveredQty)
	assert.Equal(t, int64(90), f.store.products["p1"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de requisiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRequisition(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	f.addProduct("p2", "SKU-2", 50)

	resp, err := f.uc.CreateRequisition(context.Background(), "user-solicitante", unitID, dto.CreateRequisitionRequest{
		Note: "reposición semanal",
		Items: []dto.CreateRequisitionItemRequest{
			{ProductID: "p1", RequestedQty: 10},
			{ProductID: "p2", RequestedQty: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, resp.Status)
	require.Len(t, resp.Items, 2)
	for _, it := range resp.Items {
		assert.Equal(t, int64(0), it.DeliveredQty)
		assert.Equal(t, entity.ItemPending, it.Status)
	}
	require.Len(t, f.store.audits, 1)
	assert.Equal(t, entity.AuditActionCreate, f.store.audits[0].Action)
}

func TestCreateRequisition_Invalida(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "SKU-1", 100)
	inactive := &entity.Product{ID: "p9", UnitID: unitID, SKU: "SKU-9", IsActive: false}
	f.store.products["p9"] = inactive
	otherUnit := &entity.Product{ID: "p8", UnitID: "unit-2", SKU: "SKU-8", IsActive: true}
	f.store.products["p8"] = otherUnit

	tests := []struct {
		name    string
		in      dto.CreateRequisitionRequest
		wantErr error
	}{
		{"sin ítems", dto.CreateRequisitionRequest{}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateRequisitionRequest{
			Items: []dto.CreateRequisitionItemRequest{{ProductID: "p1", RequestedQty: 0}}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateRequisitionRequest{
			Items: []dto.CreateRequisitionItemRequest{{ProductID: "nope", RequestedQty: 1}}}, domain.ErrNotFound},
		{"producto inactivo", dto.CreateRequisitionRequest{
			Items: []dto.CreateRequisitionItemRequest{{ProductID: "p9", RequestedQty: 1}}}, domain.ErrInvalidInput},
		{"producto de otra unidad", dto.CreateRequisitionRequest{
			Items: []dto.CreateRequisitionItemRequest{{ProductID: "p8", RequestedQty: 1}}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateRequisition(context.Background(), "user-solicitante", unitID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.store.reqs, "ninguna creación parcial debe quedar persistida")
}
