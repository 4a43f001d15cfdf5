package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo implementación del puerto RequisitionRepository sobre PostgreSQL.
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador de persistencia para requisiciones.
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

const requisitionColumns = `id, unit_id, status, created_by, assigned_to, note, created_at, updated_at`

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var r entity.Requisition
	err := row.Scan(
		&r.ID, &r.UnitID, &r.Status, &r.CreatedBy, &r.AssignedTo, &r.Note,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta la requisición junto con todos sus ítems. Debe llamarse
// dentro de una transacción (vía TxRunner) para que cabecera e ítems
// queden juntos o ninguno.
func (r *RequisitionRepo) Create(req *entity.Requisition) error {
	ctx := context.Background()
	query := `
		INSERT INTO requests (id, unit_id, status, created_by, assigned_to, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.UnitID, req.Status, req.CreatedBy, req.AssignedTo, req.Note,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	itemQuery := `
		INSERT INTO request_items (id, request_id, product_id, requested_qty, delivered_qty, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range req.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.RequisitionID, it.ProductID, it.RequestedQty, it.DeliveredQty,
			it.Status, it.CreatedAt, it.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
	}
	return nil
}

// GetByID carga la requisición con sus ítems, sin bloqueo.
func (r *RequisitionRepo) GetByID(id string) (*entity.Requisition, error) {
	return r.get(id, false)
}

// GetByIDForUpdate carga la requisición con sus ítems bloqueando la fila de
// cabecera (SELECT FOR UPDATE). La cabecera es el punto de serialización:
// dos cumplimientos concurrentes de la misma requisición se ejecutan uno
// detrás del otro.
func (r *RequisitionRepo) GetByIDForUpdate(id string) (*entity.Requisition, error) {
	return r.get(id, true)
}

func (r *RequisitionRepo) get(id string, forUpdate bool) (*entity.Requisition, error) {
	ctx := context.Background()
	query := `SELECT ` + requisitionColumns + ` FROM requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	req, err := scanRequisition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, request_id, product_id, requested_qty, delivered_qty, status, created_at, updated_at
		FROM request_items WHERE request_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list request items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RequisitionItem
		err := rows.Scan(
			&it.ID, &it.RequisitionID, &it.ProductID, &it.RequestedQty, &it.DeliveredQty,
			&it.Status, &it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		req.Items = append(req.Items, &it)
	}
	return req, rows.Err()
}

// UpdateHeader actualiza la cabecera de la requisición (estado, asignación, nota).
func (r *RequisitionRepo) UpdateHeader(req *entity.Requisition) error {
	query := `
		UPDATE requests SET status = $2, assigned_to = $3, note = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Status, req.AssignedTo, req.Note, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	return nil
}

// UpdateItem actualiza la cantidad entregada y el estado de un ítem.
func (r *RequisitionRepo) UpdateItem(item *entity.RequisitionItem) error {
	query := `
		UPDATE request_items SET delivered_qty = $2, status = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DeliveredQty, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request item: %w", err)
	}
	return nil
}

// ListByUnit lista requisiciones de una unidad (solo cabeceras), con filtro
// opcional por estado y paginación.
func (r *RequisitionRepo) ListByUnit(unitID, status string, limit, offset int) ([]*entity.Requisition, error) {
	ctx := context.Background()
	query := `SELECT ` + requisitionColumns + ` FROM requests WHERE unit_id = $1`
	args := []any{unitID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}
