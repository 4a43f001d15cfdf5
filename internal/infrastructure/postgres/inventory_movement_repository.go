package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación del puerto InventoryMovementRepository
// sobre PostgreSQL. El libro es append-only: aquí no hay UPDATE ni DELETE.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador de persistencia para
// movimientos de inventario.
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, product_id, qty, type, ref_type, ref_id, request_item_id, unit_cost, total_cost, note, created_by, created_at`

const movementInsert = `
	INSERT INTO inventory_movements
		(id, product_id, qty, type, ref_type, ref_id, request_item_id, unit_cost, total_cost, note, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	var itemID sql.NullString
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Qty, &m.Type, &m.RefType, &m.RefID, &itemID,
		&m.UnitCost, &m.TotalCost, &m.Note, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.RequestItemID = itemID.String
	return &m, nil
}

// request_item_id se guarda como NULL en movimientos manuales: el índice único
// (ref_type, request_item_id) solo debe aplicar a entregas de requisiciones.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserta un movimiento manual (in/adjust).
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	_, err := r.q.Exec(context.Background(), movementInsert,
		movement.ID, movement.ProductID, movement.Qty, movement.Type,
		movement.RefType, movement.RefID, nullIfEmpty(movement.RequestItemID),
		movement.UnitCost, movement.TotalCost, movement.Note, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// CreateIfAbsent inserta el movimiento salvo que ya exista uno con la misma
// llave (ref_type, request_item_id). Usa ON CONFLICT DO NOTHING y distingue
// por RowsAffected: la detección del duplicado es explícita, el llamador
// sabe si el asiento se escribió o ya estaba.
func (r *InventoryMovementRepo) CreateIfAbsent(movement *entity.InventoryMovement) (bool, error) {
	query := movementInsert + `
	ON CONFLICT (ref_type, request_item_id) DO NOTHING`
	cmd, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Qty, movement.Type,
		movement.RefType, movement.RefID, nullIfEmpty(movement.RequestItemID),
		movement.UnitCost, movement.TotalCost, movement.Note, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert movement: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista el kardex de un producto, del más reciente al más antiguo.
func (r *InventoryMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE product_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, productID, limit, offset)
}

// ListByRef lista los movimientos generados por un documento origen
// (por ejemplo todas las entregas de una requisición).
func (r *InventoryMovementRepo) ListByRef(refType, refID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements WHERE ref_type = $1 AND ref_id = $2
		ORDER BY created_at`
	return r.list(query, refType, refID)
}

func (r *InventoryMovementRepo) list(query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
