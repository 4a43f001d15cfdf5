package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Requisiciones-api/internal/application/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/domain/repository"
)

// Ensure TxRunner implements fulfillment.TxRunner.
var _ fulfillment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Es la unidad de trabajo del motor de cumplimiento.
func (r *TxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.RequisitionRepository,
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reqRepo := NewRequisitionRepository(tx)
	productRepo := NewProductRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)
	auditRepo := NewAuditLogRepository(tx)

	if err := fn(reqRepo, productRepo, movRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
