package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Requisiciones-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock solo se muta vía AdjustStock; nunca con un write absoluto.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByUnitAndSKU(unitID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCost(productID string, cost decimal.Decimal) error
	ListByUnit(unitID string, limit, offset int) ([]*entity.Product, error)
	// GetManyForUpdate carga los productos indicados bloqueando sus filas
	// (SELECT FOR UPDATE) para que la validación de suficiencia no lea stock
	// viejo bajo concurrencia.
	GetManyForUpdate(ids []string) (map[string]*entity.Product, error)
	// AdjustStock aplica un cambio relativo (stock = stock + delta); negativo
	// para salidas. Relativo para que decrementos concurrentes de requisiciones
	// distintas compongan sin perder updates.
	AdjustStock(productID string, delta int64) error
}
