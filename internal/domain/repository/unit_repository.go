package repository

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// UnitRepository define el puerto de persistencia para Unit (sucursal).
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	List(limit, offset int) ([]*entity.Unit, error)
}
