package repository

import "github.com/jhoicas/Requisiciones-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmailAndUnit(email, unitID string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	ListByUnit(unitID string, limit, offset int) ([]*entity.User, error)
}
