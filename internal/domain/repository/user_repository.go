package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios (capa de identidad).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
