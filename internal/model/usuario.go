package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles del sistema.
const (
	RolAdmin    = "admin"
	RolCajero   = "cajero"
	RolPanadero = "panadero"
)

type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"not null"`
	NombreCompleto string    `gorm:"not null"`
	Rol            string    `gorm:"not null;default:'cajero'"` // admin | cajero | panadero
	Activo         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
