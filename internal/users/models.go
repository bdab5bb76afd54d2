package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

// User is a directory entry for someone who can sign in to the portal.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `json:"name" gorm:"not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         programs.Role  `json:"role" gorm:"not null"`
	Department   string         `json:"department"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Actor converts the directory entry into the identity used by the
// permission checks.
func (u *User) Actor() programs.Actor {
	return programs.Actor{ID: u.ID, Role: u.Role, Name: u.Name}
}
