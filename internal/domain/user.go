package domain

import (
	"context"
	"time"
)

const (
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
)

// ValidRole reports whether r is one of the two account roles.
func ValidRole(r string) bool { return r == RoleBuyer || r == RoleSeller }

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:191;not null" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Role         string    `gorm:"size:16;not null" json:"role"` // "BUYER"/"SELLER"
	Deposit      int       `gorm:"not null;default:0" json:"deposit"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error

	// FindByIDForUpdate locks the user row for the rest of the enclosing
	// transaction (SELECT ... FOR UPDATE).
	FindByIDForUpdate(ctx context.Context, id string) (*User, error)
	UpdateDeposit(ctx context.Context, id string, deposit int) error
}
