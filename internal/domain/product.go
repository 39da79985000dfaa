package domain

import (
	"context"
	"time"
)

type Product struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	ProductName     string    `gorm:"size:191;not null" json:"product_name"`
	Cost            int       `gorm:"not null" json:"cost"` // multiple of 5
	AmountAvailable int       `gorm:"not null" json:"amount_available"`
	SellerID        string    `gorm:"index;size:36;not null" json:"seller_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error

	// FindByIDForUpdate locks the product row for the rest of the enclosing
	// transaction (SELECT ... FOR UPDATE).
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)
	UpdateStock(ctx context.Context, id string, amountAvailable int) error
}
