package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-vending-machine/internal/core/cache"
	"go-vending-machine/internal/domain"
	"go-vending-machine/internal/repo"
	httpez "go-vending-machine/internal/transport/http/ez"
	"go-vending-machine/pkg/utils"
)

const (
	productKeyPrefix = "product:"
	productsAllKey   = "products:all"
)

func productKey(id string) string { return productKeyPrefix + id }

// mountProductActions 商品目录：读公开（带缓存），写仅限 SELLER 本人
func mountProductActions(api, authed *gin.RouterGroup, db *gorm.DB, ch *cache.Cache, ttl time.Duration) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// 写路径统一在动作成功后作废缓存
	invalidate := func(c *gin.Context, ids ...string) {
		keys := []string{productsAllKey}
		for _, id := range ids {
			keys = append(keys, productKey(id))
		}
		httpez.AfterCommit(c, func() {
			ch.Invalidate(c, keys...)
		})
	}

	// --- POST /products ---
	type createIn struct {
		ProductName     string `json:"product_name"     binding:"required"`
		Cost            int    `json:"cost"             binding:"required,min=5"`
		AmountAvailable int    `json:"amount_available" binding:"required,min=1"`
	}
	httpez.RegisterAction[createIn, domain.Product](ezAuth, db, httpez.Action[createIn, domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		Auth:   true,
		Role:   domain.RoleSeller,
		OKMsg:  "Product Created",
		Handler: func(c *gin.Context, tx *gorm.DB, in *createIn) (domain.Product, error) {
			if in.Cost%5 != 0 {
				return domain.Product{}, domain.ErrCostNotMultipleOf5
			}
			p := &domain.Product{
				ID:              utils.NewID(),
				ProductName:     strings.TrimSpace(in.ProductName),
				Cost:            in.Cost,
				AmountAvailable: in.AmountAvailable,
				SellerID:        httpez.CallerOf(c).UserID,
			}
			if err := repo.NewProductRepo(tx).Create(c, p); err != nil {
				return domain.Product{}, httpez.Internal("create product failed", err)
			}
			invalidate(c, p.ID)
			return *p, nil
		},
	})

	// --- GET /products 公开目录 ---
	httpez.RegisterAction[struct{}, []domain.Product](ezPublic, db, httpez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindNone,
		OKMsg:  "Products Retrieved",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Product, error) {
			out, err := cache.GetOrLoadJSON[[]domain.Product](ch, c, productsAllKey, ttl,
				func(ctx context.Context) (*[]domain.Product, error) {
					products, _, err := repo.NewProductRepo(tx).List(ctx, 0, 0)
					if err != nil {
						return nil, err
					}
					return &products, nil
				})
			if err != nil {
				return nil, httpez.Internal("list products failed", err)
			}
			if out == nil {
				return []domain.Product{}, nil
			}
			return *out, nil
		},
	})

	// --- GET /products/:id 公开详情 ---
	httpez.RegisterAction[struct{}, domain.Product](ezPublic, db, httpez.Action[struct{}, domain.Product]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		OKMsg:  "Product Retrieved",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (domain.Product, error) {
			id := c.Param("id")
			p, err := cache.GetOrLoadJSON[domain.Product](ch, c, productKey(id), ttl,
				func(ctx context.Context) (*domain.Product, error) {
					return repo.NewProductRepo(tx).FindByID(ctx, id)
				})
			if err != nil {
				return domain.Product{}, httpez.Internal("find product failed", err)
			}
			if p == nil {
				return domain.Product{}, domain.ErrProductNotFound
			}
			return *p, nil
		},
	})

	// --- PUT /products/:id 仅限本人 ---
	type updateIn struct {
		ProductName     *string `json:"product_name"`
		Cost            *int    `json:"cost"`
		AmountAvailable *int    `json:"amount_available"`
	}
	httpez.RegisterAction[updateIn, domain.Product](ezAuth, db, httpez.Action[updateIn, domain.Product]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		Auth:   true,
		Role:   domain.RoleSeller,
		OKMsg:  "Product Updated",
		Handler: func(c *gin.Context, tx *gorm.DB, in *updateIn) (domain.Product, error) {
			products := repo.NewProductRepo(tx)
			p, err := products.FindByID(c, c.Param("id"))
			if err != nil {
				return domain.Product{}, httpez.Internal("find product failed", err)
			}
			if p == nil {
				return domain.Product{}, domain.ErrProductNotFound
			}
			if p.SellerID != httpez.CallerOf(c).UserID {
				return domain.Product{}, httpez.Forbidden("You can't edit this product.")
			}
			if in.ProductName != nil && strings.TrimSpace(*in.ProductName) != "" {
				p.ProductName = strings.TrimSpace(*in.ProductName)
			}
			if in.Cost != nil {
				if *in.Cost < 5 {
					return domain.Product{}, httpez.BadRequest("cost must not be less than 5")
				}
				if *in.Cost%5 != 0 {
					return domain.Product{}, domain.ErrCostNotMultipleOf5
				}
				p.Cost = *in.Cost
			}
			if in.AmountAvailable != nil {
				if *in.AmountAvailable < 0 {
					return domain.Product{}, httpez.BadRequest("amount_available must not be negative")
				}
				p.AmountAvailable = *in.AmountAvailable
			}
			if err := products.Update(c, p); err != nil {
				return domain.Product{}, httpez.Internal("update product failed", err)
			}
			invalidate(c, p.ID)
			return *p, nil
		},
	})

	// --- DELETE /products/:id 仅限本人 ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Role:   domain.RoleSeller,
		OKMsg:  "Product Deleted",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			products := repo.NewProductRepo(tx)
			p, err := products.FindByID(c, c.Param("id"))
			if err != nil {
				return nil, httpez.Internal("find product failed", err)
			}
			if p == nil {
				return nil, domain.ErrProductNotFound
			}
			if p.SellerID != httpez.CallerOf(c).UserID {
				return nil, httpez.Forbidden("You can't delete this product.")
			}
			if err := products.Delete(c, p.ID); err != nil {
				return nil, err
			}
			invalidate(c, p.ID)
			return gin.H{"id": p.ID}, nil
		},
	})
}
