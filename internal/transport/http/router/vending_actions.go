package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-vending-machine/internal/core/cache"
	"go-vending-machine/internal/domain"
	"go-vending-machine/internal/repo"
	httpez "go-vending-machine/internal/transport/http/ez"
	"go-vending-machine/internal/vending"
)

// mountVendingActions 投币/清零/购买，全部仅限 BUYER。
// deposit 与 buy 都是 read-modify-write，UseTx 包事务，行锁由 repo 的
// FindByIDForUpdate 提供。
func mountVendingActions(authed *gin.RouterGroup, db *gorm.DB, ch *cache.Cache) {
	ezAuth := httpez.New(authed)

	// --- POST /deposit ---
	type depositIn struct {
		// 不用 binding 校验：面额校验在 ledger 里，错误信息是稳定的业务文案
		Amount int `json:"amount"`
	}
	type depositOut struct {
		NewDeposit int `json:"new_deposit"`
	}
	httpez.RegisterAction[depositIn, depositOut](ezAuth, db, httpez.Action[depositIn, depositOut]{
		Method: http.MethodPost,
		Path:   "/deposit",
		Binder: httpez.BindJSON,
		Auth:   true,
		Role:   domain.RoleBuyer,
		UseTx:  true,
		OKMsg:  "Deposit Completed",
		Handler: func(c *gin.Context, tx *gorm.DB, in *depositIn) (depositOut, error) {
			ledger := vending.NewLedger(repo.NewUserRepo(tx))
			balance, err := ledger.Deposit(c, httpez.CallerOf(c).UserID, in.Amount)
			if err != nil {
				return depositOut{}, err
			}
			return depositOut{NewDeposit: balance}, nil
		},
	})

	// --- POST /reset ---
	type resetOut struct {
		NewDeposit int `json:"new_deposit"`
	}
	httpez.RegisterAction[struct{}, resetOut](ezAuth, db, httpez.Action[struct{}, resetOut]{
		Method: http.MethodPost,
		Path:   "/reset",
		Binder: httpez.BindNone,
		Auth:   true,
		Role:   domain.RoleBuyer,
		OKMsg:  "Reset Complete",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (resetOut, error) {
			ledger := vending.NewLedger(repo.NewUserRepo(tx))
			balance, err := ledger.Reset(c, httpez.CallerOf(c).UserID)
			if err != nil {
				return resetOut{}, err
			}
			return resetOut{NewDeposit: balance}, nil
		},
	})

	// --- POST /buy ---
	type buyIn struct {
		ProductID string `json:"product_id" binding:"required"`
		// 数量同样不走 binding：<1 的稳定文案由 Purchase 给出
		ProductQuantity int `json:"product_quantity"`
	}
	httpez.RegisterAction[buyIn, vending.Receipt](ezAuth, db, httpez.Action[buyIn, vending.Receipt]{
		Method: http.MethodPost,
		Path:   "/buy",
		Binder: httpez.BindJSON,
		Auth:   true,
		Role:   domain.RoleBuyer,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *buyIn) (vending.Receipt, error) {
			p := vending.NewPurchaser(repo.NewUserRepo(tx), repo.NewProductRepo(tx))
			rcpt, err := p.Purchase(c, httpez.CallerOf(c).UserID, in.ProductID, in.ProductQuantity)
			if err != nil {
				return vending.Receipt{}, err
			}
			// 库存变了，提交后再作废商品缓存
			httpez.AfterCommit(c, func() {
				ch.Invalidate(c, productKey(in.ProductID), productsAllKey)
			})
			return *rcpt, nil
		},
	})
}
